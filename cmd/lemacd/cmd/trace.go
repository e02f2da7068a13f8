package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/go-lemac/lemacd/internal/cli"
	"github.com/go-lemac/lemacd/internal/macdispatch"
	"github.com/go-lemac/lemacd/internal/tui"
)

var (
	traceAlgo       string
	traceKeyHex     string
	traceNonceHex   string
	traceMessageHex string
)

// traceCmd launches the interactive step-through UHF tracer.
var traceCmd = &cobra.Command{
	Use:   "trace",
	Short: "Step through a MAC's UHF one chunk at a time",
	Long:  `Launch an interactive TUI that absorbs a message one chunk at a time, showing the lane state after each step (and, for PetitMac, the feedback registers).`,
	RunE: func(_ *cobra.Command, _ []string) error {
		log.Logger = log.Logger.Level(zerolog.Disabled)

		key, err := cli.ParseBlock("key", traceKeyHex)
		if err != nil {
			return err
		}
		nonce, err := cli.ParseBlock("nonce", traceNonceHex)
		if err != nil {
			return err
		}

		message, err := resolveMessage(traceMessageHex, "")
		if err != nil {
			return err
		}

		model, err := tui.NewModel(traceAlgo, key, nonce, message)
		if err != nil {
			return fmt.Errorf("unsupported algorithm %q: %w", traceAlgo, err)
		}

		_, err = tea.NewProgram(model).Run()

		return err
	},
}

func init() {
	rootCmd.AddCommand(traceCmd)

	traceCmd.Flags().
		StringVar(&traceAlgo, "algo", macdispatch.LeMacV1, "algorithm: lemac, lemacv0, or petitmac")
	traceCmd.Flags().StringVar(&traceKeyHex, "key", "", "16-byte key, hex-encoded")
	traceCmd.Flags().StringVar(&traceNonceHex, "nonce", "", "16-byte nonce, hex-encoded")
	traceCmd.Flags().StringVar(&traceMessageHex, "message", "", "message, hex-encoded")

	traceCmd.MarkFlagRequired("key")
	traceCmd.MarkFlagRequired("nonce")
}
