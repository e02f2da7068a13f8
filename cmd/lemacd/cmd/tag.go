package cmd

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/go-lemac/lemacd/internal/cli"
	"github.com/go-lemac/lemacd/internal/macdispatch"
)

var (
	tagAlgo        string
	tagKeyHex      string
	tagNonceHex    string
	tagMessageHex  string
	tagMessageFile string
)

// tagCmd computes a MAC tag over a message supplied as hex or read from a file.
var tagCmd = &cobra.Command{
	Use:   "tag",
	Short: "Compute a MAC tag",
	Long:  `Compute a LeMac or PetitMac tag for a key, nonce, and message.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		log.Logger = log.Logger.Level(zerolog.Disabled)

		key, err := cli.ParseBlock("key", tagKeyHex)
		if err != nil {
			return err
		}
		nonce, err := cli.ParseBlock("nonce", tagNonceHex)
		if err != nil {
			return err
		}

		message, err := resolveMessage(tagMessageHex, tagMessageFile)
		if err != nil {
			return err
		}

		tagger, err := macdispatch.Resolve(nil, tagAlgo)
		if err != nil {
			return fmt.Errorf("unsupported algorithm %q: %w", tagAlgo, err)
		}

		tag, err := tagger.Tag(key, nonce, message)
		if err != nil {
			return fmt.Errorf("tag computation failed: %w", err)
		}

		cmd.Println(cli.FormatTag(tag[:]))

		return nil
	},
}

// resolveMessage reads the message from a file if one is given, otherwise
// decodes it from hex; an empty message is valid for either source.
func resolveMessage(messageHex, messageFile string) ([]byte, error) {
	if messageFile != "" {
		data, err := os.ReadFile(messageFile)
		if err != nil {
			return nil, fmt.Errorf("reading message file: %w", err)
		}

		return data, nil
	}

	if messageHex == "" {
		return nil, nil
	}

	data, err := hex.DecodeString(messageHex)
	if err != nil {
		return nil, fmt.Errorf("message: invalid hex: %w", err)
	}

	return data, nil
}

func init() {
	rootCmd.AddCommand(tagCmd)

	tagCmd.Flags().
		StringVar(&tagAlgo, "algo", macdispatch.LeMacV1, "algorithm: lemac, lemacv0, or petitmac")
	tagCmd.Flags().StringVar(&tagKeyHex, "key", "", "16-byte key, hex-encoded")
	tagCmd.Flags().StringVar(&tagNonceHex, "nonce", "", "16-byte nonce, hex-encoded")
	tagCmd.Flags().StringVar(&tagMessageHex, "message", "", "message, hex-encoded")
	tagCmd.Flags().StringVar(&tagMessageFile, "message-file", "", "path to a file holding the raw message")

	tagCmd.MarkFlagRequired("key")
	tagCmd.MarkFlagRequired("nonce")
}
