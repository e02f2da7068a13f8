package cmd

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/go-lemac/lemacd/internal/cli"
)

// keygenCmd prints a freshly generated key/nonce pair. Each is a version-4
// uuid.UUID: 16 bytes, the size LeMac and PetitMac need for both a key and
// a nonce, of which 122 bits are random and 6 are fixed by the UUID
// version and variant fields.
var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a random key and nonce",
	Long:  `Generate a random 16-byte key and a random 16-byte nonce, printed as hex.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		log.Logger = log.Logger.Level(zerolog.Disabled)

		key, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("generating key: %w", err)
		}
		nonce, err := uuid.NewRandom()
		if err != nil {
			return fmt.Errorf("generating nonce: %w", err)
		}

		cmd.Printf("key:   %s\n", cli.FormatTag(key[:]))
		cmd.Printf("nonce: %s\n", cli.FormatTag(nonce[:]))

		return nil
	},
}

func init() {
	rootCmd.AddCommand(keygenCmd)
}
