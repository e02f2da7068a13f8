// Command lemacd computes and serves LeMac/PetitMac tags.
package main

import (
	"fmt"
	"os"

	"github.com/go-lemac/lemacd/cmd/lemacd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
