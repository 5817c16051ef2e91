package main

import (
	"os"

	"github.com/auctionlab/market-compliance/cmd/comply/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
