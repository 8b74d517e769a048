package main

import (
	"os"

	"cosmossdk.io/log"

	"github.com/DorisUkamaka/StacksGuard/cmd/guardd/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		log.NewLogger(os.Stderr).Error("failure when running guardd", "err", err)
		os.Exit(1)
	}
}
