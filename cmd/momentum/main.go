package main

import (
	"os"

	"github.com/opsxjacky/Momentum-backtest/cmd/momentum/commands"
)

// main 统一CLI入口: go run ./cmd/momentum [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
