package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opsxjacky/Momentum-backtest/internal/data"
)

// symbolsCmd represents the symbols command
var symbolsCmd = &cobra.Command{
	Use:   "symbols [file]",
	Short: "读取标的列表",
	Long: `从CSV的Symbol列读取标的列表, 默认使用 data.symbols_file.

Example:
  go run ./cmd/momentum symbols sp500.csv --limit 100
  go run ./cmd/momentum symbols --limit 0`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSymbols,
}

var symbolsLimit int

func init() {
	rootCmd.AddCommand(symbolsCmd)
	symbolsCmd.Flags().IntVar(&symbolsLimit, "limit", data.DefaultSymbolLimit, "maximum number of symbols, 0 for all")
}

func runSymbols(cmd *cobra.Command, args []string) error {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		path = cfg.Data.SymbolsFile
	}
	if path == "" {
		return fmt.Errorf("no symbol file given and data.symbols_file is not set")
	}

	symbols, err := data.LoadSymbols(path, symbolsLimit)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, s := range symbols {
		fmt.Fprintln(out, s)
	}
	fmt.Fprintf(out, "%d symbols\n", len(symbols))
	return nil
}
