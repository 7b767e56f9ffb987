package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/opsxjacky/Momentum-backtest/internal/report"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "导出图表数据",
	Long: `为每个标的写出 <dir>/<SYMBOL>.csv: 日期, 收盘价和 output.chart_windows 中每个窗口的均线.
图表由外部工具绘制.

Example:
  go run ./cmd/momentum export --dir charts
  go run ./cmd/momentum export --window 38 --window 200`,
	RunE: runExport,
}

var (
	exportDir     string
	exportWindows []int
)

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportDir, "dir", "", "output directory (default <output.path>/charts)")
	exportCmd.Flags().IntSliceVar(&exportWindows, "window", nil, "moving average windows (default output.chart_windows)")
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if err := a.load(cmd); err != nil {
		return err
	}

	dir := exportDir
	if dir == "" {
		dir = filepath.Join(a.cfg.GetOutputPath(), "charts")
	}
	windows := exportWindows
	if len(windows) == 0 {
		windows = a.cfg.Output.ChartWindows
	}

	paths, err := report.ExportChartData(dir, a.session.Table, windows)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d files to %s\n", len(paths), dir)
	return nil
}
