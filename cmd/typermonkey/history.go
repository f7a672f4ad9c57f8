package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/typermonkey/internal/model"
	"github.com/verte-zerg/typermonkey/internal/stats"
)

const (
	defaultTrendWindow = 5
	defaultTopWords    = 10
	fallbackWidth      = 80
)

var (
	historyLang   string
	historySince  string
	historyLast   int
	historyWords  int
	historyWindow int
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past sessions and the words found in them",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().StringVar(&historyLang, "lang", "", "language filter")
	cmd.Flags().StringVar(&historySince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&historyWords, "words", defaultTopWords, "number of top words to list (0 = none)")
	cmd.Flags().IntVar(&historyWindow, "window", defaultTrendWindow, "moving average window")
	return cmd
}

func historyConfig() (model.HistoryConfig, error) {
	cfg := model.HistoryConfig{Lang: historyLang, Last: historyLast}
	if historyLast < 0 {
		return cfg, fmt.Errorf("--last must be >= 0")
	}
	if historyWindow <= 0 {
		return cfg, fmt.Errorf("--window must be > 0")
	}
	if historySince != "" {
		since, err := time.ParseInLocation("2006-01-02", historySince, time.Local)
		if err != nil {
			return cfg, fmt.Errorf("invalid --since value: %w", err)
		}
		cfg.Since = &since
	}
	return cfg, nil
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := historyConfig()
	if err != nil {
		return err
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore(st)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, st, cfg, historyWords)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	return report.Render(cmd.OutOrStdout(), historyWindow, terminalWidth())
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return fallbackWidth
	}
	return width
}
