package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/go-site-translator/internal/store"
)

// NewStatsCommand 创建 stats 命令
func NewStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "查看缓存、任务和反馈的统计信息",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfigAndLogger()
			if err != nil {
				return err
			}
			defer func() {
				_ = log.Sync()
			}()

			cache, err := store.NewCacheStore(cfg.Translator.DataDir)
			if err != nil {
				return err
			}
			jobs, err := store.NewJobStore(cfg.Translator.DataDir, 0)
			if err != nil {
				return err
			}
			feedback, err := store.NewFeedbackStore(cfg.Translator.DataDir)
			if err != nil {
				return err
			}

			heading := color.New(color.FgCyan, color.Bold)
			heading.Printf("Translation data in %s\n\n", cfg.Translator.DataDir)

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{"Metric", "Count"})
			t.AppendRow(table.Row{"cache entries", cache.Len()})
			t.AppendRow(table.Row{"user-edited entries", cache.UserEditedCount()})
			for status, count := range jobs.Counts() {
				t.AppendRow(table.Row{fmt.Sprintf("jobs %s", status), count})
			}
			t.AppendRow(table.Row{"feedback records", feedback.Len()})
			t.Render()

			return nil
		},
	}
}
