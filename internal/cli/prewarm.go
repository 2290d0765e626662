package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-site-translator/internal/server"
	"github.com/nerdneilsfield/go-site-translator/internal/store"
)

var prewarmWait bool

// NewPrewarmCommand 创建 prewarm 命令
//
// 离线执行站点级预热：扫描页面目录并把全部可翻译字符串灌入缓存，
// 和 POST /api/translate/prewarm 走同一条代码路径。
func NewPrewarmCommand() *cobra.Command {
	prewarmCmd := &cobra.Command{
		Use:   "prewarm",
		Short: "扫描站点页面并预热翻译缓存",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfigAndLogger()
			if err != nil {
				return err
			}
			defer func() {
				_ = log.Sync()
			}()

			engine, err := buildEngine(cfg, log)
			if err != nil {
				return err
			}

			items, err := server.CollectSiteTexts(cfg.Server.PagesDir)
			if err != nil {
				return fmt.Errorf("failed to scan pages: %w", err)
			}

			result, err := engine.BatchTranslate(cmd.Context(), items,
				cfg.Translator.PrewarmSource, cfg.Translator.PrewarmTarget)
			if err != nil {
				return err
			}

			log.Info("prewarm submitted",
				zap.Int("discovered", len(items)),
				zap.Int("cached", len(result.Results)),
				zap.Int("queued", result.QueuedCount))

			if result.JobID == "" || !prewarmWait {
				fmt.Printf("discovered %d strings, %d already cached, %d queued\n",
					len(items), len(result.Results), result.QueuedCount)
				return nil
			}

			// 等待后台队列排空
			for {
				job, ok := engine.GetJob(result.JobID)
				if !ok {
					return fmt.Errorf("job %s disappeared", result.JobID)
				}
				if job.Status == store.JobStatusCompleted {
					errored := 0
					for _, item := range job.Items {
						if item.Status == store.ItemStatusError {
							errored++
						}
					}
					fmt.Printf("prewarm completed: %d translated, %d failed\n",
						job.Done-errored, errored)
					return nil
				}
				select {
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				case <-time.After(500 * time.Millisecond):
				}
			}
		},
	}

	prewarmCmd.Flags().BoolVar(&prewarmWait, "wait", true, "等待队列排空后再退出")
	return prewarmCmd
}
