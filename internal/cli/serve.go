package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nerdneilsfield/go-site-translator/internal/server"
)

// NewServeCommand 创建 serve 命令
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "启动翻译 HTTP 服务",
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

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			srv := server.New(engine, cfg, log)
			return srv.Run(ctx)
		},
	}
}
