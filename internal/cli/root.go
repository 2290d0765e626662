package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/nerdneilsfield/go-site-translator/internal/config"
	"github.com/nerdneilsfield/go-site-translator/internal/logger"
	"github.com/nerdneilsfield/go-site-translator/internal/queue"
	"github.com/nerdneilsfield/go-site-translator/internal/store"
	"github.com/nerdneilsfield/go-site-translator/pkg/providers/factory"
)

var (
	// 命令行标志变量
	cfgFile   string
	debugMode bool
)

// NewRootCommand 创建根命令
func NewRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "site-translator",
		Short: "站点渐进式翻译服务",
		Long: `站点渐进式翻译服务：带溯源信息的翻译缓存、幂等的批次任务跟踪、
可插拔的翻译提供商以及人工修正反馈回路。

支持的翻译提供商:
  - none:   禁用翻译
  - echo:   测试替身，返回带语言标签的原文
  - deepl:  DeepL
  - google: Google Translate
  - yandex: Yandex Translate
  - custom: 自定义 HTTP 端点
  - openai: OpenAI Chat Completions`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "配置文件路径")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "启用调试日志")

	rootCmd.AddCommand(NewServeCommand())
	rootCmd.AddCommand(NewPrewarmCommand())
	rootCmd.AddCommand(NewStatsCommand())

	return rootCmd
}

// buildEngine 按配置组装存储、提供商和队列引擎
func buildEngine(cfg *config.Config, log *zap.Logger) (*queue.Engine, error) {
	cache, err := store.NewCacheStore(cfg.Translator.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load cache store: %w", err)
	}
	jobs, err := store.NewJobStore(cfg.Translator.DataDir, cfg.Translator.JobTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to load job store: %w", err)
	}
	feedback, err := store.NewFeedbackStore(cfg.Translator.DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load feedback store: %w", err)
	}

	provider, err := factory.New(cfg.Translator.Provider, factory.Options{
		APIKey:   cfg.Translator.APIKey,
		Endpoint: cfg.Translator.Endpoint,
		Model:    cfg.Translator.Model,
		Timeout:  cfg.Translator.Timeout,
	})
	if err != nil {
		return nil, err
	}

	log.Info("translation engine ready",
		zap.String("provider", provider.Name()),
		zap.String("dataDir", cfg.Translator.DataDir))

	return queue.NewEngine(cache, jobs, feedback, provider, log, cfg.Translator.Timeout), nil
}

// loadConfigAndLogger 加载配置并初始化日志
func loadConfigAndLogger() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	log := logger.NewLogger(debugMode)
	return cfg, log, nil
}
