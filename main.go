package main

import (
	"fmt"
	"os"

	"ai_writer_tools/adgate"
	"ai_writer_tools/config"
	"ai_writer_tools/generator"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	configPath string
	verbose    bool

	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "writer",
	Short:         "AI writer tools: story, blog, caption and content generation",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		l, err := zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/config.json", "path to config (.json or .yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logs")
	rootCmd.AddCommand(serveCmd, generateCmd, adCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func buildLLM(cfg config.Config) (generator.LLMClient, error) {
	if cfg.LLM == nil || cfg.LLM.Provider == "" {
		return nil, fmt.Errorf("llm config missing; please set llm.provider/model/api_key in config")
	}
	settings := &generator.LLMSettings{
		Provider:      cfg.LLM.Provider,
		Model:         cfg.LLM.Model,
		APIKey:        cfg.LLM.APIKey,
		BaseURL:       cfg.LLM.BaseURL,
		RatePerMinute: cfg.LLM.RatePerMinute,
	}
	switch cfg.LLM.Provider {
	case "openai":
		return generator.NewOpenAILLMFromConfig(settings)
	case "deepseek":
		// DeepSeek 提供 OpenAI 兼容接口，需填写 base_url。
		if cfg.LLM.BaseURL == "" {
			return nil, fmt.Errorf("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
		return generator.NewOpenAILLMFromConfig(settings)
	case "mock":
		return generator.MockLLM{}, nil
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}

func buildStore(cfg config.Config) (adgate.Storage, error) {
	switch cfg.AdGate.Store {
	case config.StoreMemory:
		return adgate.NewCacheStore(), nil
	default: // "" 与 file
		return adgate.NewFileStore(cfg.AdGate.Dir)
	}
}

func buildCounter(cfg config.Config, store adgate.Storage, key string) (*adgate.Counter, error) {
	links := adgate.DefaultLinks()
	if cfg.AdGate.LinkA != "" {
		links.A = cfg.AdGate.LinkA
	}
	if cfg.AdGate.LinkB != "" {
		links.B = cfg.AdGate.LinkB
	}
	return adgate.NewCounter(store,
		adgate.WithKey(key),
		adgate.WithLinks(links),
		adgate.WithLogger(logger.Named("adgate")))
}

func buildWriter(cfg config.Config) (*generator.Writer, error) {
	llm, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}
	return generator.NewWriter(llm, logger.Named("generator"))
}
