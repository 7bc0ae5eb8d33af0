package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// 存储后端名称。
const (
	StoreFile   = "file"
	StoreMemory = "memory"
)

const (
	DefaultServerAddr = ":8080"
	DefaultModel      = "gpt-4o-mini"
	DefaultStoreDir   = ".writer"
)

// Config 是服务与 CLI 共用的配置。
type Config struct {
	LLM        *LLMConfig   `json:"llm,omitempty" yaml:"llm,omitempty"`
	ServerAddr string       `json:"server_addr,omitempty" yaml:"server_addr,omitempty"`
	AdGate     AdGateConfig `json:"ad_gate" yaml:"ad_gate"`
}

// LLMConfig 生成模块的模型配置。
type LLMConfig struct {
	Provider      string `json:"provider,omitempty" yaml:"provider,omitempty"`
	Model         string `json:"model,omitempty" yaml:"model,omitempty"`
	APIKey        string `json:"api_key,omitempty" yaml:"api_key,omitempty"`
	BaseURL       string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	RatePerMinute int    `json:"rate_per_minute,omitempty" yaml:"rate_per_minute,omitempty"`
}

// AdGateConfig 广告计数器的存储和链接。
type AdGateConfig struct {
	Store string `json:"store,omitempty" yaml:"store,omitempty"`
	Dir   string `json:"dir,omitempty" yaml:"dir,omitempty"`
	LinkA string `json:"link_a,omitempty" yaml:"link_a,omitempty"`
	LinkB string `json:"link_b,omitempty" yaml:"link_b,omitempty"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		LLM:        &LLMConfig{Provider: "openai", Model: DefaultModel},
		ServerAddr: DefaultServerAddr,
		AdGate:     AdGateConfig{Store: StoreFile, Dir: DefaultStoreDir},
	}
}

// LoadConfig reads a JSON or YAML config from disk (by extension), loads .env
// if present and applies environment overrides. A missing file yields defaults.
func LoadConfig(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Config{}, err
		default:
			if err := decode(path, data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	default:
		return json.Unmarshal(data, cfg)
	}
}

func applyEnv(cfg *Config) error {
	if cfg.LLM == nil {
		cfg.LLM = &LLMConfig{}
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("LLM_RATE_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LLM_RATE_PER_MINUTE: %w", err)
		}
		cfg.LLM.RatePerMinute = n
	}
	if v := os.Getenv("SERVER_ADDR"); v != "" {
		cfg.ServerAddr = v
	}
	if v := os.Getenv("AD_STORE"); v != "" {
		cfg.AdGate.Store = v
	}
	if v := os.Getenv("AD_STORE_DIR"); v != "" {
		cfg.AdGate.Dir = v
	}
	return nil
}

// Validate 检查取值是否可用，不检查 api key（mock provider 不需要）。
func (c Config) Validate() error {
	switch c.AdGate.Store {
	case "", StoreFile, StoreMemory:
	default:
		return fmt.Errorf("ad_gate.store %q not supported (want %s or %s)", c.AdGate.Store, StoreFile, StoreMemory)
	}
	// 未指定 store 时按 file 处理。
	if c.AdGate.Store != StoreMemory && c.AdGate.Dir == "" {
		return errors.New("ad_gate.dir is required for the file store")
	}
	if c.LLM != nil && c.LLM.RatePerMinute < 0 {
		return errors.New("llm.rate_per_minute must not be negative")
	}
	return nil
}
