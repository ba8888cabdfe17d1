package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"ringkas/internal/usecase/summarize"
)

// FileConfig is the optional YAML configuration file. Unset fields keep the
// built-in defaults; environment variables still win over anything set here.
type FileConfig struct {
	AI       fileAI       `yaml:"ai"`
	Server   fileServer   `yaml:"server"`
	Pipeline filePipeline `yaml:"pipeline"`
}

type fileAI struct {
	Provider      string        `yaml:"provider"`
	Model         string        `yaml:"model"`
	MaxTokens     int           `yaml:"max_tokens"`
	Timeout       time.Duration `yaml:"timeout"`
	BaseURL       string        `yaml:"base_url"`
	MaxToolRounds int           `yaml:"max_tool_rounds"`
}

type fileServer struct {
	Addr         string `yaml:"addr"`
	MaxBodyBytes int64  `yaml:"max_body_bytes"`
}

type filePipeline struct {
	Mode              string   `yaml:"mode"`
	CopyEdit          *bool    `yaml:"copyedit"`
	VideoHosts        []string `yaml:"video_hosts"`
	LanguageDetection *bool    `yaml:"language_detection"`
	ToolChoice        string   `yaml:"tool_choice"`
}

// LoadFile reads and parses a YAML configuration file.
// The path comes from the operator (RINGKAS_CONFIG or a CLI flag), not from request input.
func LoadFile(path string) (*FileConfig, error) {
	// #nosec G304 -- path is provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadFileFromEnv loads the file named by RINGKAS_CONFIG, or returns nil when unset.
func LoadFileFromEnv() (*FileConfig, error) {
	path := strings.TrimSpace(os.Getenv("RINGKAS_CONFIG"))
	if path == "" {
		return nil, nil
	}
	return LoadFile(path)
}

func (f *FileConfig) validate() error {
	switch strings.ToLower(f.AI.Provider) {
	case "", ProviderClaude, ProviderOpenAI, ProviderNone:
	default:
		return fmt.Errorf("ai.provider: unknown provider %q", f.AI.Provider)
	}
	if f.Pipeline.Mode != "" && !summarize.Mode(strings.ToLower(f.Pipeline.Mode)).Valid() {
		return fmt.Errorf("pipeline.mode: unknown mode %q", f.Pipeline.Mode)
	}
	return nil
}

func (a fileAI) applyTo(cfg *AIConfig) {
	if a.Provider != "" {
		cfg.Provider = strings.ToLower(a.Provider)
	}
	if a.Model != "" {
		cfg.Model = a.Model
	}
	if a.MaxTokens > 0 {
		cfg.MaxTokens = a.MaxTokens
	}
	if a.Timeout > 0 {
		cfg.Timeout = a.Timeout
	}
	if a.BaseURL != "" {
		cfg.BaseURL = a.BaseURL
	}
	if a.MaxToolRounds > 0 {
		cfg.MaxToolRounds = a.MaxToolRounds
	}
}

func (s fileServer) applyTo(cfg *ServerConfig) {
	if s.Addr != "" {
		cfg.Addr = s.Addr
	}
	if s.MaxBodyBytes > 0 {
		cfg.MaxBodyBytes = s.MaxBodyBytes
	}
}

func (p filePipeline) applyTo(cfg *PipelineConfig) {
	if p.Mode != "" {
		cfg.Mode = summarize.Mode(strings.ToLower(p.Mode))
	}
	if p.CopyEdit != nil {
		cfg.CopyEdit = *p.CopyEdit
	}
	if len(p.VideoHosts) > 0 {
		cfg.VideoHosts = p.VideoHosts
	}
	if p.LanguageDetection != nil {
		cfg.LanguageDetection = *p.LanguageDetection
	}
}
