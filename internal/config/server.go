package config

import (
	"errors"
	"fmt"
	"time"

	"ringkas/internal/usecase/ai"
	"ringkas/internal/usecase/summarize"
	pkgconfig "ringkas/pkg/config"
)

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Addr              string
	MaxBodyBytes      int64
	ReadHeaderTimeout time.Duration
	// WriteTimeout must outlast a full generation, so it defaults above AI_TIMEOUT.
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	Version         string

	CSPEnabled    bool
	CSPReportOnly bool
}

// PipelineConfig selects how the processing pipeline obtains and hands text to the model.
type PipelineConfig struct {
	Mode              summarize.Mode
	CopyEdit          bool
	VideoHosts        []string
	LanguageDetection bool
	// ToolChoice pins or disables tool use on process calls.
	ToolChoice ai.ToolChoice
}

// Config aggregates every configuration section the binaries need.
type Config struct {
	AI       *AIConfig
	Server   *ServerConfig
	Pipeline *PipelineConfig
}

// Load reads the optional YAML file named by RINGKAS_CONFIG and then applies
// environment overrides on top of it.
func Load() (*Config, error) {
	file, err := LoadFileFromEnv()
	if err != nil {
		return nil, err
	}

	aiCfg, err := loadAIConfig(file)
	if err != nil {
		return nil, err
	}
	serverCfg, err := loadServerConfig(file)
	if err != nil {
		return nil, err
	}
	pipelineCfg, err := loadPipelineConfig(file)
	if err != nil {
		return nil, err
	}

	return &Config{AI: aiCfg, Server: serverCfg, Pipeline: pipelineCfg}, nil
}

// LoadServerConfig loads server configuration from environment variables.
//
// Environment variables:
//   - SERVER_ADDR (default: ":8080")
//   - SERVER_MAX_BODY_BYTES (default: 20MB, PDFs are uploaded through the same server)
//   - SERVER_WRITE_TIMEOUT (default: 150s), SERVER_SHUTDOWN_TIMEOUT (default: 15s)
//   - CSP_ENABLED (default: true), CSP_REPORT_ONLY (default: false)
//   - VERSION (default: "dev")
func LoadServerConfig() (*ServerConfig, error) {
	return loadServerConfig(nil)
}

func loadServerConfig(file *FileConfig) (*ServerConfig, error) {
	defaults := ServerConfig{
		Addr:         ":8080",
		MaxBodyBytes: 20 << 20,
	}
	if file != nil {
		file.Server.applyTo(&defaults)
	}

	cfg := &ServerConfig{
		Addr:              pkgconfig.GetEnvString("SERVER_ADDR", defaults.Addr),
		MaxBodyBytes:      pkgconfig.GetEnvInt64("SERVER_MAX_BODY_BYTES", defaults.MaxBodyBytes),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      pkgconfig.GetEnvDuration("SERVER_WRITE_TIMEOUT", 150*time.Second),
		ShutdownTimeout:   pkgconfig.GetEnvDuration("SERVER_SHUTDOWN_TIMEOUT", 15*time.Second),
		Version:           pkgconfig.GetEnvString("VERSION", "dev"),
		CSPEnabled:        pkgconfig.GetEnvBool("CSP_ENABLED", true),
		CSPReportOnly:     pkgconfig.GetEnvBool("CSP_REPORT_ONLY", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *ServerConfig) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("SERVER_ADDR must not be empty"))
	}
	if err := pkgconfig.ValidateIntRange(c.MaxBodyBytes, 1<<10, 100<<20); err != nil {
		errs = append(errs, fmt.Errorf("SERVER_MAX_BODY_BYTES: %w", err))
	}
	if err := pkgconfig.ValidatePositiveDuration(c.WriteTimeout); err != nil {
		errs = append(errs, fmt.Errorf("SERVER_WRITE_TIMEOUT: %w", err))
	}
	if err := pkgconfig.ValidatePositiveDuration(c.ShutdownTimeout); err != nil {
		errs = append(errs, fmt.Errorf("SERVER_SHUTDOWN_TIMEOUT: %w", err))
	}
	return errors.Join(errs...)
}

// LoadPipelineConfig loads pipeline configuration from environment variables.
//
// Environment variables:
//   - PIPELINE_MODE: prefetch or agentic (default: prefetch)
//   - PIPELINE_COPYEDIT: offer the copyedit tool (default: false)
//   - VIDEO_HOSTS: comma separated hostnames routed to the transcript fetcher
//   - LANGUAGE_DETECTION_ENABLED (default: true)
//   - PIPELINE_TOOL_CHOICE: auto, none or tool:<name> (default: auto)
func LoadPipelineConfig() (*PipelineConfig, error) {
	return loadPipelineConfig(nil)
}

func loadPipelineConfig(file *FileConfig) (*PipelineConfig, error) {
	defaults := PipelineConfig{
		Mode:              summarize.ModePrefetch,
		VideoHosts:        summarize.DefaultVideoHosts(),
		LanguageDetection: true,
	}
	toolChoice := ""
	if file != nil {
		file.Pipeline.applyTo(&defaults)
		toolChoice = file.Pipeline.ToolChoice
	}

	choice, err := ai.ParseToolChoice(pkgconfig.GetEnvString("PIPELINE_TOOL_CHOICE", toolChoice))
	if err != nil {
		return nil, fmt.Errorf("invalid pipeline configuration: %w", err)
	}

	cfg := &PipelineConfig{
		Mode: summarize.Mode(pkgconfig.GetEnvChoice("PIPELINE_MODE", string(defaults.Mode),
			string(summarize.ModePrefetch), string(summarize.ModeAgentic))),
		CopyEdit:          pkgconfig.GetEnvBool("PIPELINE_COPYEDIT", defaults.CopyEdit),
		VideoHosts:        pkgconfig.GetEnvStringList("VIDEO_HOSTS", defaults.VideoHosts),
		LanguageDetection: pkgconfig.GetEnvBool("LANGUAGE_DETECTION_ENABLED", defaults.LanguageDetection),
		ToolChoice:        choice,
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pipeline configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable.
func (c *PipelineConfig) Validate() error {
	if !c.Mode.Valid() {
		return fmt.Errorf("unknown pipeline mode %q", c.Mode)
	}
	if len(c.VideoHosts) == 0 {
		return errors.New("at least one video host is required")
	}
	return nil
}

// Capabilities converts the pipeline settings into the service's capability set.
func (c *PipelineConfig) Capabilities() summarize.Capabilities {
	return summarize.Capabilities{
		Mode:       c.Mode,
		CopyEdit:   c.CopyEdit,
		ToolChoice: c.ToolChoice,
	}
}
