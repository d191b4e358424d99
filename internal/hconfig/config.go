// Package hconfig parses the demo CLI's configuration: command-line flags
// layered over an optional YAML config file.
package hconfig

import (
	"errors"
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the demo client/server's runtime settings.
type Config struct {
	Mode      string `yaml:"mode"`
	Addr      string `yaml:"addr"`
	LogLevel  string `yaml:"log_level"`
	ChunkSize int    `yaml:"chunk_size"`
	Message   string `yaml:"message"`
}

const defaultChunkSize = 1 << 20 // matches chunk.ChunkSize

// Parse builds a Config from command-line args, optionally layering over
// a YAML file named by -config (flags always win over file values that
// were explicitly set on the command line).
func Parse(args []string) (*Config, error) {
	fs := flag.NewFlagSet("hyperion-echo", flag.ContinueOnError)
	fs.SetOutput(os.Stdout)

	cfg := &Config{}
	var configPath string

	fs.StringVar(&configPath, "config", "", "optional YAML config file")
	fs.StringVar(&cfg.Mode, "mode", "client", "operating mode: server|client")
	fs.StringVar(&cfg.Addr, "addr", "127.0.0.1:9135", "TCP address to listen on or dial")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "log level: debug|info|warn|error")
	fs.IntVar(&cfg.ChunkSize, "chunk-size", defaultChunkSize, "advisory chunk size hint; not applied, chunks are always 1 MiB")
	fs.StringVar(&cfg.Message, "message", "Hello HyperionProtocol!", "message the client sends")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if configPath != "" {
		if err := mergeFile(cfg, configPath, fs); err != nil {
			return nil, err
		}
	}

	switch cfg.Mode {
	case "server", "client":
	default:
		return nil, fmt.Errorf("invalid -mode %q: must be server or client", cfg.Mode)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid -log-level %q", cfg.LogLevel)
	}
	if cfg.Addr == "" {
		return nil, errors.New("-addr must not be empty")
	}
	return cfg, nil
}

// mergeFile fills in cfg fields from the YAML file at path, but only for
// flags the user did not explicitly set on the command line — explicit
// flags always win over file values.
func mergeFile(cfg *Config, path string, fs *flag.FlagSet) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("hconfig: read config file: %w", err)
	}
	var fileCfg Config
	if err := yaml.Unmarshal(b, &fileCfg); err != nil {
		return fmt.Errorf("hconfig: parse config file: %w", err)
	}

	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if !set["mode"] && fileCfg.Mode != "" {
		cfg.Mode = fileCfg.Mode
	}
	if !set["addr"] && fileCfg.Addr != "" {
		cfg.Addr = fileCfg.Addr
	}
	if !set["log-level"] && fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	if !set["chunk-size"] && fileCfg.ChunkSize != 0 {
		cfg.ChunkSize = fileCfg.ChunkSize
	}
	if !set["message"] && fileCfg.Message != "" {
		cfg.Message = fileCfg.Message
	}
	return nil
}
