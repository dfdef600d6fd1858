package config

import (
	"strings"
	"time"
)

type Config struct {
	Api       ApiConfig       `yaml:"api"`
	Generator GeneratorConfig `yaml:"generator"`
	Upload    UploadConfig    `yaml:"upload"`
	Sessions  SessionsConfig  `yaml:"sessions"`
	Menu      MenuConfig      `yaml:"menu"`
	Log       LogConfig       `yaml:"log"`
}

type ApiConfig struct {
	Port           string `yaml:"port"`
	AllowedOrigins string `yaml:"allowedOrigins"`
	// BodyLimit is how much of a request body fiber buffers in memory.
	// Larger multipart uploads are streamed, so oversized photos still reach
	// validation instead of a 413.
	BodyLimit int `yaml:"bodyLimit"`
}

type GeneratorConfig struct {
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

type UploadConfig struct {
	MaxBytes         int64         `yaml:"maxBytes"`
	ProgressInterval time.Duration `yaml:"progressInterval"`
	RevealDelay      time.Duration `yaml:"revealDelay"`
}

type SessionsConfig struct {
	IdleTTL       time.Duration `yaml:"idleTTL"`
	SweepInterval time.Duration `yaml:"sweepInterval"`
}

type MenuConfig struct {
	ContractAddress string `yaml:"contractAddress"`
	CommunityURL    string `yaml:"communityURL"`
	Chain           string `yaml:"chain"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

const (
	DefaultPort             = "8080"
	DefaultEndpoint         = "http://localhost:3001/api/generate-mii"
	DefaultGeneratorTimeout = 2 * time.Minute
	DefaultMaxBytes         = 5 * 1024 * 1024
	DefaultProgressInterval = 400 * time.Millisecond
	DefaultRevealDelay      = 500 * time.Millisecond
	DefaultIdleTTL          = 30 * time.Minute
	DefaultSweepInterval    = time.Minute
)

// WithDefaults fills every zero field with its default.
func (c Config) WithDefaults() Config {
	if strings.TrimSpace(c.Api.Port) == "" {
		c.Api.Port = DefaultPort
	}
	if c.Api.AllowedOrigins == "" {
		c.Api.AllowedOrigins = "*"
	}
	if strings.TrimSpace(c.Generator.Endpoint) == "" {
		c.Generator.Endpoint = DefaultEndpoint
	}
	if c.Generator.Timeout <= 0 {
		c.Generator.Timeout = DefaultGeneratorTimeout
	}
	if c.Upload.MaxBytes <= 0 {
		c.Upload.MaxBytes = DefaultMaxBytes
	}
	if c.Upload.ProgressInterval <= 0 {
		c.Upload.ProgressInterval = DefaultProgressInterval
	}
	if c.Upload.RevealDelay < 0 {
		c.Upload.RevealDelay = 0
	}
	if c.Api.BodyLimit <= 0 || int64(c.Api.BodyLimit) <= c.Upload.MaxBytes {
		c.Api.BodyLimit = int(c.Upload.MaxBytes * 4)
	}
	if c.Sessions.IdleTTL <= 0 {
		c.Sessions.IdleTTL = DefaultIdleTTL
	}
	if c.Sessions.SweepInterval <= 0 {
		c.Sessions.SweepInterval = DefaultSweepInterval
	}
	if c.Menu.Chain == "" {
		c.Menu.Chain = "bsc"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	return c
}
