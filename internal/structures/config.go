package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1|max:65535"`
}

type Persistence struct {
	FilePath string `yaml:"filePath" validate:"required|unixPath"`
	Compress bool   `yaml:"compress"`
}

type LoggerConfig struct {
	Level   string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode    uint32 `yaml:"mode" validate:"required|uint"`
	Dir     string `yaml:"dir" validate:"required|unixPath"`
	Console bool   `yaml:"console"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type StaticConfig struct {
	Dir   string `yaml:"dir"`
	Index string `yaml:"index"`
}

type ApiConfig struct {
	LenientBodies bool  `yaml:"lenientBodies"`
	MaxBodyBytes  int64 `yaml:"maxBodyBytes" validate:"required|min:1"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server        `yaml:"webServer"`
	Persistence Persistence   `yaml:"persistence"`
	Logger      LoggerConfig  `yaml:"logger"`
	Cache       CacheConfig   `yaml:"cache"`
	Metrics     MetricsConfig `yaml:"metrics"`
	Static      StaticConfig  `yaml:"static"`
	Api         ApiConfig     `yaml:"api"`
}
