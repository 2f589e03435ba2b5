package structures

import (
	"net/http"
	"time"
)

type Server struct {
	Host      string `yaml:"host" validate:"required"`
	Port      int    `yaml:"port" validate:"required|uint|min:1|max:65535"`
	StaticDir string `yaml:"staticDir"`
}

type Persistence struct {
	FilePath     string        `yaml:"filePath" validate:"required|unixPath"`
	SaveInterval time.Duration `yaml:"saveInterval"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	// Dir is optional; an empty value logs to stdout.
	Dir string `yaml:"dir"`
}

// StoreConfig points at the spreadsheet backend (an Apps Script web app).
type StoreConfig struct {
	URL     string        `yaml:"url" validate:"required|fullUrl"`
	Timeout time.Duration `yaml:"timeout"`
}

type OpenAIConfig struct {
	APIKey             string  `yaml:"apiKey" validate:"required"`
	BaseURL            string  `yaml:"baseURL"`
	Model              string  `yaml:"model" validate:"required"`
	TranscriptionModel string  `yaml:"transcriptionModel" validate:"required"`
	MaxTokens          int     `yaml:"maxTokens" validate:"required|min:1"`
	Temperature        float64 `yaml:"temperature"`
}

type MailConfig struct {
	User          string  `yaml:"user"`
	AppPassword   string  `yaml:"appPassword"`
	Host          string  `yaml:"host"`
	Port          int     `yaml:"port"`
	FromName      string  `yaml:"fromName"`
	RatePerSecond float64 `yaml:"ratePerSecond"`
}

func (m MailConfig) Configured() bool {
	return m.User != "" && m.AppPassword != ""
}

type ScheduleConfig struct {
	Enabled bool `yaml:"enabled"`
	// DigestSpec is a five-field cron expression evaluated in each zone's local time.
	DigestSpec string        `yaml:"digestSpec" validate:"required"`
	UserDelay  time.Duration `yaml:"userDelay"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	Env         string         `yaml:"env" validate:"required|in:development,production,test"`
	WebServer   Server         `yaml:"webServer"`
	Store       StoreConfig    `yaml:"store"`
	OpenAI      OpenAIConfig   `yaml:"openai"`
	Mail        MailConfig     `yaml:"mail"`
	Schedule    ScheduleConfig `yaml:"schedule"`
	Persistence Persistence    `yaml:"persistence"`
	Logger      LoggerConfig   `yaml:"logger"`
	Cache       CacheConfig    `yaml:"cache"`
	Metrics     MetricsConfig  `yaml:"metrics"`
}

type CliFlags struct {
	ConfigPath string
	EnvFile    string
	DebugMode  bool
}

type Route struct {
	Url     string
	Method  string
	Handler http.Handler
}
