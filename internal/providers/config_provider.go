package providers

import (
	"errors"
	"fmt"
	"io/fs"
	"journald/internal/structures"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const AppName = "JournalDaemon"

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("env", "development")
	v.SetDefault("webServer.host", "0.0.0.0")
	v.SetDefault("webServer.port", 8090)
	v.SetDefault("store.timeout", 30*time.Second)
	v.SetDefault("openai.model", "gpt-3.5-turbo")
	v.SetDefault("openai.transcriptionModel", "whisper-1")
	v.SetDefault("openai.maxTokens", 500)
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.fromName", "Journal App")
	v.SetDefault("mail.ratePerSecond", 1.0)
	v.SetDefault("schedule.enabled", true)
	v.SetDefault("schedule.digestSpec", "0 6 * * *")
	v.SetDefault("schedule.userDelay", 2*time.Second)
	v.SetDefault("persistence.filePath", "./data/users.dat")
	v.SetDefault("persistence.saveInterval", time.Minute)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", 0644)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.size", 16)
	v.SetDefault("cache.ttl", 24*time.Hour)
	v.SetDefault("metrics.enabled", true)
}

// NewConfigProvider reads the yaml file named by flags (optional) and overlays
// the environment. Variables from flags.EnvFile never override ones already
// set. A missing OPENAI_API_KEY fails validation.
func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	if flags.EnvFile != "" {
		if err := godotenv.Load(flags.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading env file %s: %w", flags.EnvFile, err)
		}
	}

	var conf structures.Config
	v := viper.New()
	setConfigDefaults(v)

	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	_ = v.BindEnv("env", "NODE_ENV")
	_ = v.BindEnv("webServer.port", "PORT")
	_ = v.BindEnv("openai.apiKey", "OPENAI_API_KEY")
	_ = v.BindEnv("mail.user", "GMAIL_USER")
	_ = v.BindEnv("mail.appPassword", "GMAIL_APP_PASSWORD")
	_ = v.BindEnv("store.url", "JOURNAL_STORE_URL")
	_ = v.BindEnv("logger.level", "JOURNAL_LOG_LEVEL")
	_ = v.BindEnv("schedule.enabled", "JOURNAL_SCHEDULE_ENABLED")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	if err := v.Unmarshal(&conf); err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	if err := cnfValidator.Validate(); err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode
	return &conf, nil
}
