package providers

import (
	"fmt"
	"io"
	"journald/internal/structures"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
)

type TypeEnum int

const (
	TypeApp TypeEnum = iota
	TypeGet
	TypePost
	TypeScheduler
	TypeMail
)

var typeNames = map[TypeEnum]string{
	TypeApp:       "app",
	TypeGet:       "get",
	TypePost:      "post",
	TypeScheduler: "scheduler",
	TypeMail:      "mail",
}

func (t TypeEnum) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "app"
}

type Logger interface {
	Errorf(t TypeEnum, format string, args ...interface{})
	Warnf(t TypeEnum, format string, args ...interface{})
	Debugf(t TypeEnum, format string, args ...interface{})
	Infof(t TypeEnum, format string, args ...interface{})
	Fatalf(t TypeEnum, format string, args ...interface{})
	Close()
}

func GetLogTypeByRequestType(method string) TypeEnum {
	if method == "POST" {
		return TypePost
	}
	return TypeGet
}

type LogProvider struct {
	loggers map[TypeEnum]zerolog.Logger
	files   []*os.File
	mu      sync.Mutex
}

// NewLogProvider opens one log file per channel under conf.Logger.Dir.
// Without a directory every channel writes JSON to stdout.
func NewLogProvider(conf *structures.Config) (Logger, error) {
	level, err := zerolog.ParseLevel(conf.Logger.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.Logger.Level, err)
	}

	lp := &LogProvider{loggers: make(map[TypeEnum]zerolog.Logger, len(typeNames))}
	for t, name := range typeNames {
		var out io.Writer = os.Stdout
		if conf.Logger.Dir != "" {
			file, err := os.OpenFile(filepath.Join(conf.Logger.Dir, name+".log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, os.FileMode(conf.Logger.Mode))
			if err != nil {
				lp.Close()
				return nil, fmt.Errorf("open %s log: %w", name, err)
			}
			lp.files = append(lp.files, file)
			out = file
		}
		if conf.Debug {
			out = zerolog.MultiLevelWriter(out, zerolog.ConsoleWriter{Out: os.Stderr})
		}
		lp.loggers[t] = zerolog.New(out).Level(level).With().Timestamp().Str("channel", name).Logger()
	}
	return lp, nil
}

func (lp *LogProvider) get(t TypeEnum) *zerolog.Logger {
	l, ok := lp.loggers[t]
	if !ok {
		l = lp.loggers[TypeApp]
	}
	return &l
}

func (lp *LogProvider) Errorf(t TypeEnum, format string, args ...interface{}) {
	lp.get(t).Error().Msgf(format, args...)
}

func (lp *LogProvider) Warnf(t TypeEnum, format string, args ...interface{}) {
	lp.get(t).Warn().Msgf(format, args...)
}

func (lp *LogProvider) Debugf(t TypeEnum, format string, args ...interface{}) {
	lp.get(t).Debug().Msgf(format, args...)
}

func (lp *LogProvider) Infof(t TypeEnum, format string, args ...interface{}) {
	lp.get(t).Info().Msgf(format, args...)
}

func (lp *LogProvider) Fatalf(t TypeEnum, format string, args ...interface{}) {
	lp.get(t).Fatal().Msgf(format, args...)
}

func (lp *LogProvider) Close() {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	for _, f := range lp.files {
		_ = f.Close()
	}
	lp.files = nil
}
