package providers

import (
	"journald/internal/structures"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogTypeByRequestType_POST(t *testing.T) {
	assert.Equal(t, TypePost, GetLogTypeByRequestType("POST"))
}

func TestGetLogTypeByRequestType_GET(t *testing.T) {
	assert.Equal(t, TypeGet, GetLogTypeByRequestType("GET"))
}

func TestGetLogTypeByRequestType_Other(t *testing.T) {
	assert.Equal(t, TypeGet, GetLogTypeByRequestType("PUT"))
	assert.Equal(t, TypeGet, GetLogTypeByRequestType("DELETE"))
}

func TestTypeEnum_String(t *testing.T) {
	assert.Equal(t, "scheduler", TypeScheduler.String())
	assert.Equal(t, "mail", TypeMail.String())
	assert.Equal(t, "app", TypeEnum(99).String())
}

func TestNewLogProvider_CreatesLogFiles(t *testing.T) {
	dir := t.TempDir()
	conf := &structures.Config{
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   dir,
		},
	}

	logger, err := NewLogProvider(conf)
	require.NoError(t, err)
	defer logger.Close()

	logger.Infof(TypeApp, "test message")
	logger.Debugf(TypeGet, "get message")
	logger.Warnf(TypeScheduler, "digest %s", "skipped")

	for _, name := range []string{"app", "get", "post", "scheduler", "mail"} {
		_, err := os.Stat(filepath.Join(dir, name+".log"))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(dir, "scheduler.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "digest skipped")
}

func TestNewLogProvider_InvalidDir(t *testing.T) {
	conf := &structures.Config{
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/nonexistent/directory/path",
		},
	}

	_, err := NewLogProvider(conf)
	assert.Error(t, err)
}

func TestNewLogProvider_InvalidLevel(t *testing.T) {
	conf := &structures.Config{
		Logger: structures.LoggerConfig{Level: "loud", Mode: 0644},
	}

	_, err := NewLogProvider(conf)
	assert.Error(t, err)
}
