package schedule

import (
	"errors"
	"journald/internal/models"
	"journald/internal/services"
	"journald/internal/testutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededUsers(t *testing.T) *services.LocalUserStore {
	t.Helper()
	users := services.NewLocalUserStore()
	require.NoError(t, users.Add(models.RegisteredUser{
		Username: "carol", Passcode: "pw", Email: "c@example.com", Timezone: "Europe/Paris",
		RegistrationDate: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}))
	require.NoError(t, users.Add(models.RegisteredUser{Username: "dave", Passcode: "pw2", Timezone: "Asia/Tokyo"}))
	return users
}

func TestFileManager_SaveAndLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "users.dat")
	comp, err := NewZstdCompressor()
	require.NoError(t, err)

	src := seededUsers(t)
	require.NoError(t, NewFileManager(comp, src, &testutil.MockLogger{}).SaveToFile(path))
	assert.False(t, src.Dirty())

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))

	dst := services.NewLocalUserStore()
	require.NoError(t, NewFileManager(comp, dst, &testutil.MockLogger{}).LoadFromFile(path))
	assert.Equal(t, src.All(), dst.All())
}

func TestFileManager_LoadMissingFile(t *testing.T) {
	users := services.NewLocalUserStore()
	fm := NewFileManager(&testutil.MockCompressor{}, users, &testutil.MockLogger{})

	assert.NoError(t, fm.LoadFromFile(filepath.Join(t.TempDir(), "absent.dat")))
	assert.Equal(t, 0, users.Len())
}

func TestFileManager_LoadUnversionedArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.dat")
	raw, _ := json.Marshal([]models.RegisteredUser{{Username: "erin", Timezone: "UTC"}})
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	users := services.NewLocalUserStore()
	logger := &testutil.MockLogger{}
	require.NoError(t, NewFileManager(&testutil.MockCompressor{}, users, logger).LoadFromFile(path))

	_, ok := users.Get("erin")
	assert.True(t, ok)
	assert.Equal(t, 1, logger.Count("warn"))
}

func TestFileManager_LoadNewerVersionFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.dat")
	raw, _ := json.Marshal(models.UserSnapshot{Version: models.UserSnapshotVersion + 1})
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	err := NewFileManager(&testutil.MockCompressor{}, services.NewLocalUserStore(), &testutil.MockLogger{}).LoadFromFile(path)
	assert.Error(t, err)
}

func TestFileManager_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.dat")
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0o600))

	err := NewFileManager(&testutil.MockCompressor{}, services.NewLocalUserStore(), &testutil.MockLogger{}).LoadFromFile(path)
	assert.Error(t, err)
}

func TestFileManager_CompressErrorLeavesNoFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.dat")
	comp := &testutil.MockCompressor{CompressFn: func([]byte) ([]byte, error) { return nil, errors.New("no space") }}

	err := NewFileManager(comp, seededUsers(t), &testutil.MockLogger{}).SaveToFile(path)
	assert.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestFileManager_DecompressError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.dat")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	comp := &testutil.MockCompressor{DecompressFn: func([]byte) ([]byte, error) { return nil, errors.New("bad frame") }}

	err := NewFileManager(comp, services.NewLocalUserStore(), &testutil.MockLogger{}).LoadFromFile(path)
	assert.Error(t, err)
}
