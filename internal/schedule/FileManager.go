package schedule

import (
	"fmt"
	"journald/internal/models"
	"journald/internal/providers"
	"journald/internal/schedule/interfaces"
	"journald/internal/services"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// FileManager persists the local user store as zstd-compressed JSON.
type FileManager struct {
	users      *services.LocalUserStore
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewFileManager(compressor interfaces.CompressorInterface, users *services.LocalUserStore, logger providers.Logger) *FileManager {
	return &FileManager{
		compressor: compressor,
		users:      users,
		logger:     logger,
	}
}

func (f *FileManager) SaveToFile(fileName string) error {
	snapshot := f.users.Snapshot()

	jsonData, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}
	data, err := f.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(fileName); dir != "" {
		if err = os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	tmpFile := fileName + ".tmp"
	file, err := os.OpenFile(tmpFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}
	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}

func (f *FileManager) Close() {
	f.compressor.Close()
}

// LoadFromFile restores the local user store. A missing file is an empty store.
func (f *FileManager) LoadFromFile(fileName string) error {
	data, err := os.ReadFile(fileName)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	raw, err := f.compressor.Decompress(data)
	if err != nil {
		return fmt.Errorf("decompressing %s: %w", fileName, err)
	}

	var snapshot models.UserSnapshot
	if err = json.Unmarshal(raw, &snapshot); err == nil && snapshot.Version > 0 {
		if snapshot.Version > models.UserSnapshotVersion {
			return fmt.Errorf("user snapshot version %d is newer than supported %d", snapshot.Version, models.UserSnapshotVersion)
		}
		f.users.Load(snapshot)
		return nil
	}

	// Files written before versioning hold a bare array of users.
	var users []models.RegisteredUser
	if err = json.Unmarshal(raw, &users); err != nil {
		return fmt.Errorf("decoding %s: %w", fileName, err)
	}
	f.logger.Warnf(providers.TypeScheduler, "Migrated unversioned user file %s (%d users)", fileName, len(users))
	f.users.Load(models.UserSnapshot{Version: models.UserSnapshotVersion, Users: users})
	return nil
}
