package statestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/FACorreiaa/go-trip-planner/internal/types"
)

// SchemaVersion is bumped whenever the persisted itinerary layout changes.
// Snapshots with an unknown version are discarded rather than migrated.
const SchemaVersion = 1

const (
	itineraryFile = "itinerary.json"
	deviceIDFile  = "device_id"
)

var _ Store = (*FileStore)(nil)

// Store persists the in-progress trip plan and the per-install device
// identifier between runs.
type Store interface {
	SaveItinerary(state types.ItineraryState) error
	LoadItinerary() (types.ItineraryState, bool, error)
	ClearItinerary() error
	DeviceID() (string, error)
}

type snapshot struct {
	Version int                  `json:"version"`
	State   types.ItineraryState `json:"state"`
}

// FileStore keeps everything under a single state directory. Writes go
// through a temp file and rename, so a crash mid-write leaves the previous
// snapshot intact. Concurrent writers are last-write-wins.
type FileStore struct {
	dir    string
	logger *slog.Logger
}

func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve user config dir: %w", err)
		}
		dir = filepath.Join(base, "trip-planner")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create state dir %s: %w", dir, err)
	}
	return &FileStore{dir: dir, logger: logger}, nil
}

func (s *FileStore) SaveItinerary(state types.ItineraryState) error {
	payload, err := json.MarshalIndent(snapshot{Version: SchemaVersion, State: state}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal itinerary snapshot: %w", err)
	}
	return s.writeAtomic(itineraryFile, payload)
}

// LoadItinerary returns the persisted state and whether a usable snapshot
// existed. A missing file or a snapshot from a different schema version is
// not an error; it just reports no state.
func (s *FileStore) LoadItinerary() (types.ItineraryState, bool, error) {
	raw, err := os.ReadFile(filepath.Join(s.dir, itineraryFile))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return types.ItineraryState{}, false, nil
		}
		return types.ItineraryState{}, false, fmt.Errorf("failed to read itinerary snapshot: %w", err)
	}

	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.logger.Warn("Discarding unreadable itinerary snapshot", slog.Any("error", err))
		return types.ItineraryState{}, false, nil
	}
	if snap.Version != SchemaVersion {
		s.logger.Warn("Discarding itinerary snapshot with unknown schema version",
			slog.Int("found", snap.Version), slog.Int("want", SchemaVersion))
		return types.ItineraryState{}, false, nil
	}
	return snap.State, true, nil
}

func (s *FileStore) ClearItinerary() error {
	err := os.Remove(filepath.Join(s.dir, itineraryFile))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove itinerary snapshot: %w", err)
	}
	return nil
}

// DeviceID returns the persisted device identifier, generating and storing
// one on first use so every run of the engine reports the same identity to
// the backend.
func (s *FileStore) DeviceID() (string, error) {
	path := filepath.Join(s.dir, deviceIDFile)
	raw, err := os.ReadFile(path)
	if err == nil {
		id := strings.TrimSpace(string(raw))
		if id != "" {
			return id, nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to read device id: %w", err)
	}

	id := uuid.New().String()
	if err := s.writeAtomic(deviceIDFile, []byte(id)); err != nil {
		return "", err
	}
	s.logger.Info("Generated new device identifier", slog.String("device_id", id))
	return id, nil
}

func (s *FileStore) writeAtomic(name string, payload []byte) error {
	path := filepath.Join(s.dir, name)
	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
