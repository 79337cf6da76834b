package profile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/allbin/go-baudscan"
)

// Record is one saved profile.
type Record struct {
	Name        string            `toml:"name"`
	Device      string            `toml:"device"`
	Rate        baudscan.BaudRate `toml:"rate"`
	RunID       string            `toml:"run_id,omitempty"`
	SavedAt     time.Time         `toml:"saved_at"`
	MinicomPath string            `toml:"minicom_path,omitempty"`
}

type document struct {
	Profiles []Record `toml:"profile"`
}

// Store is a profiles.toml file. It is not safe for concurrent writers.
type Store struct {
	Path string
}

// NewStore returns a store backed by path.
func NewStore(path string) *Store {
	return &Store{Path: path}
}

// DefaultStorePath is $XDG_CONFIG_HOME/baudscan/profiles.toml.
func DefaultStorePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "baudscan", "profiles.toml"), nil
}

// Load returns all records sorted by name. A missing file is an empty store.
func (s *Store) Load() ([]Record, error) {
	data, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}

	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", s.Path, err)
	}
	sortRecords(doc.Profiles)
	return doc.Profiles, nil
}

// Get returns the record called name.
func (s *Store) Get(name string) (Record, error) {
	records, err := s.Load()
	if err != nil {
		return Record{}, err
	}
	for _, r := range records {
		if r.Name == name {
			return r, nil
		}
	}
	return Record{}, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
}

// Save inserts rec or replaces the record with the same name.
func (s *Store) Save(rec Record) error {
	if err := ValidateName(rec.Name); err != nil {
		return err
	}
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now()
	}

	records, err := s.Load()
	if err != nil {
		return err
	}
	i := slices.IndexFunc(records, func(r Record) bool { return r.Name == rec.Name })
	if i >= 0 {
		records[i] = rec
	} else {
		records = append(records, rec)
	}
	sortRecords(records)

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(document{Profiles: records}); err != nil {
		return fmt.Errorf("failed to encode profiles: %w", err)
	}
	return writeAtomic(s.Path, buf.Bytes())
}

func sortRecords(records []Record) {
	slices.SortFunc(records, func(a, b Record) int { return strings.Compare(a.Name, b.Name) })
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".profiles-*.toml")
	if err != nil {
		return fmt.Errorf("failed to write profiles: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write profiles: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write profiles: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
