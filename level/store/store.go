// Package store loads and saves level definition files.
//
// Levels live as .json or .yaml files in a single directory. Every load
// runs the structural schema check, so nothing downstream of the store
// ever sees a malformed definition. Loaded levels are cached; the cache
// hands out clones so callers can never alias the stored definition.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/levelforge/levelforge/level"
)

var (
	ErrLevelNotFound = errors.New("level not found")
	ErrInvalidLevel  = errors.New("invalid level")
)

// Info summarizes one stored level for listings.
type Info struct {
	Filename    string  `json:"filename"`
	LevelID     string  `json:"level_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Tiles       int     `json:"tiles"`
	Enemies     int     `json:"enemies"`
	BandMin     float64 `json:"band_min"`
	BandMax     float64 `json:"band_max"`
}

// Manager handles level loading, caching, and saving for one directory.
type Manager struct {
	dir    string
	levels map[string]*level.Definition
	mu     sync.RWMutex
}

// NewManager creates a manager over an existing level directory.
func NewManager(dir string) (*Manager, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("level directory does not exist: %s", dir)
	}
	return &Manager{
		dir:    dir,
		levels: make(map[string]*level.Definition),
	}, nil
}

// Load returns the level with the given id (filename without extension).
// It tries .json first, then .yaml/.yml. The returned definition is a
// clone; mutating it never touches the cache.
func (m *Manager) Load(id string) (*level.Definition, error) {
	m.mu.RLock()
	if def, ok := m.levels[id]; ok {
		m.mu.RUnlock()
		return def.Clone(), nil
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()
	if def, ok := m.levels[id]; ok {
		return def.Clone(), nil
	}

	path, err := m.resolve(id)
	if err != nil {
		return nil, err
	}
	def, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	m.levels[id] = def
	return def.Clone(), nil
}

// LoadFile reads, parses, and validates a single level file. The format is
// chosen by extension: .json, or .yaml/.yml.
func LoadFile(path string) (*level.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrLevelNotFound
		}
		return nil, fmt.Errorf("failed to read level file: %w", err)
	}

	var def level.Definition
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("failed to parse level %s: %w", filepath.Base(path), err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &def); err != nil {
			return nil, fmt.Errorf("failed to parse level %s: %w", filepath.Base(path), err)
		}
	default:
		return nil, fmt.Errorf("unsupported level file extension: %s", filepath.Ext(path))
	}

	if err := level.Validate(&def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}
	return &def, nil
}

// List returns information about every valid level file in the directory.
// Invalid files are skipped so a listing succeeds even with a stray broken
// file present.
func (m *Manager) List() ([]Info, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read level directory: %w", err)
	}

	var infos []Info
	for _, entry := range entries {
		if entry.IsDir() || !hasLevelExt(entry.Name()) {
			continue
		}
		id := trimLevelExt(entry.Name())
		def, err := m.Load(id)
		if err != nil {
			continue
		}
		infos = append(infos, Info{
			Filename:    entry.Name(),
			LevelID:     id,
			Name:        def.Name,
			Description: def.Description,
			Tiles:       len(def.Tiles),
			Enemies:     len(def.Enemies),
			BandMin:     def.Difficulty.Min,
			BandMax:     def.Difficulty.Max,
		})
	}
	return infos, nil
}

// Save validates and writes a level as JSON, then updates the cache.
func (m *Manager) Save(id string, def *level.Definition) error {
	if err := level.Validate(def); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLevel, err)
	}

	data, err := json.MarshalIndent(def, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal level: %w", err)
	}

	path := filepath.Join(m.dir, id+".json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write level file: %w", err)
	}

	m.mu.Lock()
	m.levels[id] = def.Clone()
	m.mu.Unlock()
	return nil
}

// RefreshCache drops every cached definition so the next Load re-reads
// from disk.
func (m *Manager) RefreshCache() {
	m.mu.Lock()
	m.levels = make(map[string]*level.Definition)
	m.mu.Unlock()
}

func (m *Manager) resolve(id string) (string, error) {
	if hasLevelExt(id) {
		return filepath.Join(m.dir, id), nil
	}
	for _, ext := range []string{".json", ".yaml", ".yml"} {
		path := filepath.Join(m.dir, id+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", ErrLevelNotFound
}

func hasLevelExt(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

func trimLevelExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
