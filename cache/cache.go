package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fetchbites/recipecard/recipe"
)

// Entry represents one cached render: the structured recipe that produced it
// and the artifact it maps to. The store file is a JSON object keyed by
// fingerprint so entries stay addressable without scanning.
type Entry struct {
	Fingerprint   string          `json:"fingerprint"`
	Recipe        recipe.Document `json:"recipe"`
	Caption       string          `json:"caption,omitempty"`
	ArtifactPath  string          `json:"pdf_path"`
	LayoutVersion string          `json:"layout_version"`
	CachedAt      time.Time       `json:"cached_at"`
}

// Manager provides thread-safe access to the artifact cache. If path is
// empty the cache is non-functional (all operations become no-ops) and every
// lookup misses.
type Manager struct {
	path          string
	layoutVersion string
	logger        *slog.Logger
	mu            sync.RWMutex
	entries       map[string]Entry // keyed by fingerprint
}

// NewManager creates a cache manager bound to one layout version. An entry
// recorded under a different layout version never satisfies a lookup, so
// bumping the version invalidates the whole store without touching the file.
// A corrupt or unreadable store file is logged and treated as empty.
func NewManager(path, layoutVersion string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "cache")

	m := &Manager{
		path:          path,
		layoutVersion: layoutVersion,
		logger:        logger,
		entries:       make(map[string]Entry),
	}

	if path == "" {
		return m
	}
	if err := m.load(); err != nil {
		logger.Warn("failed to load artifact cache, starting empty",
			"path", path, "error", err)
		m.entries = make(map[string]Entry)
	}
	return m
}

// Get returns a usable cached entry for the fingerprint: the layout version
// must match and the artifact must still exist on disk. An entry whose file
// was deleted out from under the cache is reported as a miss, not an error.
func (m *Manager) Get(fingerprint string) (Entry, bool) {
	entry, ok := m.lookup(fingerprint)
	if !ok {
		return Entry{}, false
	}
	if _, err := os.Stat(entry.ArtifactPath); err != nil {
		m.logger.Debug("cached artifact missing on disk, treating as miss",
			"fingerprint", fingerprint, "path", entry.ArtifactPath)
		return Entry{}, false
	}
	return entry, true
}

// Exists reports whether a version-matching entry is recorded, without
// verifying the artifact file.
func (m *Manager) Exists(fingerprint string) bool {
	_, ok := m.lookup(fingerprint)
	return ok
}

func (m *Manager) lookup(fingerprint string) (Entry, bool) {
	fingerprint = strings.TrimSpace(fingerprint)
	if fingerprint == "" || m.path == "" {
		return Entry{}, false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.entries[fingerprint]
	if !ok || entry.LayoutVersion != m.layoutVersion {
		return Entry{}, false
	}
	return entry, true
}

// Set records or overwrites the entry for its fingerprint and persists the
// store synchronously; when Set returns, the mapping is durable. Entries are
// whole values, never merged field-by-field.
func (m *Manager) Set(entry Entry) error {
	entry.Fingerprint = strings.TrimSpace(entry.Fingerprint)
	if entry.Fingerprint == "" {
		return errors.New("fingerprint cannot be empty")
	}
	if m.path == "" {
		return nil // no-op when path not configured
	}
	if entry.LayoutVersion == "" {
		entry.LayoutVersion = m.layoutVersion
	}
	if entry.CachedAt.IsZero() {
		entry.CachedAt = time.Now().UTC()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[entry.Fingerprint] = entry

	if err := m.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	m.logger.Debug("cached artifact",
		"fingerprint", entry.Fingerprint,
		"path", entry.ArtifactPath,
		"layout_version", entry.LayoutVersion)
	return nil
}

// Remove deletes an entry by fingerprint and persists the change.
func (m *Manager) Remove(fingerprint string) error {
	fingerprint = strings.TrimSpace(fingerprint)
	if fingerprint == "" {
		return errors.New("fingerprint cannot be empty")
	}
	if m.path == "" {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.entries[fingerprint]; !exists {
		return fmt.Errorf("fingerprint %q not found in cache", fingerprint)
	}
	delete(m.entries, fingerprint)

	if err := m.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}
	return nil
}

// List returns all entries sorted by CachedAt descending (newest first),
// regardless of layout version.
func (m *Manager) List() []Entry {
	if m.path == "" {
		return nil
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	entries := make([]Entry, 0, len(m.entries))
	for _, entry := range m.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CachedAt.After(entries[j].CachedAt)
	})
	return entries
}

// Count returns the number of recorded entries.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// load reads the store file into memory.
func (m *Manager) load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // fresh start
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var entries map[string]Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	m.entries = make(map[string]Entry, len(entries))
	for fp, entry := range entries {
		if strings.TrimSpace(fp) == "" {
			continue
		}
		entry.Fingerprint = fp
		m.entries[fp] = entry
	}

	m.logger.Debug("loaded artifact cache",
		"entry_count", len(m.entries), "path", m.path)
	return nil
}

// save writes the store atomically: marshal to a temp file in the same
// directory, then rename over the target. Readers never observe a torn file.
func (m *Manager) save() error {
	dir := filepath.Dir(m.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	data, err := json.MarshalIndent(m.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".cache-*.json")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp cache file: %w", err)
	}
	if err := os.Rename(tmpName, m.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace cache file: %w", err)
	}
	return nil
}
