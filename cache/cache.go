// Package cache provides the on-disk cache shared by the analyzer (file
// contents) and the registry client (latest-version lookups). Entries are
// gob-encoded, zstd-compressed files keyed by an xxh3 hash of the logical
// key. File-backed entries are invalidated when the source file's size or
// modification time changes; registry entries expire on a TTL.
package cache

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/zeebo/xxh3"
)

// Entry wraps cached data with the metadata used for invalidation.
type Entry struct {
	Data      []byte
	Timestamp time.Time
	FileSize  int64
	ModTime   time.Time
}

// Manager handles cache storage with invalidation.
type Manager struct {
	cacheDir string
	mutex    sync.RWMutex

	statsMutex sync.Mutex
	hits       int64
	misses     int64
}

// registryTTL bounds how long a latest-version lookup stays valid.
const registryTTL = time.Hour

// NewManager creates a cache manager rooted at cacheDir. An empty cacheDir
// defaults to ".cache" under the current working directory.
func NewManager(cacheDir string) (*Manager, error) {
	if cacheDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current working directory: %w", err)
		}
		cacheDir = filepath.Join(cwd, ".cache")
	}

	if err := os.MkdirAll(cacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	return &Manager{cacheDir: cacheDir}, nil
}

// Dir returns the cache directory.
func (m *Manager) Dir() string {
	return m.cacheDir
}

func (m *Manager) cachePath(key string) string {
	return filepath.Join(m.cacheDir, fmt.Sprintf("%016x.cache", xxh3.HashString(key)))
}

func (m *Manager) readEntry(key string) (*Entry, bool) {
	data, err := os.ReadFile(m.cachePath(key))
	if err != nil {
		return nil, false
	}

	decoder, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, false
	}
	defer decoder.Close()

	var entry Entry
	if err := gob.NewDecoder(decoder).Decode(&entry); err != nil {
		return nil, false
	}
	return &entry, true
}

func (m *Manager) writeEntry(key string, entry *Entry) error {
	var buffer bytes.Buffer
	encoder, err := zstd.NewWriter(&buffer)
	if err != nil {
		return fmt.Errorf("failed to create cache encoder: %w", err)
	}
	if err := gob.NewEncoder(encoder).Encode(entry); err != nil {
		encoder.Close()
		return fmt.Errorf("failed to encode cache entry: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to compress cache entry: %w", err)
	}

	if err := os.WriteFile(m.cachePath(key), buffer.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write cache file: %w", err)
	}
	return nil
}

// GetFileContent returns the cached content of filePath if the file has not
// changed since it was cached.
func (m *Manager) GetFileContent(filePath string) ([]byte, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	entry, ok := m.readEntry(filePath)
	if !ok {
		m.recordMiss()
		return nil, false
	}

	info, err := os.Stat(filePath)
	if err != nil || !info.ModTime().Equal(entry.ModTime) || info.Size() != entry.FileSize {
		// Stale entry; drop it so the next write replaces it.
		os.Remove(m.cachePath(filePath))
		m.recordMiss()
		return nil, false
	}

	m.recordHit()
	return entry.Data, true
}

// SetFileContent caches the content of filePath along with its current
// size and modification time.
func (m *Manager) SetFileContent(filePath string, content []byte) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	info, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("failed to get file info: %w", err)
	}

	return m.writeEntry(filePath, &Entry{
		Data:      content,
		Timestamp: time.Now(),
		FileSize:  info.Size(),
		ModTime:   info.ModTime(),
	})
}

// GetLatestVersion returns a cached registry lookup if it has not expired.
func (m *Manager) GetLatestVersion(packageName string) (string, bool) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	entry, ok := m.readEntry("registry:" + packageName)
	if !ok || time.Since(entry.Timestamp) > registryTTL {
		m.recordMiss()
		return "", false
	}

	m.recordHit()
	return string(entry.Data), true
}

// SetLatestVersion caches a registry lookup result.
func (m *Manager) SetLatestVersion(packageName, version string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	return m.writeEntry("registry:"+packageName, &Entry{
		Data:      []byte(version),
		Timestamp: time.Now(),
	})
}

// Clear removes every cache entry.
func (m *Manager) Clear() error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	files, err := os.ReadDir(m.cacheDir)
	if err != nil {
		return fmt.Errorf("failed to read cache directory: %w", err)
	}

	for _, file := range files {
		if file.IsDir() {
			continue
		}
		os.Remove(filepath.Join(m.cacheDir, file.Name()))
	}
	return nil
}

// Stats reports cache size and hit-rate numbers.
func (m *Manager) Stats() (map[string]interface{}, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	files, err := os.ReadDir(m.cacheDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read cache directory: %w", err)
	}

	var totalSize int64
	count := 0
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		if info, err := file.Info(); err == nil {
			totalSize += info.Size()
		}
		count++
	}

	m.statsMutex.Lock()
	hits, misses := m.hits, m.misses
	m.statsMutex.Unlock()

	stats := map[string]interface{}{
		"cache_dir":   m.cacheDir,
		"cache_files": count,
		"total_size":  totalSize,
	}
	if hits+misses > 0 {
		stats["hit_rate"] = float64(hits) / float64(hits+misses) * 100
	}
	return stats, nil
}

func (m *Manager) recordHit() {
	m.statsMutex.Lock()
	m.hits++
	m.statsMutex.Unlock()
}

func (m *Manager) recordMiss() {
	m.statsMutex.Lock()
	m.misses++
	m.statsMutex.Unlock()
}
