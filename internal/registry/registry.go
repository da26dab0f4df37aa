// Package registry tracks which playlists have already been downloaded into an
// output directory, so repeated batch runs can skip them without probing.
package registry

import (
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"net/url"
	"os"
	"path/filepath"
	"sync"
)

const (
	// FileName is the registry file kept at the root of each output directory
	FileName = ".playlists_done.json"

	// MarkerName is the engine's download archive. A playlist only counts as
	// done while its folder still holds one.
	MarkerName = ".downloaded.txt"
)

// Registry maps playlist IDs to the folder they were downloaded into.
// It is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	outputDir string
	entries   map[string]string
}

// Path returns the registry file location for an output directory.
func Path(outputDir string) string {
	if outputDir == "" {
		outputDir = "."
	}
	return filepath.Join(outputDir, FileName)
}

// Load reads the registry for outputDir. A missing file yields an empty
// registry; a malformed one is an error the caller must not ignore.
func Load(outputDir string) (*Registry, error) {
	entries, err := readEntries(outputDir)
	if err != nil {
		return nil, err
	}
	return &Registry{outputDir: outputDir, entries: entries}, nil
}

func readEntries(outputDir string) (map[string]string, error) {
	entries := make(map[string]string)

	data, err := os.ReadFile(Path(outputDir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return entries, nil
		}
		return nil, fmt.Errorf("failed to read registry: %w", err)
	}

	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("registry %s is corrupt: %w", Path(outputDir), err)
	}
	if entries == nil {
		entries = make(map[string]string)
	}

	return entries, nil
}

// Every Registry loaded for the same file shares one lock, so concurrent
// batches writing into one output directory never drop each other's entries.
var (
	fileLocksMu sync.Mutex
	fileLocks   = make(map[string]*sync.Mutex)
)

func fileLock(outputDir string) *sync.Mutex {
	key := filepath.Clean(Path(outputDir))
	if abs, err := filepath.Abs(key); err == nil {
		key = abs
	}

	fileLocksMu.Lock()
	defer fileLocksMu.Unlock()

	mu, ok := fileLocks[key]
	if !ok {
		mu = &sync.Mutex{}
		fileLocks[key] = mu
	}
	return mu
}

// Save writes entries for outputDir through a temp file and rename.
func Save(outputDir string, entries map[string]string) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode registry: %w", err)
	}

	path := Path(outputDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create registry directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), FileName+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp registry: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write registry: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync registry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace registry: %w", err)
	}

	return nil
}

// PlaylistID extracts the "list" query parameter from a URL.
func PlaylistID(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("list")
}

// OutputDir returns the directory this registry belongs to.
func (r *Registry) OutputDir() string {
	return r.outputDir
}

// Entries returns a copy of the current mapping.
func (r *Registry) Entries() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.entries)
}

// IsDone reports whether the playlist behind rawURL was completed and its
// folder and marker file are still on disk.
func (r *Registry) IsDone(rawURL string) bool {
	pid := PlaylistID(rawURL)
	if pid == "" {
		return false
	}

	r.mu.RLock()
	folder, ok := r.entries[pid]
	r.mu.RUnlock()
	if !ok {
		return false
	}

	base := r.outputDir
	if base == "" {
		base = "."
	}
	folderPath := filepath.Join(base, folder)

	info, err := os.Stat(folderPath)
	if err != nil || !info.IsDir() {
		return false
	}

	marker, err := os.Stat(filepath.Join(folderPath, MarkerName))
	return err == nil && marker.Mode().IsRegular()
}

// MarkDone records rawURL's playlist under folderName and persists at once.
// The file is re-read under the process-wide lock and merged, so entries
// written by other batches since Load are kept. URLs without a playlist ID
// are ignored.
func (r *Registry) MarkDone(rawURL, folderName string) error {
	pid := PlaylistID(rawURL)
	if pid == "" {
		return nil
	}

	lock := fileLock(r.outputDir)
	lock.Lock()
	defer lock.Unlock()

	onDisk, err := readEntries(r.outputDir)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	maps.Copy(onDisk, r.entries)
	onDisk[pid] = folderName
	if err := Save(r.outputDir, onDisk); err != nil {
		return err
	}

	r.entries = onDisk
	return nil
}
