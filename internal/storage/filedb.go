package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shubhDEV-11/TWITTER-SELLER-2.0/internal/domain"
)

var ErrNotFound = errors.New("not found")

const snapshotVersion = 1

// FileDB keeps the whole shop document in memory behind a RWMutex and
// rewrites the JSON file on every mutation. All writers go through Update,
// so a purchase or settlement is read, mutated and flushed under one lock —
// two concurrent handlers can no longer interleave their read-modify-write
// cycles.
type FileDB struct {
	mu         sync.RWMutex
	snap       *domain.Snapshot
	path       string
	backupsDir string
}

func Open(path, backupsDir string) (*FileDB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db := &FileDB{path: path, backupsDir: backupsDir}
	if err := db.load(); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *FileDB) Path() string { return db.path }

func (db *FileDB) load() error {
	raw, err := os.ReadFile(db.path)
	if errors.Is(err, os.ErrNotExist) || (err == nil && len(raw) == 0) {
		now := time.Now().UTC()
		db.snap = &domain.Snapshot{
			Version:   snapshotVersion,
			Users:     map[domain.UserID]*domain.User{},
			Stock:     []domain.Account{},
			Topups:    map[domain.TopupID]*domain.PendingTopup{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		return db.flushLocked()
	}
	if err != nil {
		return err
	}
	var snap domain.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return fmt.Errorf("decode %s: %w", db.path, err)
	}
	if snap.Users == nil {
		snap.Users = map[domain.UserID]*domain.User{}
	}
	if snap.Topups == nil {
		snap.Topups = map[domain.TopupID]*domain.PendingTopup{}
	}
	db.snap = &snap
	return nil
}

// flushLocked writes the document to a temp file and renames it over the
// old one, so a crash mid-write never leaves a torn file behind.
func (db *FileDB) flushLocked() error {
	tmp := db.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(db.snap); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, db.path)
}

// Update runs fn with exclusive access to the document and flushes it on
// success. An error from fn leaves the in-memory document as fn left it but
// unflushed; fn must not mutate on the error paths.
func (db *FileDB) Update(ctx context.Context, fn func(*domain.Snapshot) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	if err := fn(db.snap); err != nil {
		return err
	}
	db.snap.UpdatedAt = time.Now().UTC()
	return db.flushLocked()
}

// View runs fn with shared read access. fn must not retain or mutate
// anything it reads.
func (db *FileDB) View(fn func(*domain.Snapshot) error) error {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return fn(db.snap)
}

// BackupNow copies the current document into the backups directory.
func (db *FileDB) BackupNow() (string, error) {
	if db.backupsDir == "" {
		return "", errors.New("no backups dir configured")
	}
	if err := os.MkdirAll(db.backupsDir, 0o755); err != nil {
		return "", err
	}
	db.mu.RLock()
	raw, err := os.ReadFile(db.path)
	db.mu.RUnlock()
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("shop-%s.json", time.Now().UTC().Format("20060102-150405"))
	dst := filepath.Join(db.backupsDir, name)
	if err := os.WriteFile(dst, raw, 0o600); err != nil {
		return "", err
	}
	return dst, nil
}

func (db *FileDB) ListBackups() ([]string, error) {
	ents, err := os.ReadDir(db.backupsDir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range ents {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}
