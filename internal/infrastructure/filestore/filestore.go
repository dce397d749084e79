// Package filestore persists store snapshots as three keyed JSON documents.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Zhima-Mochi/procurement-portal/internal/domain/catalog"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/notification"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/request"
	"github.com/Zhima-Mochi/procurement-portal/internal/infrastructure/memory"
	"github.com/Zhima-Mochi/procurement-portal/internal/observability"
	"github.com/Zhima-Mochi/procurement-portal/internal/observability/logctx"
)

// Storage keys, one file per collection.
const (
	KeyItems         = "procurement_items"
	KeyRequests      = "procurement_requests"
	KeyNotifications = "procurement_notifications"
)

const componentFilestore = "filestore"

var _ memory.Persister = (*Store)(nil)

// Store reads and writes snapshots under dir.
type Store struct {
	mu  sync.Mutex
	dir string
	log observability.Logger
}

func New(dir string, logger observability.Logger) (*Store, error) {
	if dir == "" {
		return nil, errors.New("filestore: directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("filestore: create dir: %w", err)
	}
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Store{dir: dir, log: logger.With(observability.F("component", componentFilestore))}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Load reads every collection. found is false when no items file exists yet,
// which callers treat as a first start that needs seeding.
func (s *Store) Load(ctx context.Context) (snap memory.Snapshot, found bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Any existing key counts as found: a lone missing catalog file must not
	// look like a fresh data directory.
	for _, k := range []struct {
		key string
		dst any
	}{
		{KeyItems, &snap.Products},
		{KeyRequests, &snap.Requests},
		{KeyNotifications, &snap.Notifications},
	} {
		ok, err := s.readKey(k.key, k.dst)
		if err != nil {
			return memory.Snapshot{}, false, err
		}
		found = found || ok
	}

	logctx.FromOr(ctx, s.log).Info("snapshot_loaded",
		observability.F("dir", s.dir),
		observability.F("found", found),
		observability.F("products", len(snap.Products)),
		observability.F("requests", len(snap.Requests)),
		observability.F("notifications", len(snap.Notifications)),
	)
	return snap, found, nil
}

// Save rewrites each collection file through a temp file and rename.
func (s *Store) Save(ctx context.Context, snap memory.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	products := snap.Products
	if products == nil {
		products = []*catalog.Product{}
	}
	requests := snap.Requests
	if requests == nil {
		requests = []*request.PurchaseRequest{}
	}
	notifications := snap.Notifications
	if notifications == nil {
		notifications = []*notification.Notification{}
	}

	if err := s.writeKey(KeyItems, products); err != nil {
		return err
	}
	if err := s.writeKey(KeyRequests, requests); err != nil {
		return err
	}
	if err := s.writeKey(KeyNotifications, notifications); err != nil {
		return err
	}
	logctx.FromOr(ctx, s.log).Debug("snapshot_saved", observability.F("dir", s.dir))
	return nil
}

func (s *Store) readKey(key string, dst any) (bool, error) {
	raw, err := os.ReadFile(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("filestore: read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return false, fmt.Errorf("filestore: decode %s: %w", key, err)
	}
	return true, nil
}

func (s *Store) writeKey(key string, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("filestore: encode %s: %w", key, err)
	}
	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("filestore: write %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("filestore: write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("filestore: write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), s.path(key)); err != nil {
		return fmt.Errorf("filestore: replace %s: %w", key, err)
	}
	return nil
}
