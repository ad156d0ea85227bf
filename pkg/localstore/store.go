// Package localstore is a named-slot key-value store on the local
// filesystem. It stands in for the browser's localStorage: one file per
// slot, best-effort reads, last write wins across processes.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	pkgerrors "github.com/luxemart/storefront/pkg/errors"
	"github.com/luxemart/storefront/pkg/logger"
)

type Store struct {
	dir  string
	logg *logger.Logger
}

// New creates the backing directory if needed and returns a store over it.
func New(dir string, logg *logger.Logger) (*Store, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("state directory is required")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}
	return &Store{dir: dir, logg: logg}, nil
}

func (s *Store) path(slot string) string {
	return filepath.Join(s.dir, slot)
}

// Get returns the raw slot contents. A missing or unreadable slot yields
// (nil, false), never an error: a broken local store must not block the
// caller.
func (s *Store) Get(slot string) ([]byte, bool) {
	data, err := os.ReadFile(s.path(slot))
	if err != nil {
		if !os.IsNotExist(err) && s.logg != nil {
			s.logg.Debug(s.logg.WithField(context.Background(), "slot", slot), "slot unreadable, treating as empty")
		}
		return nil, false
	}
	return data, true
}

// Set overwrites the slot with data. Total replacement, no merge.
func (s *Store) Set(slot string, data []byte) error {
	if err := os.WriteFile(s.path(slot), data, 0o600); err != nil {
		return fmt.Errorf("writing slot %s: %w", slot, err)
	}
	return nil
}

// Delete removes the slot. Removing an absent slot is a no-op.
func (s *Store) Delete(slot string) error {
	if err := os.Remove(s.path(slot)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting slot %s: %w", slot, err)
	}
	return nil
}

// GetJSON decodes the slot into v. Malformed contents are treated the same
// as an absent slot: the corruption is logged at debug and swallowed.
func (s *Store) GetJSON(slot string, v any) bool {
	data, ok := s.Get(slot)
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		corrupt := pkgerrors.Wrap(pkgerrors.CodeStoreCorrupt, err, fmt.Sprintf("slot %s holds malformed data", slot))
		if s.logg != nil {
			ctx := s.logg.WithField(context.Background(), "slot", slot)
			s.logg.Debug(ctx, corrupt.Error())
		}
		return false
	}
	return true
}

// SetJSON encodes v into the slot.
func (s *Store) SetJSON(slot string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding slot %s: %w", slot, err)
	}
	return s.Set(slot, data)
}

// GetString returns the slot contents as a trimmed string, or "" when the
// slot is absent. Used for slots holding raw values such as the credential.
func (s *Store) GetString(slot string) string {
	data, ok := s.Get(slot)
	if !ok {
		return ""
	}
	return strings.TrimSpace(string(data))
}
