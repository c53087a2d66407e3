/*
Package jsonfile stores each user's budget as one JSON document on disk.

PURPOSE:
  A dependency-light budget.Store for single-machine use. Every user gets
  <data_dir>/<encoded user id>.json holding their expenses and profile.

DOCUMENT FORMAT:
  {
    "expenses":  [{"id": "...", "name": "Rent", "amount": 15000, "day": 1}],
    "profile":   {"gross": 45000, "bonus": 5000, "premiumPct": "15", "startMonth": 1},
    "updatedAt": "2026-01-05T14:30:00Z"
  }
  "profile" is omitted until the first SaveProfile.

ENCRYPTION:
  With a passphrase every document is sealed with age (scrypt recipient)
  before it touches disk. Plain documents written before encryption was
  turned on are still readable and get sealed on their next write. An
  encrypted document cannot be read without the passphrase.

WRITE SEMANTICS:
  Load, modify, write to a temp file, rename. A reader never sees a
  half-written document. Subscribers are notified after the rename.

SEE ALSO:
  - budget/store.go: Interface definitions
  - store/sqlite/sqlite.go: SQLite implementation
*/
package jsonfile

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"filippo.io/age"
	"github.com/warp/paycheck/budget"
	"github.com/warp/paycheck/generic"
)

const fileExt = ".json"

// document is the on-disk shape of one user's data.
type document struct {
	Expenses  []budget.ExpenseRecord `json:"expenses"`
	Profile   *budget.IncomeProfile  `json:"profile,omitempty"`
	UpdatedAt time.Time              `json:"updatedAt"`
}

// Store implements budget.Store on top of a directory of JSON documents.
type Store struct {
	budget.Broadcaster

	dir       string
	identity  *age.ScryptIdentity
	recipient *age.ScryptRecipient
	mu        sync.RWMutex
}

// New opens (and creates if needed) a data directory. An empty passphrase
// disables encryption.
func New(dir, passphrase string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	s := &Store{dir: dir}
	if passphrase != "" {
		identity, err := age.NewScryptIdentity(passphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to create identity: %w", err)
		}
		recipient, err := age.NewScryptRecipient(passphrase)
		if err != nil {
			return nil, fmt.Errorf("failed to create recipient: %w", err)
		}
		s.identity = identity
		s.recipient = recipient
	}
	return s, nil
}

// SetWorkFactor sets the scrypt cost (log2 N) for newly sealed documents.
// Lower values make tests fast; the age default is 18.
func (s *Store) SetWorkFactor(logN int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.recipient != nil {
		s.recipient.SetWorkFactor(logN)
	}
}

// Encrypted reports whether documents are sealed on write.
func (s *Store) Encrypted() bool {
	return s.recipient != nil
}

// =============================================================================
// FILE I/O
// =============================================================================

func (s *Store) path(user generic.UserID) string {
	return filepath.Join(s.dir, base64.RawURLEncoding.EncodeToString([]byte(user))+fileExt)
}

// load returns an empty document when the user has no file yet.
func (s *Store) load(user generic.UserID) (document, error) {
	var doc document

	data, err := os.ReadFile(s.path(user))
	if errors.Is(err, os.ErrNotExist) {
		return doc, nil
	}
	if err != nil {
		return doc, fmt.Errorf("failed to read %s: %w", user, err)
	}

	if isEncrypted(data) {
		if s.identity == nil {
			return doc, fmt.Errorf("document for %s is encrypted and no passphrase is configured", user)
		}
		if data, err = decrypt(data, s.identity); err != nil {
			return doc, fmt.Errorf("failed to decrypt %s: %w", user, err)
		}
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("failed to parse %s: %w", user, err)
	}
	return doc, nil
}

func (s *Store) save(user generic.UserID, doc document) error {
	budget.SortExpenses(doc.Expenses)
	doc.UpdatedAt = time.Now().UTC().Truncate(time.Second)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", user, err)
	}
	if s.recipient != nil {
		if data, err = encrypt(data, s.recipient); err != nil {
			return fmt.Errorf("failed to encrypt %s: %w", user, err)
		}
	}

	tmp, err := os.CreateTemp(s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", user, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", user, err)
	}
	if err := os.Rename(tmp.Name(), s.path(user)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", user, err)
	}
	return nil
}

// =============================================================================
// EXPENSE STORE
// =============================================================================

func (s *Store) ListExpenses(_ context.Context, user generic.UserID) ([]budget.ExpenseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.load(user)
	if err != nil {
		return nil, err
	}
	budget.SortExpenses(doc.Expenses)
	return doc.Expenses, nil
}

// SaveExpense upserts by ID.
func (s *Store) SaveExpense(_ context.Context, user generic.UserID, e budget.ExpenseRecord) error {
	s.mu.Lock()

	doc, err := s.load(user)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	replaced := false
	for i := range doc.Expenses {
		if doc.Expenses[i].ID == e.ID {
			doc.Expenses[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Expenses = append(doc.Expenses, e)
	}

	if err := s.save(user, doc); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.PublishExpenses(user, doc.Expenses)
	return nil
}

func (s *Store) DeleteExpense(_ context.Context, user generic.UserID, id generic.ExpenseID) error {
	s.mu.Lock()

	doc, err := s.load(user)
	if err != nil {
		s.mu.Unlock()
		return err
	}

	kept := doc.Expenses[:0]
	for _, e := range doc.Expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(doc.Expenses) {
		s.mu.Unlock()
		return generic.ErrNotFound
	}
	doc.Expenses = kept

	if err := s.save(user, doc); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.PublishExpenses(user, doc.Expenses)
	return nil
}

// =============================================================================
// PROFILE STORE
// =============================================================================

func (s *Store) GetProfile(_ context.Context, user generic.UserID) (budget.IncomeProfile, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.load(user)
	if err != nil {
		return budget.IncomeProfile{}, false, err
	}
	if doc.Profile == nil {
		return budget.IncomeProfile{}, false, nil
	}
	return *doc.Profile, true, nil
}

// SaveProfile replaces the profile.
func (s *Store) SaveProfile(_ context.Context, user generic.UserID, p budget.IncomeProfile) error {
	s.mu.Lock()

	doc, err := s.load(user)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	doc.Profile = &p

	if err := s.save(user, doc); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()

	s.PublishProfile(user, p)
	return nil
}

// =============================================================================
// ADMIN
// =============================================================================

// Reset removes the user's document.
func (s *Store) Reset(_ context.Context, user generic.UserID) error {
	s.mu.Lock()
	err := os.Remove(s.path(user))
	s.mu.Unlock()

	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", user, err)
	}
	s.PublishExpenses(user, nil)
	return nil
}

// Users lists every user with a document in the data directory.
func (s *Store) Users(_ context.Context) ([]generic.UserID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list data dir: %w", err)
	}

	var users []generic.UserID
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) || strings.HasPrefix(name, ".") {
			continue
		}
		raw, err := base64.RawURLEncoding.DecodeString(strings.TrimSuffix(name, fileExt))
		if err != nil {
			continue
		}
		users = append(users, generic.UserID(raw))
	}
	return users, nil
}
