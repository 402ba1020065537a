// Copyright (c) 2026 VaultPass Team
// VaultPass - local credential vault
// This source code is licensed under the MIT license found in the LICENSE file.

// Package vault implements the persistence service behind the command
// contract: vault registration and unlock, and CRUD over sealed credential
// rows kept in a db.Store.
package vault

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/toeirei/vaultpass/internal/db"
	"github.com/toeirei/vaultpass/internal/logging"
	"github.com/toeirei/vaultpass/internal/model"
	"github.com/toeirei/vaultpass/internal/security"
)

// Config tunes a Service. Zero values select the defaults.
type Config struct {
	KDF   security.KDFParams
	Now   func() time.Time
	NewID func() (string, error)
}

// Service owns the unlocked key for the lifetime of a session.
type Service struct {
	store db.Store
	kdf   security.KDFParams
	now   func() time.Time
	newID func() (string, error)

	mu            sync.RWMutex
	sealer        *security.Sealer
	encryptAtRest bool
}

// New returns a locked Service over store.
func New(store db.Store, cfg Config) *Service {
	s := &Service{store: store, kdf: cfg.KDF, now: cfg.Now, newID: cfg.NewID}
	if s.kdf == (security.KDFParams{}) {
		s.kdf = security.DefaultKDFParams()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = newUUIDv7
	}
	return s
}

func newUUIDv7() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Unlocked reports whether a key is currently held.
func (s *Service) Unlocked() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sealer != nil
}

func (s *Service) unlock(sealer *security.Sealer, encryptAtRest bool) {
	s.mu.Lock()
	s.sealer = sealer
	s.encryptAtRest = encryptAtRest
	s.mu.Unlock()
}

// Lock forgets the derived key.
func (s *Service) Lock() {
	s.unlock(nil, false)
}

func (s *Service) session() (*security.Sealer, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.sealer == nil {
		return nil, false, ErrLocked
	}
	return s.sealer, s.encryptAtRest, nil
}

// Exists reports whether a vault has been registered.
func (s *Service) Exists(ctx context.Context) (bool, error) {
	meta, err := s.store.GetVaultMeta(ctx)
	if err != nil {
		return false, err
	}
	return meta != nil, nil
}

// Destroy wipes every row and locks the service.
func (s *Service) Destroy(ctx context.Context) error {
	s.Lock()
	if err := s.store.Wipe(ctx); err != nil {
		return fmt.Errorf("destroy vault: %w", err)
	}
	logging.Infof("vault destroyed")
	return nil
}

// Register creates a new vault protected by master and unlocks it.
func (s *Service) Register(ctx context.Context, master security.Secret, encryptAtRest bool) error {
	if master.IsEmpty() {
		return ErrEmptyPassword
	}
	exists, err := s.Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		return ErrVaultExists
	}

	salt, err := security.NewSalt()
	if err != nil {
		return err
	}
	key := security.DeriveKey(master, salt, s.kdf)
	defer key.Zero()
	verifier, err := security.Verifier(key)
	if err != nil {
		return err
	}
	sealer, err := security.NewSealer(key)
	if err != nil {
		return err
	}

	meta := model.VaultMeta{
		Salt:          salt,
		Verifier:      verifier,
		EncryptAtRest: encryptAtRest,
		KDFTime:       s.kdf.Time,
		KDFMemoryKiB:  s.kdf.MemoryKiB,
		KDFThreads:    s.kdf.Threads,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.store.SaveVaultMeta(ctx, meta); err != nil {
		return fmt.Errorf("save vault meta: %w", err)
	}
	s.unlock(sealer, encryptAtRest)
	logging.Infof("vault registered (encrypt at rest: %t)", encryptAtRest)
	return nil
}

// Login unlocks an existing vault.
func (s *Service) Login(ctx context.Context, master security.Secret) error {
	if master.IsEmpty() {
		return ErrEmptyPassword
	}
	meta, err := s.store.GetVaultMeta(ctx)
	if err != nil {
		return err
	}
	if meta == nil {
		return ErrNoVault
	}
	params := security.KDFParams{Time: meta.KDFTime, MemoryKiB: meta.KDFMemoryKiB, Threads: meta.KDFThreads}
	key := security.DeriveKey(master, meta.Salt, params)
	defer key.Zero()
	if !security.CheckVerifier(key, meta.Verifier) {
		logging.Warnf("login rejected: verifier mismatch")
		return ErrInvalidPassword
	}
	sealer, err := security.NewSealer(key)
	if err != nil {
		return err
	}
	s.unlock(sealer, meta.EncryptAtRest)
	return nil
}

func validateFields(f model.Fields) error {
	if strings.TrimSpace(f.Title) == "" || strings.TrimSpace(f.Username) == "" || f.Secret == "" {
		return ErrMissingFields
	}
	if utf8.RuneCountInString(f.Notes) > model.MaxNotesLength {
		return ErrNotesTooLong
	}
	return nil
}

// List returns every live record in creation order.
func (s *Service) List(ctx context.Context) ([]model.Credential, error) {
	sealer, _, err := s.session()
	if err != nil {
		return nil, err
	}
	rows, err := s.store.ListCredentials(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Credential, 0, len(rows))
	for _, r := range rows {
		c, err := openRow(sealer, r)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Get returns one live record.
func (s *Service) Get(ctx context.Context, id string) (model.Credential, error) {
	sealer, _, err := s.session()
	if err != nil {
		return model.Credential{}, err
	}
	r, err := s.store.GetCredential(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return model.Credential{}, notFound(id)
		}
		return model.Credential{}, err
	}
	return openRow(sealer, r)
}

// Add stores a new record and returns its id.
func (s *Service) Add(ctx context.Context, f model.Fields) (string, error) {
	sealer, encrypt, err := s.session()
	if err != nil {
		return "", err
	}
	if err := validateFields(f); err != nil {
		return "", err
	}
	id, err := s.newID()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	r := model.StoredCredential{ID: id, CreatedAt: s.now().UTC()}
	if err := sealInto(&r, sealer, encrypt, f); err != nil {
		return "", err
	}
	if err := s.store.InsertCredential(ctx, r); err != nil {
		return "", fmt.Errorf("insert credential: %w", err)
	}
	return id, nil
}

// Update replaces the fields of an existing record and returns its id.
func (s *Service) Update(ctx context.Context, id string, f model.Fields) (string, error) {
	sealer, encrypt, err := s.session()
	if err != nil {
		return "", err
	}
	if err := validateFields(f); err != nil {
		return "", err
	}
	prev, err := s.store.GetCredential(ctx, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", notFound(id)
		}
		return "", err
	}

	r := model.StoredCredential{ID: id, CreatedAt: prev.CreatedAt}
	if err := sealInto(&r, sealer, encrypt, f); err != nil {
		return "", err
	}
	updated := s.now().UTC()
	if updated.Before(prev.CreatedAt) {
		updated = prev.CreatedAt
	}
	if prev.UpdatedAt != nil && updated.Before(*prev.UpdatedAt) {
		updated = *prev.UpdatedAt
	}
	r.UpdatedAt = &updated

	if err := s.store.UpdateCredential(ctx, r); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return "", notFound(id)
		}
		return "", fmt.Errorf("update credential: %w", err)
	}
	return id, nil
}

// Delete soft-deletes a record.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, _, err := s.session(); err != nil {
		return err
	}
	if err := s.store.SoftDeleteCredential(ctx, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return notFound(id)
		}
		return fmt.Errorf("delete credential: %w", err)
	}
	return nil
}
