// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// Key prefix for BadgerDB storage
const credentialKeyPrefix = "credential:"

// BadgerCredentialStore implements CredentialStore using BadgerDB, so stored
// logins survive a gateway restart. Entries carry a TTL equal to the
// session lifetime and are dropped by Badger when it elapses. With a
// TokenEncryptor the upstream token is sealed before it reaches disk.
type BadgerCredentialStore struct {
	db     *badger.DB
	ttl    time.Duration
	tokens *TokenEncryptor
}

// badgerCredential is the on-disk record. Encrypted marks a sealed token;
// records written without a key stay readable after one is configured.
type badgerCredential struct {
	Token     string    `json:"token"`
	Encrypted bool      `json:"encrypted,omitempty"`
	Identity  Identity  `json:"identity"`
	StoredAt  time.Time `json:"stored_at"`
}

// OpenBadgerDB opens a BadgerDB for credential storage at path. An empty
// path opens an in-memory database.
func OpenBadgerDB(path string, syncWrites bool) (*badger.DB, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		opts = badger.DefaultOptions(path)
		opts.ValueLogFileSize = 16 << 20 // 16MB, credentials are small
		opts.SyncWrites = syncWrites
	}
	opts.Logger = nil // Suppress BadgerDB logs

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for credentials: %w", err)
	}
	return db, nil
}

// NewBadgerCredentialStore creates a credential store on an open database.
func NewBadgerCredentialStore(db *badger.DB, ttl time.Duration) *BadgerCredentialStore {
	return &BadgerCredentialStore{db: db, ttl: ttl}
}

// WithTokenEncryptor seals tokens written from now on. A nil encryptor
// stores them as given.
func (s *BadgerCredentialStore) WithTokenEncryptor(enc *TokenEncryptor) *BadgerCredentialStore {
	s.tokens = enc
	return s
}

// EncryptsTokens reports whether saved tokens are sealed.
func (s *BadgerCredentialStore) EncryptsTokens() bool {
	return s.tokens.IsEnabled()
}

// Load implements CredentialStore.
func (s *BadgerCredentialStore) Load(_ context.Context, sessionID string) (*Credential, error) {
	if sessionID == "" {
		return nil, ErrCredentialNotFound
	}

	var rec badgerCredential
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(credentialKeyPrefix + sessionID))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrCredentialNotFound
		}
		if err != nil {
			return fmt.Errorf("get credential: %w", err)
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}

	token := rec.Token
	if rec.Encrypted {
		if !s.tokens.IsEnabled() {
			return nil, fmt.Errorf("read credential: %w", ErrEncryptionKeyMissing)
		}
		if token, err = s.tokens.Decrypt(rec.Token); err != nil {
			return nil, fmt.Errorf("read credential: %w", err)
		}
	}
	return &Credential{Token: token, Identity: rec.Identity, StoredAt: rec.StoredAt}, nil
}

// Save implements CredentialStore.
func (s *BadgerCredentialStore) Save(_ context.Context, sessionID string, cred *Credential) error {
	if sessionID == "" {
		return errors.New("session id cannot be empty")
	}
	if cred == nil {
		return errors.New("credential cannot be nil")
	}

	token, err := s.tokens.Encrypt(cred.Token)
	if err != nil {
		return fmt.Errorf("encrypt token: %w", err)
	}
	data, err := json.Marshal(badgerCredential{
		Token:     token,
		Encrypted: s.tokens.IsEnabled() && cred.Token != "",
		Identity:  cred.Identity,
		StoredAt:  cred.StoredAt,
	})
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(credentialKeyPrefix+sessionID), data)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
}

// Delete implements CredentialStore.
func (s *BadgerCredentialStore) Delete(_ context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(credentialKeyPrefix + sessionID))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete credential: %w", err)
		}
		return nil
	})
}

// Count returns the number of live credentials.
func (s *BadgerCredentialStore) Count(_ context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(credentialKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("count credentials: %w", err)
	}
	return count, nil
}
