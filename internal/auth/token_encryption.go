// Oceans Admin - Role-Based Access Gateway for Delivery Operations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/oceans-admin

package auth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// Token encryption errors
var (
	// ErrEncryptionKeyMissing means an encrypted credential was read by a
	// store without a key.
	ErrEncryptionKeyMissing = errors.New("encryption key not configured")

	// ErrDecryptionFailed means the ciphertext did not authenticate under
	// the configured key.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrInvalidCiphertext means the ciphertext is malformed.
	ErrInvalidCiphertext = errors.New("invalid ciphertext")
)

// defaultEncryptionContext is the HKDF info string for credential tokens.
const defaultEncryptionContext = "oceans-admin-credential-token"

// minMasterKeyLen is the shortest accepted master key, in bytes.
const minMasterKeyLen = 16

// TokenEncryptor seals upstream tokens with AES-GCM under a key derived
// from a master key by HKDF-SHA256.
type TokenEncryptor struct {
	aead cipher.AEAD
}

// TokenEncryptorConfig holds configuration for token encryption.
type TokenEncryptorConfig struct {
	// MasterKey is the base64-encoded master key, at least 16 bytes.
	MasterKey string

	// Context is the key derivation context (default:
	// "oceans-admin-credential-token").
	Context string
}

// NewTokenEncryptor creates a token encryptor. It returns nil, nil when no
// master key is configured.
func NewTokenEncryptor(config *TokenEncryptorConfig) (*TokenEncryptor, error) {
	if config == nil || config.MasterKey == "" {
		return nil, nil
	}

	masterKey, err := base64.StdEncoding.DecodeString(config.MasterKey)
	if err != nil {
		return nil, fmt.Errorf("decode master key: %w", err)
	}
	if len(masterKey) < minMasterKeyLen {
		return nil, fmt.Errorf("master key must be at least %d bytes", minMasterKeyLen)
	}

	info := config.Context
	if info == "" {
		info = defaultEncryptionContext
	}
	key, err := deriveKey(masterKey, []byte(info), 32)
	if err != nil {
		return nil, fmt.Errorf("derive encryption key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create AES cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create GCM cipher: %w", err)
	}
	return &TokenEncryptor{aead: aead}, nil
}

func deriveKey(secret, info []byte, keyLen int) ([]byte, error) {
	reader := hkdf.New(sha256.New, secret, nil, info)
	key := make([]byte, keyLen)
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, err
	}
	return key, nil
}

// Encrypt returns base64(nonce || ciphertext). A nil encryptor returns the
// plaintext unchanged.
func (e *TokenEncryptor) Encrypt(plaintext string) (string, error) {
	if !e.IsEnabled() || plaintext == "" {
		return plaintext, nil
	}

	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}
	sealed := e.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt.
func (e *TokenEncryptor) Decrypt(ciphertext string) (string, error) {
	if !e.IsEnabled() || ciphertext == "" {
		return ciphertext, nil
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: base64 decode failed", ErrInvalidCiphertext)
	}
	nonceSize := e.aead.NonceSize()
	if len(data) < nonceSize+1+e.aead.Overhead() {
		return "", fmt.Errorf("%w: data too short", ErrInvalidCiphertext)
	}

	plaintext, err := e.aead.Open(nil, data[:nonceSize], data[nonceSize:], nil)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrDecryptionFailed, err.Error())
	}
	return string(plaintext), nil
}

// IsEnabled reports whether tokens are encrypted.
func (e *TokenEncryptor) IsEnabled() bool {
	return e != nil && e.aead != nil
}

// GenerateEncryptionKey returns a random 256-bit key, base64-encoded for
// configuration.
func GenerateEncryptionKey() (string, error) {
	key := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("generate random key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}
