// Package authtoken keeps the bearer token that guards the HTTP API in the OS
// keychain, with a JSON file fallback for hosts without a keyring backend.
package authtoken

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zalando/go-keyring"

	"github.com/MJE43/session-secret-go/internal/charset"
	"github.com/MJE43/session-secret-go/internal/engine"
	"github.com/MJE43/session-secret-go/internal/secret"
)

const (
	// DefaultService is the keychain service name used when none is configured.
	DefaultService = "secretgen"

	accountAPIToken = "api-token"

	// TokenLength is the rune length of tokens produced by Rotate.
	TokenLength = 64
)

// ErrNoToken is returned when no token has been stored yet.
var ErrNoToken = errors.New("authtoken: no token stored")

// KeyringStore wraps OS keychain with an optional file fallback.
type KeyringStore struct {
	service      string
	fallbackPath string
	src          *engine.Source
	mu           sync.Mutex
}

// NewKeyringStore creates a keyring wrapper. An empty fallbackPath disables
// the file fallback.
func NewKeyringStore(serviceName, fallbackPath string) *KeyringStore {
	if strings.TrimSpace(serviceName) == "" {
		serviceName = DefaultService
	}
	return &KeyringStore{
		service:      serviceName,
		fallbackPath: fallbackPath,
		src:          engine.Default(),
	}
}

// Get returns the stored token or ErrNoToken.
func (k *KeyringStore) Get() (string, error) {
	val, err := keyring.Get(k.service, accountAPIToken)
	if err == nil {
		return val, nil
	}
	if !isKeyringUnavailable(err) && !errors.Is(err, keyring.ErrNotFound) {
		return "", fmt.Errorf("authtoken: keyring get: %w", err)
	}

	fallback, ferr := k.getFallback()
	if ferr == nil {
		return fallback, nil
	}
	if errors.Is(ferr, ErrNoToken) || errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNoToken
	}
	return "", ferr
}

// Set stores token, replacing any previous value.
func (k *KeyringStore) Set(token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("authtoken: token is empty")
	}

	if err := keyring.Set(k.service, accountAPIToken, token); err == nil {
		return nil
	} else if !isKeyringUnavailable(err) {
		return fmt.Errorf("authtoken: keyring set: %w", err)
	}

	return k.setFallback(token)
}

// Rotate generates a fresh alphanumeric token, stores it and returns it.
func (k *KeyringStore) Rotate() (string, error) {
	tokens, err := secret.GenerateAll(secret.Config{
		Length:  TokenLength,
		Count:   1,
		Classes: []charset.Class{charset.Uppercase, charset.Lowercase, charset.Digits},
	}, k.src)
	if err != nil {
		return "", fmt.Errorf("authtoken: generate token: %w", err)
	}
	if err := k.Set(tokens[0]); err != nil {
		return "", err
	}
	return tokens[0], nil
}

// Clear removes the token from the keychain and the fallback file.
func (k *KeyringStore) Clear() error {
	err := keyring.Delete(k.service, accountAPIToken)
	ferr := k.deleteFallback()
	if err != nil && !errors.Is(err, keyring.ErrNotFound) && !isKeyringUnavailable(err) {
		return fmt.Errorf("authtoken: keyring delete: %w", err)
	}
	return ferr
}

func isKeyringUnavailable(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "secret service") ||
		strings.Contains(msg, "dbus") ||
		strings.Contains(msg, "no keychain") ||
		strings.Contains(msg, "keyring backend not available")
}

type fallbackSecrets map[string]string

func (k *KeyringStore) setFallback(token string) error {
	if strings.TrimSpace(k.fallbackPath) == "" {
		return fmt.Errorf("authtoken: keyring unavailable and no fallback path configured")
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	data, err := k.readFallbackUnlocked()
	if err != nil {
		return err
	}
	data[k.service+"/"+accountAPIToken] = token
	return k.writeFallbackUnlocked(data)
}

func (k *KeyringStore) getFallback() (string, error) {
	if strings.TrimSpace(k.fallbackPath) == "" {
		return "", ErrNoToken
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	data, err := k.readFallbackUnlocked()
	if err != nil {
		return "", err
	}
	val, ok := data[k.service+"/"+accountAPIToken]
	if !ok {
		return "", ErrNoToken
	}
	return val, nil
}

func (k *KeyringStore) deleteFallback() error {
	if strings.TrimSpace(k.fallbackPath) == "" {
		return nil
	}
	k.mu.Lock()
	defer k.mu.Unlock()

	data, err := k.readFallbackUnlocked()
	if err != nil {
		return err
	}
	key := k.service + "/" + accountAPIToken
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return k.writeFallbackUnlocked(data)
}

func (k *KeyringStore) readFallbackUnlocked() (fallbackSecrets, error) {
	out := fallbackSecrets{}
	raw, err := os.ReadFile(k.fallbackPath)
	if err != nil {
		if os.IsNotExist(err) {
			return out, nil
		}
		return nil, fmt.Errorf("authtoken: read fallback secrets: %w", err)
	}
	if len(raw) == 0 {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("authtoken: decode fallback secrets: %w", err)
	}
	return out, nil
}

func (k *KeyringStore) writeFallbackUnlocked(data fallbackSecrets) error {
	if err := os.MkdirAll(filepath.Dir(k.fallbackPath), 0o700); err != nil {
		return fmt.Errorf("authtoken: mkdir fallback dir: %w", err)
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("authtoken: encode fallback secrets: %w", err)
	}
	if err := os.WriteFile(k.fallbackPath, raw, 0o600); err != nil {
		return fmt.Errorf("authtoken: write fallback secrets: %w", err)
	}
	return nil
}
