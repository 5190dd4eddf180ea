package authtoken

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"unicode"

	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestKeyringStoreSetGetClear(t *testing.T) {
	keyring.MockInit()
	k := NewKeyringStore("secretgen-test", filepath.Join(t.TempDir(), "fallback_secrets.json"))

	_, err := k.Get()
	require.ErrorIs(t, err, ErrNoToken)

	require.NoError(t, k.Set("token-123"))
	got, err := k.Get()
	require.NoError(t, err)
	require.Equal(t, "token-123", got)

	require.NoError(t, k.Clear())
	_, err = k.Get()
	require.ErrorIs(t, err, ErrNoToken)
}

func TestKeyringStoreRejectsEmptyToken(t *testing.T) {
	keyring.MockInit()
	k := NewKeyringStore("", "")
	require.Error(t, k.Set("  "))
}

func TestKeyringStoreRotate(t *testing.T) {
	keyring.MockInit()
	k := NewKeyringStore("secretgen-test", "")

	first, err := k.Rotate()
	require.NoError(t, err)
	require.Len(t, first, TokenLength)
	for _, r := range first {
		require.True(t, r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), "unexpected rune %q", r)
	}

	second, err := k.Rotate()
	require.NoError(t, err)
	require.NotEqual(t, first, second)

	stored, err := k.Get()
	require.NoError(t, err)
	require.Equal(t, second, stored)
}

func TestKeyringStoreFallback(t *testing.T) {
	keyring.MockInitWithError(errors.New("dbus: secret service not available"))
	t.Cleanup(keyring.MockInit)

	path := filepath.Join(t.TempDir(), "nested", "fallback_secrets.json")
	k := NewKeyringStore("secretgen-test", path)

	require.NoError(t, k.Set("file-token"))
	got, err := k.Get()
	require.NoError(t, err)
	require.Equal(t, "file-token", got)

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, k.Clear())
	_, err = k.Get()
	require.ErrorIs(t, err, ErrNoToken)
}

func TestKeyringStoreFallbackNotConfigured(t *testing.T) {
	keyring.MockInitWithError(errors.New("dbus: secret service not available"))
	t.Cleanup(keyring.MockInit)

	k := NewKeyringStore("secretgen-test", "")
	require.Error(t, k.Set("token"))
	_, err := k.Get()
	require.ErrorIs(t, err, ErrNoToken)
}
