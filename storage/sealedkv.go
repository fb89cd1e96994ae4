package storage

import (
	"errors"
	"fmt"

	"github.com/electr1fy0/knotes/crypto"
)

// ErrLocked means a sealed value exists but the passphrase does not open it.
var ErrLocked = errors.New("stored notes cannot be decrypted with this passphrase")

// SealedKV encrypts every value before handing it to the wrapped store.
type SealedKV struct {
	inner      KV
	passphrase string
}

func NewSealedKV(inner KV, passphrase string) *SealedKV {
	return &SealedKV{inner: inner, passphrase: passphrase}
}

func (s *SealedKV) Get(key string) (string, bool, error) {
	sealed, ok, err := s.inner.Get(key)
	if err != nil || !ok {
		return "", ok, err
	}
	plain, err := crypto.Open(sealed, s.passphrase)
	if errors.Is(err, crypto.ErrMalformed) {
		return "", false, fmt.Errorf("open %q: %w: value was stored without a passphrase", key, ErrUnreadable)
	}
	if err != nil {
		return "", false, fmt.Errorf("open %q: %w", key, ErrLocked)
	}
	return plain, true, nil
}

func (s *SealedKV) Set(key, value string) error {
	sealed, err := crypto.Seal(value, s.passphrase)
	if err != nil {
		return fmt.Errorf("seal %q: %w", key, err)
	}
	return s.inner.Set(key, sealed)
}

func (s *SealedKV) Close() error { return s.inner.Close() }
