package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltSize   = 32
	keySize    = 32
	nonceSize  = 12
	tagSize    = 16
	iterations = 100_000
)

var ErrMalformed = errors.New("malformed sealed value")

type EncryptedData struct {
	Salt       []byte
	Nonce      []byte
	Ciphertext []byte
}

func deriveKey(pass string, salt []byte) []byte {
	return pbkdf2.Key([]byte(pass), salt, iterations, keySize, sha256.New)
}

func newGCM(pass string, salt []byte) (cipher.AEAD, error) {
	key := deriveKey(pass, salt)
	defer clearBytes(key)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, nonceSize)
}

func Encrypt(plaintext []byte, pass string) (*EncryptedData, error) {
	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, err
	}
	gcm, err := newGCM(pass, salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, nonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}
	return &EncryptedData{
		Salt:       salt,
		Nonce:      nonce,
		Ciphertext: gcm.Seal(nil, nonce, plaintext, nil),
	}, nil
}

func Decrypt(encr EncryptedData, pass string) ([]byte, error) {
	gcm, err := newGCM(pass, encr.Salt)
	if err != nil {
		return nil, err
	}
	return gcm.Open(nil, encr.Nonce, encr.Ciphertext, nil)
}

// Seal encrypts plaintext and packs salt, nonce and ciphertext into one
// base64 string suitable for a string-valued store.
func Seal(plaintext string, pass string) (string, error) {
	encr, err := Encrypt([]byte(plaintext), pass)
	if err != nil {
		return "", err
	}
	buf := make([]byte, 0, saltSize+nonceSize+len(encr.Ciphertext))
	buf = append(buf, encr.Salt...)
	buf = append(buf, encr.Nonce...)
	buf = append(buf, encr.Ciphertext...)
	return base64.StdEncoding.EncodeToString(buf), nil
}

// Open reverses Seal. A wrong passphrase fails authentication.
func Open(sealed string, pass string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", ErrMalformed
	}
	if len(raw) < saltSize+nonceSize {
		return "", ErrMalformed
	}
	plaintext, err := Decrypt(EncryptedData{
		Salt:       raw[:saltSize],
		Nonce:      raw[saltSize : saltSize+nonceSize],
		Ciphertext: raw[saltSize+nonceSize:],
	}, pass)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// LooksSealed reports whether s has the shape Seal produces. It does not
// check that any passphrase opens it.
func LooksSealed(s string) bool {
	raw, err := base64.StdEncoding.DecodeString(s)
	return err == nil && len(raw) >= saltSize+nonceSize+tagSize
}

func clearBytes(data []byte) {
	for i := range data {
		data[i] = 0
	}
}
