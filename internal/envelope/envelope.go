// Package envelope implements the symmetric encryption wrapped around a
// whole slug byte stream. The primitive — AES-256-CBC, zero IV, bare
// SHA-256 as a KDF — is mandated verbatim by spec.md §4.3 and §6 for
// interchange compatibility; none of its known weaknesses (fixed IV,
// unsalted/unstretched KDF, no MAC) may be "fixed" here without breaking
// every slug already written by this format. See DESIGN.md and spec.md §9.
package envelope

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/sha256"
	"errors"
)

// KeySize is the AES-256 key size in bytes.
const KeySize = 32

// ErrNotBlockAligned is returned when the input is not a multiple of the
// AES block size. It should never occur in practice: cluster sizes are
// always multiples of 16 bytes.
var ErrNotBlockAligned = errors.New("envelope: input is not a multiple of the AES block size")

// hardcodedIV is the all-zero 16-byte initialization vector spec.md §3 and
// §6 fix for every slug. Replacing it breaks compatibility with existing
// slugs (spec.md §9).
var hardcodedIV = make([]byte, aes.BlockSize)

// DeriveKey turns a passphrase into a 32-byte AES-256 key by taking the
// SHA-256 of its UTF-8 bytes. No salt, no stretching — see the package doc.
func DeriveKey(passphrase string) [KeySize]byte {
	return sha256.Sum256([]byte(passphrase))
}

// Encrypt AES-256-CBC encrypts data under key with the fixed zero IV. data
// must already be a multiple of aes.BlockSize.
func Encrypt(data []byte, key [KeySize]byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	if len(data)%aes.BlockSize != 0 {
		return nil, ErrNotBlockAligned
	}

	out := make([]byte, len(data))
	cipher.NewCBCEncrypter(block, hardcodedIV).CryptBlocks(out, data)
	return out, nil
}

// Decrypt is Encrypt's inverse.
func Decrypt(data []byte, key [KeySize]byte) ([]byte, error) {
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	if len(data)%aes.BlockSize != 0 {
		return nil, ErrNotBlockAligned
	}

	out := make([]byte, len(data))
	cipher.NewCBCDecrypter(block, hardcodedIV).CryptBlocks(out, data)
	return out, nil
}
