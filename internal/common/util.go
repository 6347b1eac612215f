package common

import (
	"crypto/rand"
	"encoding/hex"
	"math/big"
	"strings"
)

// MakeRandHexString generates a random hexadecimal string from size random
// bytes. The resulting string length is twice the size, since each byte
// expands to two hex characters. Session tokens are produced this way.
//
// It returns an error if the random number generator fails.
func MakeRandHexString(size int) (string, error) {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// MakeRandDigitCode generates a random numeric string of the given length,
// suitable for one-time verification codes. Each digit is drawn independently
// from crypto/rand.
func MakeRandDigitCode(length int) (string, error) {
	var sb strings.Builder
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		sb.WriteByte(byte('0' + n.Int64()))
	}
	return sb.String(), nil
}

// GenerateRandByteArray returns size random bytes. It panics if the random
// number generator fails, which crypto/rand documents as non-recoverable.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}
