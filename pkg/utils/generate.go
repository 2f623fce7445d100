package utils

import (
	"crypto/rand"
	"math/big"
)

const codeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateConfirmationCode returns a random code drawn from an alphabet
// without look-alike characters (0/O, 1/I).
func GenerateConfirmationCode(length int) (string, error) {
	if length <= 0 {
		length = 8
	}

	max := big.NewInt(int64(len(codeAlphabet)))
	code := make([]byte, length)
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = codeAlphabet[n.Int64()]
	}

	return string(code), nil
}
