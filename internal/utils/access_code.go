package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

const (
	accessCodeLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	accessCodeDigits  = "0123456789"
)

// GenerateAccessCode generates a random garden access code in the format AAAA0000
func GenerateAccessCode() (string, error) {
	code := make([]byte, 0, 8)
	for _, alphabet := range []string{accessCodeLetters, accessCodeDigits} {
		for i := 0; i < 4; i++ {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(alphabet))))
			if err != nil {
				return "", fmt.Errorf("failed to generate random index: %w", err)
			}
			code = append(code, alphabet[n.Int64()])
		}
	}
	return string(code), nil
}
