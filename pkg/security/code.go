package security

import (
	"crypto/rand"
	"fmt"
)

// codeAlphabet is the character set for email verification codes.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// VerificationCodeLength is the length of generated verification codes.
const VerificationCodeLength = 6

// GenerateVerificationCode returns a random code of VerificationCodeLength
// characters drawn from uppercase letters and digits.
func GenerateVerificationCode() (string, error) {
	buf := make([]byte, VerificationCodeLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	for i, b := range buf {
		buf[i] = codeAlphabet[int(b)%len(codeAlphabet)]
	}
	return string(buf), nil
}
