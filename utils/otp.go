package utils

import (
	"crypto/rand"
	"math/big"
)

const otpLength = 6

var ten = big.NewInt(10)

// GenerateOTP returns a 6-character code of independent uniform decimal
// digits. Leading zeros are valid codes.
func GenerateOTP() (string, error) {
	code := make([]byte, otpLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		code[i] = byte('0' + n.Int64())
	}
	return string(code), nil
}
