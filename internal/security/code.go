package security

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// RecoveryCodeLength is the fixed width of a recovery code.
const RecoveryCodeLength = 6

var ten = big.NewInt(10)

// GenerateRecoveryCode returns a six-digit recovery code. Each digit is drawn
// independently from crypto/rand, so leading zeros are possible: the result
// is a fixed-width digit string, not a number.
func GenerateRecoveryCode() (string, error) {
	buf := make([]byte, RecoveryCodeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("generate recovery code: %w", err)
		}
		buf[i] = byte('0' + n.Int64())
	}
	return string(buf), nil
}
