// internal/session/code.go
package session

import (
	"crypto/rand"
	"math/big"
)

// generateCode draws a join code from the configured alphabet using
// crypto/rand. The alphabet excludes confusable characters (0/O, 1/I/L)
// so codes survive being read out loud.
func generateCode(alphabet string, length int) (string, error) {
	size := big.NewInt(int64(len(alphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", err
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b), nil
}
