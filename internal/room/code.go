package room

import (
	"crypto/rand"
	"strings"
)

// CodeAlphabet leaves out 0, O, 1 and I.
const (
	CodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	CodeLength   = 4
)

// NewCode returns a random room code. The alphabet has 32 symbols so every
// random byte maps without bias.
func NewCode() string {
	buf := make([]byte, CodeLength)
	// crypto/rand.Read does not fail on supported platforms.
	_, _ = rand.Read(buf)
	for i := range buf {
		buf[i] = CodeAlphabet[int(buf[i])%len(CodeAlphabet)]
	}
	return string(buf)
}

// NormalizeCode trims and uppercases user input and checks it is a well
// formed code.
func NormalizeCode(raw string) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != CodeLength {
		return "", ErrInvalidCode
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(CodeAlphabet, code[i]) < 0 {
			return "", ErrInvalidCode
		}
	}
	return code, nil
}
