package room

import (
	"errors"
	"strings"
	"testing"
)

func TestNewCodeAlphabet(t *testing.T) {
	for i := 0; i < 10000; i++ {
		code := NewCode()
		if len(code) != CodeLength {
			t.Fatalf("expected length %d, got %q", CodeLength, code)
		}
		if strings.ContainsAny(code, "0O1I") {
			t.Fatalf("code %q contains a confusable glyph", code)
		}
		for _, r := range code {
			if !strings.ContainsRune(CodeAlphabet, r) {
				t.Fatalf("code %q has %q outside the alphabet", code, r)
			}
		}
	}
}

func TestNormalizeCode(t *testing.T) {
	code, err := NormalizeCode("  ab2z ")
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if code != "AB2Z" {
		t.Fatalf("expected AB2Z, got %s", code)
	}
	for _, bad := range []string{"", "ABC", "ABCDE", "AB0Z", "abiz", "AB Z"} {
		if _, err := NormalizeCode(bad); !errors.Is(err, ErrInvalidCode) {
			t.Fatalf("expected %q rejected, got %v", bad, err)
		}
	}
}
