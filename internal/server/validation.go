package server

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"trinkspiel/internal/catalog"
	"trinkspiel/internal/room"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

const (
	maxNameLength       = 24
	maxConfessionLength = 200
)

var validatorOnce sync.Once

func registerValidators() {
	validatorOnce.Do(func() {
		engine, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		_ = engine.RegisterValidation("name", func(fl validator.FieldLevel) bool {
			_, err := validateName(fl.Field().String())
			return err == nil
		})
		_ = engine.RegisterValidation("confession", func(fl validator.FieldLevel) bool {
			_, err := validateConfession(fl.Field().String())
			return err == nil
		})
		_ = engine.RegisterValidation("category", func(fl validator.FieldLevel) bool {
			return validCategory(fl.Field().String())
		})
		_ = engine.RegisterValidation("game", func(fl validator.FieldLevel) bool {
			return room.ValidGame(fl.Field().String())
		})
		_ = engine.RegisterValidation("roomcode", func(fl validator.FieldLevel) bool {
			_, err := room.NormalizeCode(fl.Field().String())
			return err == nil
		})
	})
}

func validateName(name string) (string, error) {
	return validateText("name", name, maxNameLength)
}

func validateConfession(text string) (string, error) {
	return validateText("confession", text, maxConfessionLength)
}

// validCategory accepts an empty category, meaning "any".
func validCategory(category string) bool {
	switch strings.TrimSpace(category) {
	case "", catalog.CategoryTruth, catalog.CategoryDare, catalog.CategoryWouldRather,
		catalog.CategoryBuzzer, catalog.CategoryConfession:
		return true
	}
	return false
}

func validateText(label, text string, maxLen int) (string, error) {
	trimmed := normalizeText(text)
	if trimmed == "" {
		return "", fmt.Errorf("%s is required", label)
	}
	if len([]rune(trimmed)) > maxLen {
		return "", fmt.Errorf("%s must be %d characters or fewer", label, maxLen)
	}
	if !isSafeText(trimmed) {
		return "", errors.New(label + " contains unsupported characters")
	}
	return trimmed, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}

// isSafeText allows letters of any script (umlauts in names), digits and
// common punctuation. Markup characters are rejected.
func isSafeText(text string) bool {
	for _, r := range text {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		switch r {
		case ' ', '-', '_', '\'', '"', '.', ',', '!', '?', ':', ';', '&', '(', ')', '/', '…':
			continue
		default:
			return false
		}
	}
	return true
}
