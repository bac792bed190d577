// Package validation содержит функции валидации входных данных.
package validation

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameLength ограничивает длину имени посетителя в символах.
const MaxNameLength = 64

var (
	// ErrEmptyName возвращается, если имя пустое или состоит из пробелов.
	ErrEmptyName = errors.New("patron name is empty")
	// ErrNameTooLong возвращается, если имя длиннее MaxNameLength.
	ErrNameTooLong = errors.New("patron name is too long")
	// ErrNameInvalid возвращается, если имя содержит управляющие символы.
	ErrNameInvalid = errors.New("patron name contains control characters")
)

// NormalizePatronName обрезает пробелы по краям и проверяет имя посетителя.
// Регистр сохраняется: имена сравниваются с учётом регистра.
func NormalizePatronName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrEmptyName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", ErrNameTooLong
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return "", ErrNameInvalid
		}
	}
	return name, nil
}
