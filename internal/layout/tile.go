package layout

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"unicode"
)

// Initials возвращает первые буквы слов имени в верхнем регистре.
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		for _, r := range word {
			b.WriteRune(unicode.ToUpper(r))
			break
		}
	}
	return b.String()
}

// Color возвращает постоянный светлый цвет плитки, вычисленный по имени.
func Color(name string) string {
	sum := sha256.Sum256([]byte(name))
	// Светлая палитра: текст на плитке тёмный.
	r := 128 + int(sum[0])/2
	g := 128 + int(sum[1])/2
	b := 128 + int(sum[2])/2
	return fmt.Sprintf("#%02x%02x%02x", r, g, b)
}

// MenuCell возвращает клетку i-го напитка в меню, заполняемом по строкам.
func MenuCell(i, columns int) Cell {
	if columns <= 0 {
		columns = 1
	}
	return Cell{X: i % columns, Y: i / columns}
}
