package domain

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// MaxNameSize bounds port names accepted from user input, in bytes.
const MaxNameSize = 256

// SanitizeName checks a port name taken from user input.
// Line breaks and oversized or invalid UTF-8 names are rejected because they
// cannot be written back as a Port line. Other control characters are stripped.
func SanitizeName(name string) (string, error) {
	if len(name) > MaxNameSize {
		return "", fmt.Errorf("%w: size=%d limit=%d", ErrInvalidName, len(name), MaxNameSize)
	}
	if !utf8.ValidString(name) {
		return "", fmt.Errorf("%w: invalid UTF-8", ErrInvalidName)
	}
	if strings.ContainsAny(name, "\r\n") {
		return "", fmt.Errorf("%w: line break in %q", ErrInvalidName, name)
	}

	// Fast path: if no control chars, return as is.
	clean := name
	if strings.IndexFunc(name, unicode.IsControl) >= 0 {
		clean = strings.Map(func(r rune) rune {
			if unicode.IsControl(r) {
				return -1
			}
			return r
		}, name)
	}

	if strings.TrimSpace(clean) == "" {
		return "", fmt.Errorf("%w: empty", ErrInvalidName)
	}
	return clean, nil
}
