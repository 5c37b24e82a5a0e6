// Package fname converts raw file names to displayable strings and
// fits them into terminal cells.
package fname

import (
	"strings"
	"unicode/utf8"
)

// Decode converts a raw file name as returned by the operating system
// into a display string. Each byte that is not part of a valid UTF-8
// sequence becomes the Unicode replacement character.
func Decode(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}

	var b strings.Builder
	b.Grow(len(raw))

	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRune(raw[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
			i++
			continue
		}
		b.Write(raw[i : i+size])
		i += size
	}

	return b.String()
}

// Encode converts a display string into the raw bytes handed to system
// calls. For names that decoded cleanly this is the original byte
// sequence, so Decode(Encode(s)) == s for any valid UTF-8 s.
func Encode(name string) []byte {
	return []byte(name)
}

// IsValid reports whether raw decodes losslessly, meaning the name is
// well formed UTF-8 and needs no replacement characters.
func IsValid(raw []byte) bool {
	return utf8.Valid(raw)
}
