// Package sizefmt renders and parses file sizes.
//
// Three output styles are supported: locale-grouped byte counts,
// SI units (kB, multiples of 1000) and IEC units (KiB, multiples
// of 1024).
package sizefmt

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Format selects how a byte count is rendered.
type Format string

const (
	// Local renders the exact byte count with locale digit grouping.
	Local Format = "local"
	// SI renders with decimal units: B, kB, MB, GB, TB.
	SI Format = "si"
	// IEC renders with binary units: B, KiB, MiB, GiB, TiB.
	IEC Format = "iec"
)

var multiplier = map[Format]float64{
	SI:  1000.0,
	IEC: 1024.0,
}

var unitNames = map[Format][]string{
	SI:  {"B", "kB", "MB", "GB", "TB"},
	IEC: {"B", "KiB", "MiB", "GiB", "TiB"},
}

// ParseFormat maps a user supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "local":
		return Local, nil
	case "si":
		return SI, nil
	case "iec":
		return IEC, nil
	default:
		return "", fmt.Errorf("unknown size format %q (expected local, si or iec)", s)
	}
}

// FormatSize converts size to a human readable string including the unit.
func FormatSize(size int64, format Format) string {
	return FormatSizeUnit(size, format, true)
}

// FormatSizeUnit converts size to a human readable string. With
// includeUnit false only the number is returned.
//
// Byte sized values hide decimal places, scaled values keep one.
// Values past the largest unit in the table stay in that unit.
func FormatSizeUnit(size int64, format Format, includeUnit bool) string {
	if format == Local {
		result := localePrinter().Sprintf("%d", size)
		if includeUnit {
			result += " B"
		}
		return result
	}

	names := unitNames[format]
	mult := multiplier[format]
	value := float64(size)

	for i, name := range names {
		if value < mult || i == len(names)-1 {
			template := "%.1f"
			if name == "B" {
				template = "%.0f"
			}
			result := fmt.Sprintf(template, value)
			if includeUnit {
				result += " " + name
			}
			return result
		}
		value /= mult
	}

	panic("Bug: unit table was empty")
}

// localePrinter builds a number printer for the process locale once.
// LC_NUMERIC takes precedence, then LC_ALL and LANG, falling back to
// English grouping when none of them parse.
var localePrinter = sync.OnceValue(func() *message.Printer {
	for _, key := range []string{"LC_NUMERIC", "LC_ALL", "LANG"} {
		value := os.Getenv(key)
		if value == "" || value == "C" || value == "POSIX" {
			continue
		}
		if i := strings.IndexAny(value, ".@"); i >= 0 {
			value = value[:i]
		}
		tag, err := language.Parse(strings.ReplaceAll(value, "_", "-"))
		if err == nil {
			return message.NewPrinter(tag)
		}
	}
	return message.NewPrinter(language.English)
})

const (
	KB int64 = 1024
	MB       = KB * 1024
	GB       = MB * 1024
	TB       = GB * 1024
)

// ParseSize parses a size string like "100", "1.5k", "10M" or "2 gb"
// into a byte count. Unit suffixes are binary multiples.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty size")
	}

	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
		i++
	}

	numStr := s[:i]
	unit := strings.ToLower(strings.TrimSpace(s[i:]))

	if numStr == "" {
		return 0, fmt.Errorf("invalid size %q", s)
	}

	value, err := strconv.ParseFloat(numStr, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q", s)
	}

	var mult int64
	switch unit {
	case "", "b":
		mult = 1
	case "k", "kb":
		mult = KB
	case "m", "mb":
		mult = MB
	case "g", "gb":
		mult = GB
	case "t", "tb":
		mult = TB
	default:
		return 0, fmt.Errorf("unknown size unit %q", unit)
	}

	return int64(value * float64(mult)), nil
}
