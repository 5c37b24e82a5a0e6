// Package modefmt renders unix permission bits.
package modefmt

import (
	"fmt"
	"io/fs"
	"strconv"
	"strings"
)

// Format selects how permission bits are rendered.
type Format string

const (
	// Octal renders a zero padded octal number like "0755".
	Octal Format = "octal"
	// Textual renders an rwx triad string like "rwxr-xr-x".
	Textual Format = "textual"
)

// ParseFormat maps a user supplied name to a Format.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "octal":
		return Octal, nil
	case "textual", "text":
		return Textual, nil
	default:
		return "", fmt.Errorf("unknown mode format %q (expected octal or textual)", s)
	}
}

// FormatMode converts permission bits to a human readable string.
func FormatMode(mode uint32, format Format) string {
	if format == Octal {
		return fmt.Sprintf("%04o", mode&0o7777)
	}
	return formatTextual(mode)
}

func formatTextual(mode uint32) string {
	var b strings.Builder
	mask := uint32(0o400)

	for _, c := range "rwxrwxrwx" {
		if mode&mask != 0 {
			b.WriteRune(c)
		} else {
			b.WriteByte('-')
		}
		mask >>= 1
	}

	return b.String()
}

// FormatFileMode renders a full ls style mode string for a file,
// including the leading type character and setuid/setgid/sticky
// markers over the execute slots.
func FormatFileMode(mode fs.FileMode) string {
	buf := []byte(string(fileTypeChar(mode)) + formatTextual(uint32(mode.Perm())))

	patch := func(pos int, bit fs.FileMode, set, unset byte) {
		if mode&bit == 0 {
			return
		}
		if buf[pos] == 'x' {
			buf[pos] = set
		} else {
			buf[pos] = unset
		}
	}

	patch(3, fs.ModeSetuid, 's', 'S')
	patch(6, fs.ModeSetgid, 's', 'S')
	patch(9, fs.ModeSticky, 't', 'T')

	return string(buf)
}

func fileTypeChar(mode fs.FileMode) byte {
	switch {
	case mode.IsDir():
		return 'd'
	case mode&fs.ModeSymlink != 0:
		return 'l'
	case mode&fs.ModeNamedPipe != 0:
		return 'p'
	case mode&fs.ModeSocket != 0:
		return 's'
	case mode&fs.ModeDevice != 0:
		if mode&fs.ModeCharDevice != 0 {
			return 'c'
		}
		return 'b'
	default:
		return '-'
	}
}

// UnixBits converts a file mode back to the classic octal permission
// bits, the inverse of ParseOctal for the lower 12 bits.
func UnixBits(mode fs.FileMode) uint32 {
	bits := uint32(mode.Perm())
	if mode&fs.ModeSetuid != 0 {
		bits |= 0o4000
	}
	if mode&fs.ModeSetgid != 0 {
		bits |= 0o2000
	}
	if mode&fs.ModeSticky != 0 {
		bits |= 0o1000
	}
	return bits
}

// ParseOctal parses an octal mode string like "755", "0644" or "0o644"
// into a file mode, mapping the setuid/setgid/sticky bits to their
// fs.FileMode flags.
func ParseOctal(s string) (fs.FileMode, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(s), "0o")

	value, err := strconv.ParseUint(trimmed, 8, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid octal mode %q", s)
	}
	if value > 0o7777 {
		return 0, fmt.Errorf("mode %q out of range", s)
	}

	mode := fs.FileMode(value & 0o777)
	if value&0o4000 != 0 {
		mode |= fs.ModeSetuid
	}
	if value&0o2000 != 0 {
		mode |= fs.ModeSetgid
	}
	if value&0o1000 != 0 {
		mode |= fs.ModeSticky
	}

	return mode, nil
}
