package fname

import (
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

// Width returns the display width of a string in terminal cells,
// accounting for wide characters and ANSI escape codes.
func Width(s string) int {
	return lipgloss.Width(s)
}

// Ellipsize truncates a name to fit within maxWidth display cells,
// appending "…" when anything was cut.
func Ellipsize(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if Width(s) <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return "…"
	}

	var b strings.Builder
	used := 0
	target := maxWidth - 1 // one cell for the ellipsis

	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if used+w > target {
			break
		}
		b.WriteRune(r)
		used += w
	}

	return b.String() + "…"
}

// EllipsizeStart truncates a name from the beginning, keeping the end
// visible behind a "…" prefix.
func EllipsizeStart(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if Width(s) <= maxWidth {
		return s
	}
	if maxWidth == 1 {
		return "…"
	}

	runes := []rune(s)
	used := 0
	target := maxWidth - 1
	start := len(runes)

	for i := len(runes) - 1; i >= 0; i-- {
		w := runewidth.RuneWidth(runes[i])
		if used+w > target {
			break
		}
		used += w
		start = i
	}

	return "…" + string(runes[start:])
}

// ShortenPath fits a path into maxWidth display cells, preferring to
// keep the file name visible and collapsing parent directories to "…/".
func ShortenPath(path string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}

	path = filepath.ToSlash(path)
	if Width(path) <= maxWidth {
		return path
	}

	name := filepath.Base(path)
	nameWidth := Width(name)
	if nameWidth > maxWidth {
		return Ellipsize(name, maxWidth)
	}

	dir := filepath.Dir(path)
	if dir == "." || dir == "/" {
		return name
	}

	// room left after "…/" and the name itself
	available := maxWidth - nameWidth - 2
	if available <= 0 {
		return name
	}

	parts := strings.Split(dir, "/")
	parent := parts[len(parts)-1]
	if Width(parent)+1 <= available {
		return "…/" + parent + "/" + name
	}

	return "…/" + name
}

// PadRight pads a string with spaces to the given display width,
// truncating when it is already wider.
func PadRight(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if w := Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return Ellipsize(s, width)
}

// PadLeft pads a string with spaces on the left to the given display
// width, truncating when it is already wider.
func PadLeft(s string, width int) string {
	if width <= 0 {
		return ""
	}
	if w := Width(s); w < width {
		return strings.Repeat(" ", width-w) + s
	}
	return Ellipsize(s, width)
}
