// Package rename plans and applies batch file renames.
//
// A plan is computed from file names alone, so callers can show a
// preview before anything touches the filesystem.
package rename

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Options describe the transformations applied to every name, in
// order: find and replace, case conversion, then the name template.
// The file extension is preserved through the first two steps and
// only a template can change it.
type Options struct {
	// Find is a literal substring to replace in the name stem, or a
	// regular expression when Regexp is set. Empty disables the step.
	Find    string
	Replace string
	Regexp  bool

	// Case converts the stem: "upper", "lower", "title" or "" for
	// no conversion.
	Case string

	// Template rebuilds the whole name when non-empty. Tokens:
	//
	//	[NAME]      stem as produced by the earlier steps
	//	[EXT]       original extension without the dot
	//	[N]         counter
	//	[N2]..[N9]  zero padded counter
	//	[UUID]      random identifier, one per file
	Template string

	// CounterStart is the first counter value, default 1.
	CounterStart int
	// CounterStep is added between files, default 1.
	CounterStep int
}

// Renaming is one planned old name to new name pair.
type Renaming struct {
	OldName string
	NewName string
}

var counterToken = regexp.MustCompile(`\[N([2-9])?\]`)

// Plan computes the new name for every input name and validates the
// batch: names must stay non-empty, must not gain path separators and
// must not collide with each other.
func Plan(names []string, opts Options) ([]Renaming, error) {
	var findRe *regexp.Regexp
	if opts.Regexp && opts.Find != "" {
		var err error
		findRe, err = regexp.Compile(opts.Find)
		if err != nil {
			return nil, fmt.Errorf("invalid find pattern: %w", err)
		}
	}

	caser, err := caserFor(opts.Case)
	if err != nil {
		return nil, err
	}

	counter := opts.CounterStart
	if counter == 0 {
		counter = 1
	}
	step := opts.CounterStep
	if step == 0 {
		step = 1
	}

	batch := make([]Renaming, 0, len(names))
	targets := make(map[string]string, len(names))

	for _, name := range names {
		stem, ext := splitName(name)

		if opts.Find != "" {
			if findRe != nil {
				stem = findRe.ReplaceAllString(stem, opts.Replace)
			} else {
				stem = strings.ReplaceAll(stem, opts.Find, opts.Replace)
			}
		}
		if caser != nil {
			stem = caser(stem)
		}

		newName := stem + ext
		if opts.Template != "" {
			newName = expandTemplate(opts.Template, stem, strings.TrimPrefix(ext, "."), counter)
		}
		counter += step

		if newName == "" {
			return nil, fmt.Errorf("renaming %q produces an empty name", name)
		}
		if strings.ContainsRune(newName, filepath.Separator) {
			return nil, fmt.Errorf("renaming %q produces a path separator in %q", name, newName)
		}
		if previous, collision := targets[newName]; collision {
			return nil, fmt.Errorf("both %q and %q would become %q", previous, name, newName)
		}
		targets[newName] = name

		batch = append(batch, Renaming{OldName: name, NewName: newName})
	}

	return batch, nil
}

// Apply performs the planned renamings inside dir, skipping unchanged
// names. It refuses to overwrite existing files and stops at the
// first failure.
func Apply(dir string, batch []Renaming) error {
	for _, r := range batch {
		if r.NewName == r.OldName {
			continue
		}

		newPath := filepath.Join(dir, r.NewName)
		if _, err := os.Lstat(newPath); err == nil {
			return fmt.Errorf("cannot rename %q to %q: target already exists", r.OldName, r.NewName)
		}

		if err := os.Rename(filepath.Join(dir, r.OldName), newPath); err != nil {
			return fmt.Errorf("renaming %q to %q: %w", r.OldName, r.NewName, err)
		}
	}

	return nil
}

func caserFor(name string) (func(string) string, error) {
	switch strings.ToLower(name) {
	case "":
		return nil, nil
	case "upper":
		return cases.Upper(language.Und).String, nil
	case "lower":
		return cases.Lower(language.Und).String, nil
	case "title":
		return cases.Title(language.Und).String, nil
	default:
		return nil, fmt.Errorf("unknown case conversion %q (expected upper, lower or title)", name)
	}
}

// splitName separates the extension, keeping dotfiles like ".bashrc"
// whole.
func splitName(name string) (stem, ext string) {
	ext = filepath.Ext(name)
	stem = strings.TrimSuffix(name, ext)
	if stem == "" {
		return name, ""
	}
	return stem, ext
}

func expandTemplate(template, stem, ext string, counter int) string {
	result := strings.ReplaceAll(template, "[NAME]", stem)
	result = strings.ReplaceAll(result, "[EXT]", ext)

	if strings.Contains(result, "[UUID]") {
		result = strings.ReplaceAll(result, "[UUID]", uuid.NewString())
	}

	return counterToken.ReplaceAllStringFunc(result, func(token string) string {
		if len(token) == 4 { // "[N4]"
			width := int(token[2] - '0')
			return fmt.Sprintf("%0*d", width, counter)
		}
		return strconv.Itoa(counter)
	})
}
