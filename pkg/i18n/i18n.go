// Package i18n loads gettext catalogs and exposes translation
// helpers. Translation is optional: without a loaded catalog every
// lookup passes the message through untranslated.
package i18n

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

var (
	setupOnce    sync.Once
	active       *gotext.Locale
	activeDomain string
)

// Init loads the gettext catalog for the domain, once per process.
// Directories are searched in order and the first one containing a
// catalog for the user's locale wins. Missing catalogs are not an
// error, lookups just stay untranslated.
func Init(domain string, localeDirs ...string) {
	setupOnce.Do(func() {
		candidates := localeCandidates()
		if len(candidates) == 0 {
			return
		}

		dir, lang, found := findCatalog(domain, localeDirs, candidates)
		if !found {
			return
		}

		locale := gotext.NewLocale(dir, lang)
		locale.AddDomain(domain)
		active = locale
		activeDomain = domain
	})
}

// DefaultLocaleDirs returns the directories searched when the caller
// has no opinion: a translations directory next to the executable
// when present, then the system locale tree.
func DefaultLocaleDirs() []string {
	var dirs []string

	if exe, err := os.Executable(); err == nil {
		local := filepath.Join(filepath.Dir(exe), "translations")
		if info, err := os.Stat(local); err == nil && info.IsDir() {
			dirs = append(dirs, local)
		}
	}

	return append(dirs, "/usr/share/locale")
}

// T translates a message, applying arguments sprintf style.
func T(msg string, args ...any) string {
	if active == nil {
		return passthrough(msg, args...)
	}
	return active.GetD(activeDomain, msg, args...)
}

// TN translates a countable message, choosing singular or plural for
// the count n.
func TN(singular, plural string, n int, args ...any) string {
	if active == nil {
		form := singular
		if n != 1 {
			form = plural
		}
		return passthrough(form, args...)
	}
	return active.GetND(activeDomain, singular, plural, n, args...)
}

func passthrough(msg string, args ...any) string {
	if len(args) == 0 {
		return msg
	}
	return fmt.Sprintf(msg, args...)
}

// localeCandidates resolves the user's locale preference list from
// the gettext environment variables, most specific first. "pt_BR"
// also yields "pt" so a base language catalog can serve.
func localeCandidates() []string {
	var raw []string
	if v := os.Getenv("LANGUAGE"); v != "" {
		raw = append(raw, strings.Split(v, ":")...)
	}
	for _, key := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if v := os.Getenv(key); v != "" {
			raw = append(raw, v)
		}
	}

	var result []string
	seen := map[string]bool{}
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	for _, value := range raw {
		if value == "C" || value == "POSIX" {
			continue
		}
		if i := strings.IndexAny(value, ".@"); i >= 0 {
			value = value[:i]
		}
		add(value)

		tag, err := language.Parse(strings.ReplaceAll(value, "_", "-"))
		if err != nil {
			continue
		}
		if base, conf := tag.Base(); conf != language.No {
			add(base.String())
		}
	}

	return result
}

func findCatalog(domain string, dirs, candidates []string) (dir, lang string, found bool) {
	for _, dir := range dirs {
		for _, lang := range candidates {
			for _, ext := range []string{".mo", ".po"} {
				locations := []string{
					filepath.Join(dir, lang, "LC_MESSAGES", domain+ext),
					filepath.Join(dir, lang, domain+ext),
				}
				for _, location := range locations {
					if _, err := os.Stat(location); err == nil {
						return dir, lang, true
					}
				}
			}
		}
	}
	return "", "", false
}

// ResetForTest drops the loaded catalog so tests can run Init again.
func ResetForTest() {
	setupOnce = sync.Once{}
	active = nil
	activeDomain = ""
}
