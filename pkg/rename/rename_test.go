package rename

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
)

func newNames(t *testing.T, names []string, opts Options) []string {
	t.Helper()
	batch, err := Plan(names, opts)
	if err != nil {
		t.Fatalf("Plan returned error: %v", err)
	}
	result := make([]string, len(batch))
	for i, r := range batch {
		result[i] = r.NewName
	}
	return result
}

func TestPlan_FindReplace(t *testing.T) {
	got := newNames(t,
		[]string{"IMG_001.jpg", "IMG_002.jpg", "notes.txt"},
		Options{Find: "IMG_", Replace: "holiday-"})

	want := []string{"holiday-001.jpg", "holiday-002.jpg", "notes.txt"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("new name %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPlan_FindReplace_Regexp(t *testing.T) {
	got := newNames(t,
		[]string{"track 01 - intro.mp3", "track 12 - outro.mp3"},
		Options{Find: `^track (\d+) - `, Replace: "$1 ", Regexp: true})

	want := []string{"01 intro.mp3", "12 outro.mp3"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("new name %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPlan_InvalidRegexp(t *testing.T) {
	if _, err := Plan([]string{"a.txt"}, Options{Find: "([", Regexp: true}); err == nil {
		t.Error("Plan should reject an invalid pattern")
	}
}

func TestPlan_CaseConversion(t *testing.T) {
	tests := []struct {
		caseName string
		input    string
		want     string
	}{
		{"upper", "report.txt", "REPORT.txt"},
		{"lower", "README.TXT", "readme.TXT"},
		{"title", "my holiday photos.jpg", "My Holiday Photos.jpg"},
	}

	for _, tt := range tests {
		t.Run(tt.caseName, func(t *testing.T) {
			got := newNames(t, []string{tt.input}, Options{Case: tt.caseName})
			if got[0] != tt.want {
				t.Errorf("Case %q: %q -> %q, want %q", tt.caseName, tt.input, got[0], tt.want)
			}
		})
	}

	if _, err := Plan([]string{"a"}, Options{Case: "studly"}); err == nil {
		t.Error("Plan should reject an unknown case conversion")
	}
}

func TestPlan_Template(t *testing.T) {
	got := newNames(t,
		[]string{"dsc0001.jpg", "dsc0002.jpg", "dsc0003.jpg"},
		Options{Template: "vacation-[N3].[EXT]"})

	want := []string{"vacation-001.jpg", "vacation-002.jpg", "vacation-003.jpg"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("new name %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPlan_TemplateCounterStartStep(t *testing.T) {
	got := newNames(t,
		[]string{"a.raw", "b.raw"},
		Options{Template: "shot-[N].[EXT]", CounterStart: 10, CounterStep: 5})

	if got[0] != "shot-10.raw" || got[1] != "shot-15.raw" {
		t.Errorf("counter sequence = %v, want shot-10.raw, shot-15.raw", got)
	}
}

func TestPlan_TemplateNameToken(t *testing.T) {
	got := newNames(t,
		[]string{"draft.odt"},
		Options{Find: "draft", Replace: "final", Template: "[NAME]-v[N].[EXT]"})

	if got[0] != "final-v1.odt" {
		t.Errorf("new name = %q, want %q", got[0], "final-v1.odt")
	}
}

func TestPlan_TemplateUUID(t *testing.T) {
	got := newNames(t, []string{"scan.pdf"}, Options{Template: "[UUID].[EXT]"})

	id := strings.TrimSuffix(got[0], ".pdf")
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("new name %q does not start with a valid uuid: %v", got[0], err)
	}
}

func TestPlan_Dotfiles(t *testing.T) {
	got := newNames(t, []string{".bashrc"}, Options{Case: "upper"})

	if got[0] != ".BASHRC" {
		t.Errorf("dotfile renamed to %q, want whole name treated as stem", got[0])
	}
}

func TestPlan_Collisions(t *testing.T) {
	_, err := Plan(
		[]string{"photo_a.jpg", "photo_b.jpg"},
		Options{Template: "photo.[EXT]"})
	if err == nil {
		t.Fatal("Plan should reject colliding targets")
	}
	if !strings.Contains(err.Error(), "photo.jpg") {
		t.Errorf("collision error %q should name the target", err)
	}
}

func TestPlan_EmptyResult(t *testing.T) {
	if _, err := Plan([]string{"junk"}, Options{Find: "junk", Replace: ""}); err == nil {
		t.Error("Plan should reject an empty new name")
	}
}

func TestPlan_SeparatorRejected(t *testing.T) {
	if _, err := Plan([]string{"a.txt"}, Options{Template: "sub/dir.[EXT]"}); err == nil {
		t.Error("Plan should reject path separators in new names")
	}
}

func TestApply(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"one.txt", "two.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(name), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	batch, err := Plan([]string{"one.txt", "two.txt"}, Options{Find: ".txt", Replace: ""})
	if err != nil {
		t.Fatal(err)
	}
	// names keep their extension, only the stem was searched
	if batch[0].NewName != "one.txt" {
		t.Fatalf("unexpected plan: %+v", batch)
	}

	batch, err = Plan([]string{"one.txt", "two.txt"}, Options{Template: "file-[N].[EXT]"})
	if err != nil {
		t.Fatal(err)
	}
	if err := Apply(dir, batch); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	for _, name := range []string{"file-1.txt", "file-2.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist after Apply: %v", name, err)
		}
	}
}

func TestApply_RefusesOverwrite(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	err := Apply(dir, []Renaming{{OldName: "a.txt", NewName: "b.txt"}})
	if err == nil {
		t.Fatal("Apply should refuse to overwrite an existing file")
	}
	if _, statErr := os.Stat(filepath.Join(dir, "a.txt")); statErr != nil {
		t.Error("failed rename must leave the original in place")
	}
}

func TestApply_SkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "same.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	if err := Apply(dir, []Renaming{{OldName: "same.txt", NewName: "same.txt"}}); err != nil {
		t.Errorf("Apply of unchanged name returned error: %v", err)
	}
}
