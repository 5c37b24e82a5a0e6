package size

import (
	"bytes"
	"strings"
	"testing"
)

func TestRun_Format(t *testing.T) {
	tests := []struct {
		name       string
		params     Params
		wantStdout string
		wantExit   int
	}{
		{
			"iec default",
			Params{Sizes: []string{"1536"}, Format: "iec"},
			"1.5 KiB\n",
			0,
		},
		{
			"si format",
			Params{Sizes: []string{"1500"}, Format: "si"},
			"1.5 kB\n",
			0,
		},
		{
			"multiple values",
			Params{Sizes: []string{"0", "1024"}, Format: "iec"},
			"0 B\n1.0 KiB\n",
			0,
		},
		{
			"no unit",
			Params{Sizes: []string{"1024"}, Format: "iec", NoUnit: true},
			"1.0\n",
			0,
		},
		{
			"size strings as input",
			Params{Sizes: []string{"1.5k"}, Format: "iec"},
			"1.5 KiB\n",
			0,
		},
		{
			"parse mode",
			Params{Sizes: []string{"1.5k", "2M"}, Format: "iec", Parse: true},
			"1536\n2097152\n",
			0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			exitCode := Run(&tt.params, &stdout, &stderr)

			if exitCode != tt.wantExit {
				t.Errorf("Run exit = %d, want %d (stderr: %s)", exitCode, tt.wantExit, stderr.String())
			}
			if stdout.String() != tt.wantStdout {
				t.Errorf("Run stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
		})
	}
}

func TestRun_Errors(t *testing.T) {
	var stdout, stderr bytes.Buffer

	exitCode := Run(&Params{Sizes: []string{"nonsense"}, Format: "iec"}, &stdout, &stderr)
	if exitCode != 1 {
		t.Errorf("Run exit = %d, want 1", exitCode)
	}
	if !strings.Contains(stderr.String(), "invalid size") {
		t.Errorf("stderr = %q, want invalid size message", stderr.String())
	}

	stderr.Reset()
	exitCode = Run(&Params{Sizes: []string{"1"}, Format: "bogus"}, &stdout, &stderr)
	if exitCode != 1 {
		t.Errorf("Run exit = %d, want 1 for unknown format", exitCode)
	}
	if !strings.Contains(stderr.String(), "unknown size format") {
		t.Errorf("stderr = %q, want unknown format message", stderr.String())
	}
}
