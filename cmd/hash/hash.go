package hash

import (
	"bufio"
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/sundry/cmd/common"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/blake2b"
)

type Params struct {
	Files []string `pos:"true" optional:"true" help:"Files to hash. Read from stdin if none or '-'."`
	Algo  string   `short:"a" help:"Hash algorithm." default:"sha256" alts:"md5,sha1,sha256,sha512,blake2b"`
	Check bool     `short:"c" help:"Read checksum lists from the files and verify them."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "hash [flags] [files...]",
		Short: "Calculate file hashes",
		Long: `Calculate cryptographic hashes for files or standard input.
Supported algorithms: md5, sha1, sha256, sha512, blake2b (512 bit).

With --check, each input is a list of "HASH  NAME" lines as printed by
this command. Every named file is re-hashed and compared; any mismatch
or unreadable file makes the command exit non-zero.`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			os.Exit(runHash(params, os.Stdin, os.Stdout, os.Stderr))
		},
	}.ToCobra()
}

func runHash(params *Params, stdin io.Reader, stdout, stderr io.Writer) int {
	inputs := params.Files
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}

	if params.Check {
		return runCheck(inputs, params.Algo, stdin, stdout, stderr)
	}

	exitCode := 0
	for _, input := range inputs {
		if err := processFile(input, params.Algo, stdout, stdin); err != nil {
			// Keep going so the remaining files still get hashed
			_, _ = fmt.Fprintf(stderr, "hash: %v\n", err)
			exitCode = 1
		}
	}

	return exitCode
}

// checkTotals accumulates verification results across all list files.
type checkTotals struct {
	mismatched int
	unreadable int
}

func runCheck(inputs []string, algo string, stdin io.Reader, stdout, stderr io.Writer) int {
	if _, err := newHasher(algo); err != nil {
		_, _ = fmt.Fprintf(stderr, "hash: %v\n", err)
		return 1
	}

	exitCode := 0
	totals := checkTotals{}
	for _, input := range inputs {
		if err := verifyList(input, algo, stdin, stdout, &totals); err != nil {
			_, _ = fmt.Fprintf(stderr, "hash: %v\n", err)
			exitCode = 1
		}
	}

	if totals.unreadable > 0 {
		_, _ = fmt.Fprintf(stderr, "hash: WARNING: %d listed file(s) could not be read\n", totals.unreadable)
		exitCode = 1
	}
	if totals.mismatched > 0 {
		_, _ = fmt.Fprintf(stderr, "hash: WARNING: %d computed checksum(s) did NOT match\n", totals.mismatched)
		exitCode = 1
	}

	return exitCode
}

func verifyList(input, algo string, stdin io.Reader, stdout io.Writer, totals *checkTotals) error {
	var r io.Reader
	if input == "-" {
		r = stdin
	} else {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		want, name, ok := parseChecksumLine(line)
		if !ok {
			return fmt.Errorf("%s:%d: improperly formatted checksum line", input, lineNo)
		}

		got, err := fileChecksum(name, algo)
		if err != nil {
			_, _ = fmt.Fprintf(stdout, "%s: FAILED open or read\n", name)
			totals.unreadable++
			continue
		}
		if strings.EqualFold(got, want) {
			_, _ = fmt.Fprintf(stdout, "%s: OK\n", name)
		} else {
			_, _ = fmt.Fprintf(stdout, "%s: FAILED\n", name)
			totals.mismatched++
		}
	}
	return scanner.Err()
}

// parseChecksumLine splits "HASH  NAME". A leading '*' on the name is
// the binary-mode marker some tools emit and is ignored.
func parseChecksumLine(line string) (sum, name string, ok bool) {
	sep := strings.IndexAny(line, " \t")
	if sep <= 0 {
		return "", "", false
	}
	sum = line[:sep]
	name = strings.TrimPrefix(strings.TrimLeft(line[sep:], " \t"), "*")
	if name == "" {
		return "", "", false
	}
	for _, c := range sum {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return "", "", false
		}
	}
	return sum, name, true
}

func fileChecksum(path, algo string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h, err := newHasher(algo)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", h.Sum(nil)), nil
}

func processFile(input, algo string, stdout io.Writer, stdin io.Reader) error {
	var r io.Reader
	var name string

	if input == "-" {
		r = stdin
		name = "-"
	} else {
		f, err := os.Open(input)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
		name = input
	}

	h, err := newHasher(algo)
	if err != nil {
		return err
	}

	if _, err := io.Copy(h, r); err != nil {
		return fmt.Errorf("%s: %v", name, err)
	}

	_, _ = fmt.Fprintf(stdout, "%x  %s\n", h.Sum(nil), name)
	return nil
}

func newHasher(algo string) (hash.Hash, error) {
	switch algo {
	case "md5":
		return md5.New(), nil
	case "sha1":
		return sha1.New(), nil
	case "sha256":
		return sha256.New(), nil
	case "sha512":
		return sha512.New(), nil
	case "blake2b":
		return blake2b.New512(nil)
	default:
		return nil, fmt.Errorf("unsupported algorithm: %s", algo)
	}
}
