package archive

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/yeka/zip"
)

func parseEncryptionMethod(method string) (zip.EncryptionMethod, error) {
	switch strings.ToLower(method) {
	case "legacy", "zipcrypto":
		return zip.StandardEncryption, nil
	case "aes128":
		return zip.AES128Encryption, nil
	case "aes192":
		return zip.AES192Encryption, nil
	case "aes256", "":
		return zip.AES256Encryption, nil
	default:
		return 0, fmt.Errorf("invalid encryption method: %s (use legacy, aes128, aes192, or aes256)", method)
	}
}

func createEncryptedZip(params *CreateParams, stdout io.Writer) error {
	encMethod, err := parseEncryptionMethod(params.Encryption)
	if err != nil {
		return err
	}

	// Create output file
	outFile, err := os.Create(params.Output)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer outFile.Close()

	zw := zip.NewWriter(outFile)
	defer zw.Close()

	// Process each input file/directory
	for _, inputPath := range params.Files {
		info, err := os.Lstat(inputPath)
		if err != nil {
			os.Remove(params.Output)
			return fmt.Errorf("cannot access %s: %w", inputPath, err)
		}

		if info.IsDir() {
			// Walk directory - compute relative paths from the directory's parent
			baseDir := filepath.Dir(inputPath)
			err = filepath.Walk(inputPath, func(path string, fi os.FileInfo, err error) error {
				if err != nil {
					return err
				}
				// Compute name relative to the base directory
				relPath, err := filepath.Rel(baseDir, path)
				if err != nil {
					relPath = filepath.Base(path)
				}
				return addFileToEncryptedZip(zw, path, relPath, fi, params, encMethod, stdout)
			})
			if err != nil {
				os.Remove(params.Output)
				return fmt.Errorf("failed to add directory %s: %w", inputPath, err)
			}
		} else {
			// Single file - use just the base name
			nameInArchive := filepath.Base(inputPath)
			if err := addFileToEncryptedZip(zw, inputPath, nameInArchive, info, params, encMethod, stdout); err != nil {
				os.Remove(params.Output)
				return fmt.Errorf("failed to add file %s: %w", inputPath, err)
			}
		}
	}

	return nil
}

func addFileToEncryptedZip(zw *zip.Writer, path, nameInArchive string, info os.FileInfo, params *CreateParams, encMethod zip.EncryptionMethod, stdout io.Writer) error {
	if params.Verbose {
		_, _ = fmt.Fprintf(stdout, "a %s\n", nameInArchive)
	}

	// Handle directories
	if info.IsDir() {
		_, err := zw.Create(nameInArchive + "/")
		return err
	}

	// Handle symlinks - store them as regular entries with link target as content
	if info.Mode()&os.ModeSymlink != 0 {
		linkTarget, err := os.Readlink(path)
		if err != nil {
			return err
		}
		w, err := zw.Encrypt(nameInArchive, params.Password, encMethod)
		if err != nil {
			return err
		}
		_, err = w.Write([]byte(linkTarget))
		return err
	}

	// Regular file - encrypt it
	w, err := zw.Encrypt(nameInArchive, params.Password, encMethod)
	if err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = io.Copy(w, f)
	return err
}

func extractEncryptedZip(params *ExtractParams, stdout io.Writer) error {
	zr, err := zip.OpenReader(params.Archive)
	if err != nil {
		return fmt.Errorf("cannot open archive: %w", err)
	}
	defer zr.Close()

	// Create output directory if needed
	absOutputRootDir, err := filepath.Abs(params.Output)
	if err != nil {
		return fmt.Errorf("invalid output directory: %s", params.Output)
	}
	if params.Output != "." {
		if err := os.MkdirAll(absOutputRootDir, 0755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}

	for _, f := range zr.File {
		// Set password if file is encrypted
		if f.IsEncrypted() {
			f.SetPassword(params.Password)
		}

		destPath := filepath.Join(absOutputRootDir, filepath.Clean(f.Name))
		destPathAbs, err := filepath.Abs(destPath)
		if err != nil {
			return fmt.Errorf("invalid file path: %s", f.Name)
		}

		// Entries must not escape the output directory
		if !insideRoot(absOutputRootDir, destPathAbs) {
			return fmt.Errorf("invalid file path: %s", f.Name)
		}

		if params.Verbose {
			_, _ = fmt.Fprintf(stdout, "x %s\n", f.Name)
		}

		// Handle directories
		if f.FileInfo().IsDir() {
			// Keep directories writable so their contents can be extracted
			mode := f.Mode()
			if mode == 0 {
				mode = 0755
			}
			if err := os.MkdirAll(destPathAbs, mode|0700); err != nil {
				return err
			}
			continue
		}

		// Ensure parent directory exists
		if err := os.MkdirAll(filepath.Dir(destPathAbs), 0755); err != nil {
			return err
		}

		// Extract file
		rc, err := f.Open()
		if err != nil {
			return fmt.Errorf("cannot open file in archive: %s: %w", f.Name, err)
		}

		outFile, err := os.OpenFile(destPathAbs, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, f.Mode())
		if err != nil {
			rc.Close()
			return err
		}

		_, err = io.Copy(outFile, rc)
		outFile.Close()
		rc.Close()
		if err != nil {
			return err
		}
	}

	return nil
}

func listEncryptedZip(params *ListParams, stdout io.Writer) error {
	zr, err := zip.OpenReader(params.Archive)
	if err != nil {
		return fmt.Errorf("cannot open archive: %w", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		// Set password if file is encrypted (needed to read file info for some archives)
		if f.IsEncrypted() && params.Password != "" {
			f.SetPassword(params.Password)
		}

		printListing(stdout, params, f.Mode(), int64(f.UncompressedSize64), f.Name, f.FileInfo().IsDir())
	}

	return nil
}
