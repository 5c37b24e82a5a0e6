package archive

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/sundry/cmd/common"
	"github.com/gigurra/sundry/pkg/modefmt"
	"github.com/gigurra/sundry/pkg/sizefmt"
	"github.com/mholt/archives"
	"github.com/spf13/cobra"
)

// CreateParams holds parameters for archive creation
type CreateParams struct {
	Output     string   `short:"o" help:"Output archive file name (format auto-detected from extension)"`
	Files      []string `pos:"true" optional:"true" help:"Files and directories to archive"`
	Verbose    bool     `short:"v" optional:"true" help:"Verbose output - list files as they are added"`
	Format     string   `short:"f" optional:"true" help:"Archive format (tar, tar.gz, tar.bz2, tar.xz, tar.zst, zip, 7z). Overrides extension detection."`
	Password   string   `short:"p" optional:"true" help:"Password for encrypted ZIP archives"`
	Encryption string   `short:"e" optional:"true" help:"Encryption method for ZIP: legacy (insecure), aes128, aes192, aes256 (default: aes256)" default:"aes256"`
}

// ExtractParams holds parameters for archive extraction
type ExtractParams struct {
	Archive  string `pos:"true" help:"Archive file to extract"`
	Output   string `short:"o" optional:"true" help:"Output directory (default: current directory)" default:"."`
	Verbose  bool   `short:"v" optional:"true" help:"Verbose output - list files as they are extracted"`
	Password string `short:"p" optional:"true" help:"Password for encrypted archives (zip, 7z, rar)"`
}

// ListParams holds parameters for listing archive contents
type ListParams struct {
	Archive  string `pos:"true" help:"Archive file to list"`
	Long     bool   `short:"l" optional:"true" help:"Long listing format (show size and permissions)"`
	Human    bool   `optional:"true" help:"Show sizes in human readable form"`
	Password string `short:"p" optional:"true" help:"Password for encrypted archives (zip, 7z, rar)"`
}

func Cmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "archive",
		Short: "Create and extract archive files",
		Long: `Create, extract, and list archive files in various formats.

Supported formats:
  - tar         Plain tar archive
  - tar.gz, tgz Gzip-compressed tar
  - tar.bz2     Bzip2-compressed tar
  - tar.xz      XZ-compressed tar
  - tar.zst     Zstd-compressed tar
  - tar.lz4     LZ4-compressed tar
  - zip         ZIP archive (password supported with AES encryption)
  - 7z          7-Zip archive (extract only, password supported)
  - rar         RAR archive (extract only, password supported)

The format is auto-detected from the file extension, or can be specified explicitly.
Password-protected zip, 7z, and rar archives can be extracted using the -p flag.
ZIP archives can be created with password protection using the -p flag (AES encryption).`,
	}

	cmd.AddCommand(createCmd())
	cmd.AddCommand(extractCmd())
	cmd.AddCommand(listCmd())

	return cmd
}

func createCmd() *cobra.Command {
	return boa.CmdT[CreateParams]{
		Use:   "create",
		Short: "Create an archive from files and directories",
		Long: `Create an archive file from the specified files and directories.

The archive format is determined by the output file extension, or can be
specified explicitly with the --format flag.

ZIP archives can be encrypted using the -p (password) and -e (encryption) flags.
Supported encryption methods: legacy (insecure, for compatibility), aes128, aes192, aes256 (default).

Examples:
  sundry archive create -o backup.tar.gz file1.txt dir1/
  sundry archive create -o project.zip src/ README.md
  sundry archive create -f tar.zst -o backup.tar.zst data/
  sundry archive create -o secret.zip -p mypassword file.txt
  sundry archive create -o secret.zip -p mypassword -e aes128 file.txt`,
		ParamEnrich: common.DefaultParamEnricher(),
		InitFunc: func(params *CreateParams, cmd *cobra.Command) error {
			cmd.Aliases = []string{"c"}
			return nil
		},
		RunFunc: func(params *CreateParams, cmd *cobra.Command, args []string) {
			if params.Output == "" {
				_, _ = fmt.Fprintln(os.Stderr, "archive: output file required (-o)")
				os.Exit(1)
			}
			if len(params.Files) == 0 {
				_, _ = fmt.Fprintln(os.Stderr, "archive: no files specified")
				os.Exit(1)
			}
			if err := runArchiveCreate(params, os.Stdout); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "archive: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func extractCmd() *cobra.Command {
	return boa.CmdT[ExtractParams]{
		Use:   "extract",
		Short: "Extract files from an archive",
		Long: `Extract all files from an archive to the specified directory.

The archive format is auto-detected from the file contents.
For encrypted archives (zip, 7z, rar), use the -p flag to specify the password.

Examples:
  sundry archive extract backup.tar.gz
  sundry archive extract -o /tmp/output project.zip
  sundry archive extract -v archive.7z
  sundry archive extract -p mypassword secret.zip`,
		ParamEnrich: common.DefaultParamEnricher(),
		InitFunc: func(params *ExtractParams, cmd *cobra.Command) error {
			cmd.Aliases = []string{"x"}
			return nil
		},
		RunFunc: func(params *ExtractParams, cmd *cobra.Command, args []string) {
			if params.Archive == "" {
				_, _ = fmt.Fprintln(os.Stderr, "archive: archive file required")
				os.Exit(1)
			}
			if err := runArchiveExtract(params, os.Stdout); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "archive: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func listCmd() *cobra.Command {
	return boa.CmdT[ListParams]{
		Use:   "list",
		Short: "List contents of an archive",
		Long: `List all files contained in an archive.

For encrypted archives (zip, 7z, rar), use the -p flag to specify the password.

Examples:
  sundry archive list backup.tar.gz
  sundry archive list -l project.zip
  sundry archive list -l --human backup.tar.gz
  sundry archive list -p mypassword secret.zip`,
		ParamEnrich: common.DefaultParamEnricher(),
		InitFunc: func(params *ListParams, cmd *cobra.Command) error {
			cmd.Aliases = []string{"l", "ls"}
			return nil
		},
		RunFunc: func(params *ListParams, cmd *cobra.Command, args []string) {
			if params.Archive == "" {
				_, _ = fmt.Fprintln(os.Stderr, "archive: archive file required")
				os.Exit(1)
			}
			if err := runArchiveList(params, os.Stdout); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "archive: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func runArchiveCreate(params *CreateParams, stdout io.Writer) error {
	ctx := context.Background()

	// Determine the archive format
	format, err := getArchiveFormat(params.Output, params.Format)
	if err != nil {
		return err
	}

	// Use encrypted ZIP writer when password provided for zip format
	if params.Password != "" {
		if _, isZip := format.(archives.Zip); isZip {
			return createEncryptedZip(params, stdout)
		}
		return fmt.Errorf("password encryption is only supported for ZIP format")
	}

	archiver, ok := format.(archives.Archiver)
	if !ok {
		return fmt.Errorf("format does not support archive creation")
	}

	// Build the file list
	fileMap := make(map[string]string)
	for _, path := range params.Files {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("cannot access %s: %w", path, err)
		}
		fileMap[path] = ""
	}

	files, err := archives.FilesFromDisk(ctx, nil, fileMap)
	if err != nil {
		return fmt.Errorf("failed to collect files: %w", err)
	}

	// Create output file
	outFile, err := os.Create(params.Output)
	if err != nil {
		return fmt.Errorf("cannot create output file: %w", err)
	}
	defer outFile.Close()

	if params.Verbose {
		for _, f := range files {
			_, _ = fmt.Fprintf(stdout, "a %s\n", f.NameInArchive)
		}
	}

	// Create the archive
	if err := archiver.Archive(ctx, outFile, files); err != nil {
		os.Remove(params.Output) // Clean up partial file
		return fmt.Errorf("failed to create archive: %w", err)
	}

	return nil
}

func runArchiveExtract(params *ExtractParams, stdout io.Writer) error {
	ctx := context.Background()

	// Open the archive file
	archiveFile, err := os.Open(params.Archive)
	if err != nil {
		return fmt.Errorf("cannot open archive: %w", err)
	}
	defer archiveFile.Close()

	// Identify the format
	format, reader, err := archives.Identify(ctx, params.Archive, archiveFile)
	if err != nil {
		return fmt.Errorf("cannot identify archive format: %w", err)
	}

	// Apply password to formats that support it
	if params.Password != "" {
		switch f := format.(type) {
		case archives.Zip:
			// Encrypted ZIP extraction goes through yeka/zip
			archiveFile.Close()
			return extractEncryptedZip(params, stdout)
		case archives.SevenZip:
			f.Password = params.Password
			format = f
		case archives.Rar:
			f.Password = params.Password
			format = f
		}
	}

	extractor, ok := format.(archives.Extractor)
	if !ok {
		return fmt.Errorf("format does not support extraction")
	}

	// Create output directory if needed
	if params.Output != "." {
		if err := os.MkdirAll(params.Output, 0755); err != nil {
			return fmt.Errorf("cannot create output directory: %w", err)
		}
	}

	// For formats that need seeking (zip, 7z), we need to use the file directly
	var archiveReader io.Reader = reader
	switch format.(type) {
	case archives.Zip, archives.SevenZip:
		_, _ = archiveFile.Seek(0, io.SeekStart)
		archiveReader = archiveFile
	}

	// Extract files
	absOutputRootDir, err := filepath.Abs(params.Output)
	if err != nil {
		return fmt.Errorf("invalid output directory: %s", params.Output)
	}
	return extractor.Extract(ctx, archiveReader, func(ctx context.Context, f archives.FileInfo) error {
		destPath := filepath.Join(absOutputRootDir, filepath.Clean(f.NameInArchive))
		destPathAbs, err := filepath.Abs(destPath)
		if err != nil {
			return fmt.Errorf("invalid file path: %s", f.NameInArchive)
		}

		// Entries must not escape the output directory
		if !insideRoot(absOutputRootDir, destPathAbs) {
			return fmt.Errorf("invalid file path: %s", f.NameInArchive)
		}

		if params.Verbose {
			_, _ = fmt.Fprintf(stdout, "x %s\n", f.NameInArchive)
		}

		// Handle directories
		if f.IsDir() {
			return os.MkdirAll(destPathAbs, f.Mode())
		}

		// Ensure parent directory exists
		if err := os.MkdirAll(filepath.Dir(destPathAbs), 0755); err != nil {
			return err
		}

		// Handle symlinks
		if f.Mode()&os.ModeSymlink != 0 {
			return os.Symlink(f.LinkTarget, destPath)
		}

		// Extract regular file
		outFile, err := os.OpenFile(destPathAbs, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, f.Mode())
		if err != nil {
			return err
		}
		defer outFile.Close()

		srcFile, err := f.Open()
		if err != nil {
			return err
		}
		defer srcFile.Close()

		_, err = io.Copy(outFile, srcFile)
		return err
	})
}

func runArchiveList(params *ListParams, stdout io.Writer) error {
	ctx := context.Background()

	// Open the archive file
	archiveFile, err := os.Open(params.Archive)
	if err != nil {
		return fmt.Errorf("cannot open archive: %w", err)
	}
	defer archiveFile.Close()

	// Identify the format
	format, reader, err := archives.Identify(ctx, params.Archive, archiveFile)
	if err != nil {
		return fmt.Errorf("cannot identify archive format: %w", err)
	}

	// Apply password to formats that support it
	if params.Password != "" {
		switch f := format.(type) {
		case archives.Zip:
			// Encrypted ZIP listing goes through yeka/zip
			archiveFile.Close()
			return listEncryptedZip(params, stdout)
		case archives.SevenZip:
			f.Password = params.Password
			format = f
		case archives.Rar:
			f.Password = params.Password
			format = f
		}
	}

	extractor, ok := format.(archives.Extractor)
	if !ok {
		return fmt.Errorf("format does not support listing")
	}

	// For formats that need seeking (zip, 7z), we need to use the file directly
	var archiveReader io.Reader = reader
	switch format.(type) {
	case archives.Zip, archives.SevenZip:
		_, _ = archiveFile.Seek(0, io.SeekStart)
		archiveReader = archiveFile
	}

	return extractor.Extract(ctx, archiveReader, func(ctx context.Context, f archives.FileInfo) error {
		printListing(stdout, params, f.Mode(), f.Size(), f.NameInArchive, f.IsDir())
		return nil
	})
}

// printListing writes one entry line, ls-style in long mode.
func printListing(stdout io.Writer, params *ListParams, mode os.FileMode, size int64, name string, isDir bool) {
	if isDir {
		name += "/"
	}

	if !params.Long {
		_, _ = fmt.Fprintln(stdout, name)
		return
	}

	sizeColumn := fmt.Sprintf("%10d", size)
	if params.Human {
		sizeColumn = fmt.Sprintf("%10s", sizefmt.FormatSize(size, sizefmt.IEC))
	}
	_, _ = fmt.Fprintf(stdout, "%s %s  %s\n", modefmt.FormatFileMode(mode), sizeColumn, name)
}

// insideRoot reports whether path stays inside root, blocking entries
// like ../../etc/passwd from escaping the output directory.
func insideRoot(root, path string) bool {
	root = filepath.Clean(root)
	return path == root || strings.HasPrefix(path, root+string(filepath.Separator))
}

func getArchiveFormat(filename, formatOverride string) (archives.Format, error) {
	// If format is explicitly specified, use it
	if formatOverride != "" {
		return parseFormatString(formatOverride)
	}

	// Otherwise, detect from filename
	return parseFormatFromExtension(filename)
}

func parseFormatString(format string) (archives.Format, error) {
	format = strings.ToLower(format)

	switch format {
	case "tar":
		return archives.Tar{}, nil
	case "tar.gz", "tgz":
		return archives.CompressedArchive{
			Archival:    archives.Tar{},
			Compression: archives.Gz{},
		}, nil
	case "tar.bz2", "tbz2", "tbz":
		return archives.CompressedArchive{
			Archival:    archives.Tar{},
			Compression: archives.Bz2{},
		}, nil
	case "tar.xz", "txz":
		return archives.CompressedArchive{
			Archival:    archives.Tar{},
			Compression: archives.Xz{},
		}, nil
	case "tar.zst", "tar.zstd":
		return archives.CompressedArchive{
			Archival:    archives.Tar{},
			Compression: archives.Zstd{},
		}, nil
	case "tar.lz4":
		return archives.CompressedArchive{
			Archival:    archives.Tar{},
			Compression: archives.Lz4{},
		}, nil
	case "tar.br", "tar.brotli":
		return archives.CompressedArchive{
			Archival:    archives.Tar{},
			Compression: archives.Brotli{},
		}, nil
	case "zip":
		return archives.Zip{}, nil
	case "7z":
		return archives.SevenZip{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func parseFormatFromExtension(filename string) (archives.Format, error) {
	lower := strings.ToLower(filename)

	// Check compound extensions first
	if strings.HasSuffix(lower, ".tar.gz") || strings.HasSuffix(lower, ".tgz") {
		return parseFormatString("tar.gz")
	}
	if strings.HasSuffix(lower, ".tar.bz2") || strings.HasSuffix(lower, ".tbz2") || strings.HasSuffix(lower, ".tbz") {
		return parseFormatString("tar.bz2")
	}
	if strings.HasSuffix(lower, ".tar.xz") || strings.HasSuffix(lower, ".txz") {
		return parseFormatString("tar.xz")
	}
	if strings.HasSuffix(lower, ".tar.zst") || strings.HasSuffix(lower, ".tar.zstd") {
		return parseFormatString("tar.zst")
	}
	if strings.HasSuffix(lower, ".tar.lz4") {
		return parseFormatString("tar.lz4")
	}
	if strings.HasSuffix(lower, ".tar.br") {
		return parseFormatString("tar.br")
	}

	// Simple extensions
	ext := strings.TrimPrefix(filepath.Ext(lower), ".")
	switch ext {
	case "tar":
		return parseFormatString("tar")
	case "zip":
		return parseFormatString("zip")
	case "7z":
		return parseFormatString("7z")
	default:
		return nil, fmt.Errorf("cannot determine format from extension: %s", ext)
	}
}
