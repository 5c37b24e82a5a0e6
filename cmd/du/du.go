package du

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/sundry/cmd/common"
	"github.com/gigurra/sundry/pkg/sizefmt"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

type Params struct {
	Paths        []string `pos:"true" optional:"true" help:"Paths to analyze. Defaults to current directory." default:"."`
	Summarize    bool     `short:"s" help:"Display only the totals for each path (same as -d 0)." optional:"true"`
	All          bool     `short:"a" help:"Write counts for all files, not just directories." optional:"true"`
	Human        bool     `short:"h" help:"Print sizes in human readable format (1.5 KiB, 234.0 MiB etc.)." optional:"true"`
	Si           bool     `help:"With -h, use powers of 1000 instead of 1024." optional:"true"`
	MaxDepth     int      `short:"d" help:"Print the total for a directory only if it is N or fewer levels deep." default:"-1"`
	Bytes        bool     `short:"b" help:"Print apparent sizes in bytes (implies --apparent-size)." optional:"true"`
	ApparentSize bool     `help:"Count file contents rather than disk usage." optional:"true"`
	Sort         string   `short:"S" help:"Sort by: 'size' (largest last), 'name', or 'none' for directory order." default:"size"`
	Reverse      bool     `short:"r" help:"Reverse the sort order." optional:"true"`
}

// DirNode is one directory in the scanned tree. LevelSize holds the
// usage of the directory entry itself plus its immediate files,
// TotalSize additionally includes all subdirectories.
type DirNode struct {
	Path       string
	LevelSize  int64
	ChildFiles []FileNode
	ChildDirs  []*DirNode
	TotalSize  int64
}

type FileNode struct {
	Path string
	Size int64
}

// SizeEntry is a flattened line of output, file or directory.
type SizeEntry struct {
	Path  string
	Size  int64
	IsDir bool
}

func Cmd() *cobra.Command {
	cmd := boa.CmdT[Params]{
		Use:         "du",
		Short:       "Estimate file and directory space usage",
		Long:        "Estimate file and directory space usage, like the Unix du command but cross-platform.",
		ParamEnrich: common.DefaultParamEnricher(),
		InitFunc: func(params *Params, cmd *cobra.Command) error {
			cmd.Flags().BoolP("help", "", false, "help for du")
			return nil
		},
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := Run(params, os.Stdout, os.Stderr); err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "du: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
	return cmd
}

func Run(params *Params, stdout, stderr io.Writer) error {
	apparent := params.ApparentSize || params.Bytes
	blockSize := int64(1024)
	if params.Bytes {
		blockSize = 1
	}

	maxDepth := params.MaxDepth
	if params.Summarize && maxDepth == -1 {
		maxDepth = 0
	}

	for _, path := range params.Paths {
		info, err := os.Lstat(path)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "du: cannot access '%s': %v\n", path, err)
			continue
		}

		if !info.IsDir() {
			size := info.Size()
			if !apparent {
				size = allocatedBytes(info)
			}
			printSize(stdout, size, blockSize, params)
			_, _ = fmt.Fprintf(stdout, "\t%s\n", path)
			continue
		}

		rootNode, err := walkDir(path, apparent, stderr)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "du: error reading '%s': %v\n", path, err)
			continue
		}
		aggregateSizes(rootNode)
		pruneToMaxDepth(rootNode, maxDepth, 0)

		if params.Sort == "none" {
			printTree(stdout, rootNode, blockSize, params)
		} else {
			entries := flattenTree(rootNode, params.All)
			sortEntries(entries, params.Sort, params.Reverse)
			for _, entry := range entries {
				printSize(stdout, entry.Size, blockSize, params)
				_, _ = fmt.Fprintf(stdout, "\t%s\n", entry.Path)
			}
		}
	}

	return nil
}

// walkDir scans rootPath into a DirNode tree. With apparent sizes only
// file contents count, otherwise blocks actually allocated on disk,
// directories included.
func walkDir(rootPath string, apparent bool, stderr io.Writer) (*DirNode, error) {
	nodeLkup := make(map[string]*DirNode)

	rootNode := &DirNode{Path: rootPath}
	if !apparent {
		if info, err := os.Lstat(rootPath); err == nil {
			rootNode.LevelSize = allocatedBytes(info)
		}
	}
	nodeLkup[rootPath] = rootNode

	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "du: cannot access '%s': %v\n", path, err)
			return nil // Skip errors
		}

		if path == rootPath {
			return nil
		}

		parentNode, ok := nodeLkup[filepath.Dir(path)]
		if !ok {
			panic("Bug: parent not found for " + path)
		}

		if d.IsDir() {
			currentNode := &DirNode{Path: path}
			if !apparent {
				if info, err := d.Info(); err == nil {
					currentNode.LevelSize = allocatedBytes(info)
				}
			}
			nodeLkup[path] = currentNode
			parentNode.ChildDirs = append(parentNode.ChildDirs, currentNode)
			return nil
		}

		info, err := d.Info()
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "du: cannot access info for '%s': %v\n", path, err)
			return nil
		}
		size := info.Size()
		if !apparent {
			size = allocatedBytes(info)
		}
		parentNode.ChildFiles = append(parentNode.ChildFiles, FileNode{Path: path, Size: size})
		parentNode.LevelSize += size

		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("error walking directory '%s': %v", rootPath, err)
	}

	return rootNode, nil
}

func aggregateSizes(node *DirNode) {
	childSum := lo.SumBy(node.ChildDirs, func(n *DirNode) int64 {
		aggregateSizes(n)
		return n.TotalSize
	})
	node.TotalSize = node.LevelSize + childSum
}

// pruneToMaxDepth drops subtrees below maxDepth. Their sizes stay
// counted since aggregation runs first.
func pruneToMaxDepth(node *DirNode, maxDepth int, currentDepth int) {
	if maxDepth != -1 && currentDepth >= maxDepth {
		node.ChildDirs = nil
		return
	}
	for _, child := range node.ChildDirs {
		pruneToMaxDepth(child, maxDepth, currentDepth+1)
	}
}

// flattenTree turns the tree into output entries, the node itself
// included, files only when requested.
func flattenTree(node *DirNode, includeFiles bool) []SizeEntry {
	var entries []SizeEntry
	if includeFiles {
		for _, file := range node.ChildFiles {
			entries = append(entries, SizeEntry{Path: file.Path, Size: file.Size})
		}
	}
	for _, child := range node.ChildDirs {
		entries = append(entries, flattenTree(child, includeFiles)...)
	}
	entries = append(entries, SizeEntry{Path: node.Path, Size: node.TotalSize, IsDir: true})
	return entries
}

func sortEntries(entries []SizeEntry, sortBy string, reverse bool) {
	switch sortBy {
	case "size":
		slices.SortStableFunc(entries, func(a, b SizeEntry) int {
			cmp := int(a.Size - b.Size)
			if reverse {
				return -cmp
			}
			return cmp
		})
	case "name":
		slices.SortStableFunc(entries, func(a, b SizeEntry) int {
			cmp := strings.Compare(a.Path, b.Path)
			if reverse {
				return -cmp
			}
			return cmp
		})
	}
}

// printTree writes the tree in directory order, children before their
// parent like the real du.
func printTree(stdout io.Writer, node *DirNode, blockSize int64, params *Params) {
	if params.All {
		for _, file := range node.ChildFiles {
			printSize(stdout, file.Size, blockSize, params)
			_, _ = fmt.Fprintf(stdout, "\t%s\n", file.Path)
		}
	}
	for _, child := range node.ChildDirs {
		printTree(stdout, child, blockSize, params)
	}
	printSize(stdout, node.TotalSize, blockSize, params)
	_, _ = fmt.Fprintf(stdout, "\t%s\n", node.Path)
}

func printSize(stdout io.Writer, size int64, blockSize int64, params *Params) {
	if params.Human {
		format := sizefmt.IEC
		if params.Si {
			format = sizefmt.SI
		}
		_, _ = fmt.Fprint(stdout, sizefmt.FormatSize(size, format))
		return
	}
	blocks := (size + blockSize - 1) / blockSize // Round up
	_, _ = fmt.Fprintf(stdout, "%d", blocks)
}

// estimateAllocated rounds size up to whole 4 KiB clusters, for
// platforms and filesystems that do not report real block counts.
func estimateAllocated(size int64) int64 {
	if size == 0 {
		return 0
	}
	return ((size + 4095) / 4096) * 4096
}
