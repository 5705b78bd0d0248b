package project

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"

	"wgslsp/internal/source"
)

// DefaultExtensions are the file extensions scanned when none are configured.
var DefaultExtensions = []string{".wgsl"}

// File is one shader source found by Scan.
type File struct {
	Location source.Location
	Path     string
	Text     string
}

// Scan collects every shader file under roots and reads them in parallel.
// Hidden directories are skipped. A root that does not exist is ignored so
// stale include paths do not break the workspace. Files are returned sorted
// by location, each at most once.
func Scan(ctx context.Context, roots, exts []string) ([]File, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	var paths []string
	seen := make(map[string]bool)
	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "resolve root"), "root", root)
		}
		err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if path == abs && os.IsNotExist(err) {
					return fs.SkipDir
				}
				return err
			}
			if d.IsDir() {
				if path != abs && strings.HasPrefix(d.Name(), ".") {
					return fs.SkipDir
				}
				return nil
			}
			if slices.Contains(exts, filepath.Ext(path)) && !seen[path] {
				seen[path] = true
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, zerr.With(zerr.Wrap(err, "walk"), "root", abs)
		}
	}

	files := make([]File, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return zerr.With(zerr.Wrap(err, "read shader"), "path", path)
			}
			files[i] = File{Location: source.LocationFromPath(path), Path: path, Text: source.Decode(data)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	slices.SortFunc(files, func(a, b File) int { return strings.Compare(string(a.Location), string(b.Location)) })
	return files, nil
}
