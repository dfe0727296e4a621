package rules

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/jasonmoo/scssexpand/internal/errors"
)

// Collect expands args into a sorted list of style sheet paths.
//
// A directory arg is walked with the include patterns, a regular file is
// taken as is, and anything else is treated as a glob. A path is dropped
// when one of its segments equals an exclude entry or when an exclude
// pattern matches it.
func Collect(args, include, exclude []string) ([]string, error) {
	for _, p := range slices.Concat(include, exclude) {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.NewInvalidPattern(p, doublestar.ErrBadPattern)
		}
	}

	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		p = filepath.Clean(p)
		if seen[p] || excluded(p, exclude) {
			return
		}
		seen[p] = true
		paths = append(paths, p)
	}

	for _, arg := range args {
		info, err := os.Stat(arg)
		switch {
		case err == nil && info.IsDir():
			fsys := os.DirFS(arg)
			for _, pattern := range include {
				matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
				if err != nil {
					return nil, errors.NewInvalidPattern(pattern, err)
				}
				for _, m := range matches {
					add(filepath.Join(arg, filepath.FromSlash(m)))
				}
			}
		case err == nil:
			add(arg)
		default:
			if !doublestar.ValidatePattern(filepath.ToSlash(arg)) {
				return nil, errors.NewInvalidPattern(arg, doublestar.ErrBadPattern)
			}
			matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
			if err != nil {
				return nil, errors.NewInvalidPattern(arg, err)
			}
			if len(matches) == 0 {
				return nil, errors.NewFileNotFound(arg)
			}
			for _, m := range matches {
				add(m)
			}
		}
	}

	slices.Sort(paths)
	return paths, nil
}

func excluded(path string, exclude []string) bool {
	slashed := strings.TrimPrefix(filepath.ToSlash(path), "/")
	segments := strings.Split(slashed, "/")
	for _, ex := range exclude {
		if slices.Contains(segments, ex) {
			return true
		}
		if ok, _ := doublestar.Match(ex, slashed); ok {
			return true
		}
	}
	return false
}
