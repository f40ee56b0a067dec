package preprocessor

import "path/filepath"

// IncludeHandler resolves a #include path to its contents. Callers
// implement this to plug in file-system, virtual-file-system, or
// embedded include resolution; the preprocessor never touches the
// file system directly. canonical should be a form stable enough to
// use as a #pragma once de-dup key (e.g. an absolute, cleaned path).
type IncludeHandler interface {
	Resolve(path string, isSystem bool, searchPaths []string) (canonical string, contents string, ok bool)
}

// FileIncludeHandler is the straightforward os.ReadFile-backed
// implementation used by the CLI driver: each candidate path is
// cleaned to a canonical form stable enough to key #pragma once
// de-duplication.
type FileIncludeHandler struct {
	Read func(path string) (string, error)
}

// Resolve implements IncludeHandler using fh.Read (os.ReadFile in
// production, a map lookup in tests).
func (fh FileIncludeHandler) Resolve(path string, isSystem bool, searchPaths []string) (string, string, bool) {
	read := fh.Read
	candidates := []string{path}
	for _, dir := range searchPaths {
		candidates = append(candidates, filepath.Join(dir, path))
	}
	for _, candidate := range candidates {
		clean := filepath.Clean(candidate)
		if contents, err := read(clean); err == nil {
			return clean, contents, true
		}
	}
	return "", "", false
}
