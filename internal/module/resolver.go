package module

import (
	"path/filepath"
	"strings"
)

// PathResolver maps between module paths and filesystem `.nif` files under a
// fixed project root, mirroring the bijection described in spec.md §4.3:
// module path (a, b, c) <-> root/a/b/c.nif.
type PathResolver struct {
	root string
}

// NewPathResolver creates a resolver rooted at root (an absolute directory).
func NewPathResolver(root string) *PathResolver {
	return &PathResolver{root: filepath.Clean(root)}
}

// Root returns the project root directory.
func (r *PathResolver) Root() string { return r.root }

// FileForModule returns the `.nif` file path for a module path.
func (r *PathResolver) FileForModule(mp Path) string {
	segs := append([]string{r.root}, []string(mp)...)
	file := filepath.Join(segs...) + ".nif"
	return file
}

// ModuleForFile computes the module path for a file, relative to the
// project root, by dropping the ".nif" extension and splitting on the
// platform separator.
func (r *PathResolver) ModuleForFile(file string) (Path, error) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return nil, err
	}
	rel, err := filepath.Rel(r.root, abs)
	if err != nil {
		return nil, err
	}
	rel = strings.TrimSuffix(rel, ".nif")
	parts := strings.Split(filepath.ToSlash(rel), "/")
	return Path(parts), nil
}

// ProjectRootFor returns the directory containing entryFile, used as the
// default project root when none is given explicitly.
func ProjectRootFor(entryFile string) (string, error) {
	abs, err := filepath.Abs(entryFile)
	if err != nil {
		return "", err
	}
	return filepath.Dir(abs), nil
}
