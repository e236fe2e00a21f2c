// Package resolver maps import specifiers to files on disk.
//
// Four specifier forms are recognised, checked in order:
//
//	@/components/Nav   alias, rooted at <project>/src when a src dir exists
//	./Nav, ../Nav      relative to the importing file
//	/components/Nav    rooted at the project root
//	react              third-party, returned unchanged
//
// The first three get extension inference: .tsx, .ts, .jsx and .js are
// appended in that order and the first path that exists wins.
package resolver

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gnana997/comptree/pkg/parser"
	"github.com/gnana997/comptree/pkg/util"
)

const (
	DefaultAliasPrefix = "@/"
	DefaultManifest    = "package.json"
)

// ErrProjectRootNotFound is returned when no manifest exists between the
// entry file and the file-system root.
var ErrProjectRootNotFound = errors.New("project root not found")

// Resolution is the result of resolving one specifier.
type Resolution struct {
	// ImportPath is the project-relative or alias form, always using "/".
	ImportPath string
	// FilePath is the absolute path, or the raw specifier for third-party
	// modules.
	FilePath string
}

// Options configures a Resolver. Zero values select the defaults.
type Options struct {
	AliasPrefix string
	FS          util.FileSystem
}

// Resolver resolves specifiers for one project.
type Resolver struct {
	root        string
	hasSrc      bool
	aliasPrefix string
	fs          util.FileSystem
}

// New creates a Resolver for the project rooted at projectRoot.
func New(projectRoot string, opts Options) *Resolver {
	if opts.AliasPrefix == "" {
		opts.AliasPrefix = DefaultAliasPrefix
	}
	if opts.FS == nil {
		opts.FS = util.NewOSFileSystem(nil)
	}

	root := filepath.Clean(projectRoot)
	return &Resolver{
		root:        root,
		hasSrc:      HasSrcDir(opts.FS, root),
		aliasPrefix: opts.AliasPrefix,
		fs:          opts.FS,
	}
}

// ProjectRoot returns the root the resolver was created with.
func (r *Resolver) ProjectRoot() string {
	return r.root
}

// HasSrc reports whether the project keeps its sources under src/.
func (r *Resolver) HasSrc() bool {
	return r.hasSrc
}

// Resolve maps specifier, as written in fromFile, to a Resolution.
func (r *Resolver) Resolve(specifier, fromFile string) Resolution {
	switch {
	case strings.HasPrefix(specifier, r.aliasPrefix):
		rest := strings.TrimPrefix(specifier, r.aliasPrefix)
		importPath := "./" + rest
		base := r.root
		if r.hasSrc {
			importPath = "./src/" + rest
			base = filepath.Join(r.root, "src")
		}
		return Resolution{
			ImportPath: importPath,
			FilePath:   r.withExtension(filepath.Join(base, filepath.FromSlash(rest))),
		}

	case strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../"):
		abs := filepath.Join(filepath.Dir(fromFile), filepath.FromSlash(specifier))
		rel, err := filepath.Rel(r.root, abs)
		if err != nil {
			rel = abs
		}
		return Resolution{
			ImportPath: "./" + filepath.ToSlash(rel),
			FilePath:   r.withExtension(abs),
		}

	case strings.HasPrefix(specifier, "/"):
		return Resolution{
			ImportPath: specifier,
			FilePath:   r.withExtension(filepath.Join(r.root, filepath.FromSlash(specifier))),
		}

	default:
		return Resolution{ImportPath: specifier, FilePath: specifier}
	}
}

// withExtension returns the first existing path+ext, or path unchanged.
func (r *Resolver) withExtension(path string) string {
	for _, ext := range parser.SourceExtensions() {
		if r.fs.Exists(path + ext) {
			return path + ext
		}
	}
	return path
}

// IsThirdParty reports whether an import path names a package rather than a
// project file.
func IsThirdParty(importPath string) bool {
	return !strings.HasPrefix(importPath, ".")
}

// HasSrcDir reports whether <root>/src exists.
func HasSrcDir(fs util.FileSystem, root string) bool {
	return fs.Exists(filepath.Join(root, "src"))
}

// FindProjectRoot walks up from the entry file's directory until it finds a
// directory containing manifest. The file-system root itself is never
// checked.
func FindProjectRoot(fs util.FileSystem, entry, manifest string) (string, error) {
	if manifest == "" {
		manifest = DefaultManifest
	}

	dir := filepath.Dir(entry)
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		if fs.Exists(filepath.Join(dir, manifest)) {
			return dir, nil
		}
		dir = parent
	}

	return "", fmt.Errorf("%w: no %s above %s", ErrProjectRootNotFound, manifest, entry)
}
