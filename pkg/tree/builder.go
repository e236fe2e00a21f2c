package tree

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/gnana997/comptree/pkg/extractor"
	"github.com/gnana997/comptree/pkg/parser"
	"github.com/gnana997/comptree/pkg/resolver"
	"github.com/gnana997/comptree/pkg/util"
)

// ErrorMessage is stored in Node.Error when a file cannot be read or parsed.
// The underlying cause is logged at debug level.
const ErrorMessage = "Error while processing this file/node"

var (
	// ErrInvalidOptions is returned by NewBuilder for unusable options.
	ErrInvalidOptions = errors.New("invalid builder options")

	// ErrNoTree is returned by operations that need a tree before one exists.
	ErrNoTree = errors.New("no tree")
)

// IDGenerator returns a string unique among live nodes.
type IDGenerator func() string

// Options configures a Builder. Zero values select the defaults.
type Options struct {
	// AliasPrefix is the project alias, "@/" by default.
	AliasPrefix string
	// Manifest marks the project root, "package.json" by default.
	Manifest string
	// ReduxPackage is the module connect must come from, "react-redux"
	// by default.
	ReduxPackage string
	// AllowPartial keeps analysing files whose syntax tree has errors.
	AllowPartial bool

	IDs    IDGenerator
	FS     util.FileSystem
	Logger *slog.Logger

	// Parser is shared when set. Otherwise the Builder creates its own and
	// closes it in Close.
	Parser *parser.ParserManager
}

// Builder turns an entry file into a component tree. A Builder is not safe
// for concurrent use; Session serializes access.
type Builder struct {
	opts       Options
	fs         util.FileSystem
	parser     *parser.ParserManager
	ownsParser bool
	ids        IDGenerator
	logger     *slog.Logger
}

// NewBuilder validates opts and returns a Builder.
func NewBuilder(opts Options) (*Builder, error) {
	if opts.AliasPrefix == "" {
		opts.AliasPrefix = resolver.DefaultAliasPrefix
	}
	if strings.HasPrefix(opts.AliasPrefix, ".") || strings.HasPrefix(opts.AliasPrefix, "/") {
		return nil, fmt.Errorf("%w: alias prefix %q overlaps relative or root imports",
			ErrInvalidOptions, opts.AliasPrefix)
	}
	if opts.Manifest == "" {
		opts.Manifest = resolver.DefaultManifest
	}
	if strings.ContainsRune(opts.Manifest, filepath.Separator) {
		return nil, fmt.Errorf("%w: manifest %q must be a file name", ErrInvalidOptions, opts.Manifest)
	}
	if opts.ReduxPackage == "" {
		opts.ReduxPackage = extractor.DefaultReduxPackage
	}

	b := &Builder{
		opts:   opts,
		fs:     opts.FS,
		ids:    opts.IDs,
		logger: opts.Logger,
		parser: opts.Parser,
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	if b.fs == nil {
		b.fs = util.NewOSFileSystem(b.logger)
	}
	if b.ids == nil {
		b.ids = uuid.NewString
	}
	if b.parser == nil {
		b.parser = parser.NewParserManager(b.logger, parser.Options{AllowPartial: opts.AllowPartial})
		b.ownsParser = true
	}

	return b, nil
}

// Close releases the parser pools if the Builder created them.
func (b *Builder) Close() error {
	if b.ownsParser {
		return b.parser.Close()
	}
	return nil
}

// Build constructs the tree rooted at entry. It fails only when no project
// root can be found; problems with individual files are recorded on their
// nodes.
func (b *Builder) Build(entry string) (*Node, error) {
	abs, err := filepath.Abs(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve entry %q: %w", entry, err)
	}

	res, err := b.resolverFor(abs)
	if err != nil {
		return nil, err
	}

	importPath := "./app/"
	if res.HasSrc() {
		importPath = "./src/app/"
	}

	fileName := filepath.Base(abs)
	root := &Node{
		ID:         b.ids(),
		Name:       trimSourceExt(fileName),
		FileName:   fileName,
		FilePath:   abs,
		ImportPath: importPath,
		Count:      1,
		Children:   []*Node{},
		ParentList: []string{},
		Props:      map[string]bool{},
	}

	b.logger.Debug("building tree",
		"entry", abs,
		"project_root", res.ProjectRoot())

	b.parse(root, res)
	return root, nil
}

func (b *Builder) resolverFor(entry string) (*resolver.Resolver, error) {
	root, err := resolver.FindProjectRoot(b.fs, entry, b.opts.Manifest)
	if err != nil {
		return nil, err
	}
	return resolver.New(root, resolver.Options{
		AliasPrefix: b.opts.AliasPrefix,
		FS:          b.fs,
	}), nil
}

// parse fills node.Children and node.ReduxConnect from node's file, then
// recurses into each child. Nodes whose file is already an ancestor, and
// third-party nodes, are left untouched.
func (b *Builder) parse(node *Node, res *resolver.Resolver) {
	if node.inCycle() {
		return
	}
	if !filepath.IsAbs(node.FilePath) {
		return
	}

	source, err := b.fs.ReadFile(node.FilePath)
	if err != nil {
		b.fail(node, err)
		return
	}

	file, err := b.parser.ParseSource(node.FilePath, source)
	if err != nil {
		b.fail(node, err)
		return
	}

	imports := extractor.Bindings(file.Statements, res, node.FilePath)
	usages := extractor.ScanJSX(file.Tokens, imports)

	node.Children = b.children(node, usages)
	node.ReduxConnect = extractor.ReduxConnected(file.Tokens, imports, b.opts.ReduxPackage)

	for _, child := range node.Children {
		b.parse(child, res)
	}
}

func (b *Builder) fail(node *Node, err error) {
	b.logger.Debug("failed to process node",
		"file", node.FilePath,
		"error", err)
	node.Error = ErrorMessage
	node.Children = []*Node{}
}

func trimSourceExt(name string) string {
	for _, ext := range parser.SourceExtensions() {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}
