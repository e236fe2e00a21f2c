package parser

import (
	"path/filepath"
	"strings"
)

// Language identifies the grammar used to parse a source file.
type Language int

const (
	// LanguageTypeScript covers .ts, .mts and .cts files.
	LanguageTypeScript Language = iota
	// LanguageTSX is TypeScript with JSX enabled (.tsx).
	LanguageTSX
	// LanguageJavaScript covers .js, .jsx, .mjs and .cjs files. The grammar
	// accepts JSX.
	LanguageJavaScript
	// LanguageUnknown marks a file the analyzer cannot parse.
	LanguageUnknown
)

// String returns the string representation of the language.
func (l Language) String() string {
	switch l {
	case LanguageTypeScript:
		return "typescript"
	case LanguageTSX:
		return "tsx"
	case LanguageJavaScript:
		return "javascript"
	default:
		return "unknown"
	}
}

// DetectLanguage picks the grammar from a file path's extension.
// Returns LanguageUnknown if the extension is not recognized.
func DetectLanguage(filePath string) Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".ts", ".mts", ".cts":
		return LanguageTypeScript
	case ".tsx":
		return LanguageTSX
	case ".js", ".jsx", ".mjs", ".cjs":
		return LanguageJavaScript
	default:
		return LanguageUnknown
	}
}

// SourceExtensions lists the extensions a component file may carry, in the
// order the resolver probes them.
func SourceExtensions() []string {
	return []string{".tsx", ".ts", ".jsx", ".js"}
}

// IsSourceFile reports whether the path has an extension the parser handles.
func IsSourceFile(filePath string) bool {
	return DetectLanguage(filePath) != LanguageUnknown
}
