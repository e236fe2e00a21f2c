package extractor

import "github.com/gnana997/comptree/pkg/parser"

const (
	DefaultReduxPackage = "react-redux"
	connectName         = "connect"
)

// ReduxConnected reports whether a file imports connect from reduxPackage
// and default-exports its result:
//
//	import { connect } from "react-redux";
//	export default connect(mapState)(Counter);
//
// When connect is imported under several aliases only the last one counts.
func ReduxConnected(tokens []parser.Token, imports *Imports, reduxPackage string) bool {
	if reduxPackage == "" {
		reduxPackage = DefaultReduxPackage
	}

	alias := ""
	for _, name := range imports.Names() {
		b, _ := imports.Lookup(name)
		if b.ImportPath == reduxPackage && b.ImportName == connectName {
			alias = name
		}
	}
	if alias == "" {
		return false
	}

	for i := 0; i+2 < len(tokens); i++ {
		if tokens[i].Is(parser.TokenKeyword, "export") &&
			tokens[i+1].Is(parser.TokenKeyword, "default") &&
			tokens[i+2].Value == alias {
			return true
		}
	}
	return false
}
