package extractor

import (
	"github.com/gnana997/comptree/pkg/parser"
)

// Usage is one JSX usage site of an imported binding.
type Usage struct {
	// Local is the name used in the JSX, which is the key in Imports.
	Local   string
	Binding Binding
	// Props holds the attribute names seen on the tag. Usages found as
	// attribute values or inside expression containers carry no props.
	Props map[string]bool
}

type scanState int

const (
	outsideTag scanState = iota
	awaitingName
	hasName
)

// ScanJSX walks a token stream and returns the imported bindings that are
// rendered, in discovery order. Three shapes are recognised:
//
//	<Nav links={x} />           tag name; links is recorded as a prop
//	<Route element=<Home /> />  component passed directly as a prop value
//	<Route component={Home} />  bare identifier inside an expression container
//
// An expression container is consumed up to the next container close
// without tracking nesting: in {a ? <X y={b} /> : C} the scan stops after b,
// and C is never inspected. JSX tags inside a container are not reported.
func ScanJSX(tokens []parser.Token, imports *Imports) []*Usage {
	var usages []*Usage

	state := outsideTag
	props := map[string]bool{}

	register := func(name string, p map[string]bool) {
		if b, ok := imports.Lookup(name); ok {
			usages = append(usages, &Usage{Local: name, Binding: b, Props: p})
		}
	}

	kindAt := func(i int) parser.TokenKind {
		if i < len(tokens) {
			return tokens[i].Kind
		}
		return parser.TokenOther
	}

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		switch tok.Kind {
		case parser.TokenJSXTagStart:
			state = awaitingName
			props = map[string]bool{}

		case parser.TokenJSXName:
			if state != hasName {
				state = hasName
				// props is shared with the usage so attributes that
				// follow the name land on it
				register(tok.Value, props)
				continue
			}
			if kindAt(i+1) != parser.TokenEq {
				continue
			}
			props[tok.Value] = true
			if kindAt(i+2) == parser.TokenJSXTagStart && kindAt(i+3) == parser.TokenJSXName {
				register(tokens[i+3].Value, map[string]bool{})
			}

		case parser.TokenJSXExprStart:
			j := i + 1
			for ; j < len(tokens) && tokens[j].Kind != parser.TokenJSXExprEnd; j++ {
				if tokens[j].Kind == parser.TokenName {
					register(tokens[j].Value, map[string]bool{})
				}
			}
			i = j

		case parser.TokenJSXTagEnd:
			state = outsideTag
			props = map[string]bool{}
		}
	}

	return usages
}
