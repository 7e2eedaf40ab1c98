package frontend

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// exprLexer tokenizes the demonstration surface language, in the same
// stateful-single-root style as kanso's grammar.KansoLexer: identifiers and
// keywords share one token kind (grammar literals like "fn" or "constrain"
// match Ident-typed tokens by value), multi-character operators are listed
// before their single-character prefixes so the regex prefers the longer
// match.
var exprLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Comment", `//[^\n]*`, nil},
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `0x[0-9a-fA-F]+|[0-9]+`, nil},
		{"Operator", `(->|==|!=|<=|>=|<<|>>|[-+*/%&|^<>!])`, nil},
		{"Punctuation", `[{}():,;]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})
