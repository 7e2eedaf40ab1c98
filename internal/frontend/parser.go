package frontend

import (
	"fmt"
	"sync"

	"github.com/alecthomas/participle/v2"
)

var (
	buildOnce   sync.Once
	builtParser *participle.Parser[Program]
	buildErr    error
)

func parser() (*participle.Parser[Program], error) {
	buildOnce.Do(func() {
		builtParser, buildErr = participle.Build[Program](
			participle.Lexer(exprLexer),
			participle.Elide("Whitespace", "Comment"),
			participle.UseLookahead(3),
		)
	})
	return builtParser, buildErr
}

// ParseString parses source (identified as filename for diagnostics) into a
// Program, mirroring grammar.ParseFile's participle.Build/ParseString pair.
func ParseString(filename, source string) (*Program, error) {
	p, err := parser()
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}
	return p.ParseString(filename, source)
}
