// Package parser implements the recursive-descent parser for the payoff
// scripting grammar (spec §4.2): IF/THEN/ELSE/ENDIF statements, PAYS/
// assignment statements, and the Cond/Expr precedence chain, tokenized by
// Lexer.
package parser

import (
	"github.com/nummus/payoffscript/pkg/types"
)

// ParseOptions configures Parse.
type ParseOptions struct {
	// MaxDepth is recorded on the Parser (default 500). No parsing method
	// reads it, so expression nesting depth is not limited.
	MaxDepth int
}

// ParseOption configures a ParseOptions.
type ParseOption func(*ParseOptions)

// WithMaxDepth sets ParseOptions.MaxDepth.
func WithMaxDepth(depth int) ParseOption {
	return func(o *ParseOptions) { o.MaxDepth = depth }
}

// Parse tokenizes and parses text as a sequence of statements — one
// event's worth of script text, per spec §6.
func Parse(text string, opts ...ParseOption) ([]*types.Node, error) {
	return NewParser(text, opts...).Parse()
}
