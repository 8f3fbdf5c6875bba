package unit_test

import (
	"testing"

	"github.com/nummus/payoffscript/pkg/parser"
)

func lexAll(t *testing.T, input string) []parser.Token {
	t.Helper()
	lex := parser.NewLexer(input)
	var toks []parser.Token
	for {
		tok := lex.Next()
		toks = append(toks, tok)
		if tok.Type == parser.TokEOF || tok.Type == parser.TokError {
			return toks
		}
	}
}

func TestLexerUppercasesIdentifiers(t *testing.T) {
	toks := lexAll(t, "spot pays x1.y_2")
	want := []string{"SPOT", "PAYS", "X1.Y_2"}
	for i, w := range want {
		if toks[i].Text != w {
			t.Errorf("token[%d] = %q, want %q", i, toks[i].Text, w)
		}
	}
}

func TestLexerNumbers(t *testing.T) {
	toks := lexAll(t, "100 3.14 0.5")
	want := []float64{100, 3.14, 0.5}
	for i, w := range want {
		if toks[i].Type != parser.TokNumber {
			t.Fatalf("token[%d] type = %v, want TokNumber", i, toks[i].Type)
		}
		if toks[i].Num != w {
			t.Errorf("token[%d] = %v, want %v", i, toks[i].Num, w)
		}
	}
}

func TestLexerMultiCharComparators(t *testing.T) {
	toks := lexAll(t, "!= >= <= < > =")
	want := []parser.TokenType{
		parser.TokNotEqual, parser.TokGreaterEqual, parser.TokLessEqual,
		parser.TokLess, parser.TokGreater, parser.TokEqual,
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token[%d] type = %v, want %v", i, toks[i].Type, w)
		}
	}
}

func TestLexerSingleCharOperators(t *testing.T) {
	toks := lexAll(t, "+-*/^(),;:")
	want := []parser.TokenType{
		parser.TokPlus, parser.TokMinus, parser.TokStar, parser.TokSlash, parser.TokCaret,
		parser.TokLParen, parser.TokRParen, parser.TokComma, parser.TokSemicolon, parser.TokColon,
	}
	for i, w := range want {
		if toks[i].Type != w {
			t.Errorf("token[%d] type = %v, want %v", i, toks[i].Type, w)
		}
	}
}

func TestLexerWhitespaceIsSkipped(t *testing.T) {
	toks := lexAll(t, "  X  =  1  ")
	if len(toks) != 4 { // X, =, 1, EOF
		t.Fatalf("got %d tokens, want 4: %v", len(toks), toks)
	}
	if toks[0].Pos != 2 {
		t.Errorf("first token position = %d, want 2", toks[0].Pos)
	}
}

func TestLexerUnknownCharacterErrors(t *testing.T) {
	toks := lexAll(t, "X @ Y")
	found := false
	for _, tok := range toks {
		if tok.Type == parser.TokError {
			found = true
		}
	}
	if !found {
		t.Error("expected a TokError for '@'")
	}
}
