package unit_test

import (
	"errors"
	"testing"

	"github.com/nummus/payoffscript/pkg/parser"
	"github.com/nummus/payoffscript/pkg/types"
)

func parseOne(t *testing.T, text string) *types.Node {
	t.Helper()
	stmts, err := parser.Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", text, err)
	}
	if len(stmts) != 1 {
		t.Fatalf("Parse(%q) = %d statements, want 1", text, len(stmts))
	}
	return stmts[0]
}

func TestParserAssignStatement(t *testing.T) {
	n := parseOne(t, "X = 1 + 2")
	if n.Kind != types.KindAssign {
		t.Fatalf("kind = %v, want KindAssign", n.Kind)
	}
	if n.Lhs().Name != "X" {
		t.Errorf("lhs name = %q, want X", n.Lhs().Name)
	}
	if n.Rhs().Kind != types.KindAdd {
		t.Errorf("rhs kind = %v, want KindAdd", n.Rhs().Kind)
	}
}

func TestParserPaysStatement(t *testing.T) {
	n := parseOne(t, "RESULT PAYS 100")
	if n.Kind != types.KindPays {
		t.Fatalf("kind = %v, want KindPays", n.Kind)
	}
	if n.Lhs().Name != "RESULT" {
		t.Errorf("lhs name = %q, want RESULT", n.Lhs().Name)
	}
}

func TestParserIfThenEndif(t *testing.T) {
	n := parseOne(t, "IF SPOT() > 100 THEN X = 1 ENDIF")
	if n.Kind != types.KindIf {
		t.Fatalf("kind = %v, want KindIf", n.Kind)
	}
	if n.FirstElse != -1 {
		t.Errorf("FirstElse = %d, want -1 (no else)", n.FirstElse)
	}
	if len(n.ThenStmts()) != 1 {
		t.Errorf("then stmts = %d, want 1", len(n.ThenStmts()))
	}
	if n.Cond().Kind != types.KindSup {
		t.Errorf("cond kind = %v, want KindSup", n.Cond().Kind)
	}
}

func TestParserIfThenElseEndif(t *testing.T) {
	n := parseOne(t, "IF X = 1 THEN Y = 1 ELSE Y = 2 ENDIF")
	if n.FirstElse < 0 {
		t.Fatal("expected an else-block")
	}
	if len(n.ThenStmts()) != 1 || len(n.ElseStmts()) != 1 {
		t.Errorf("then=%d else=%d, want 1/1", len(n.ThenStmts()), len(n.ElseStmts()))
	}
}

func TestParserNotEqualBuildsNotOfEqual(t *testing.T) {
	n := parseOne(t, "IF X != 1 THEN Y = 1 ENDIF")
	cond := n.Cond()
	if cond.Kind != types.KindNot {
		t.Fatalf("cond kind = %v, want KindNot", cond.Kind)
	}
	if cond.Lhs().Kind != types.KindEqual {
		t.Errorf("inner kind = %v, want KindEqual", cond.Lhs().Kind)
	}
}

func TestParserLessThanSwapsOperandsIntoSup(t *testing.T) {
	n := parseOne(t, "IF X < Y THEN Z = 1 ENDIF")
	cond := n.Cond()
	if cond.Kind != types.KindSup {
		t.Fatalf("kind = %v, want KindSup", cond.Kind)
	}
	sub := cond.Lhs()
	if sub.Kind != types.KindSub {
		t.Fatalf("inner kind = %v, want KindSub", sub.Kind)
	}
	if sub.Lhs().Name != "Y" || sub.Rhs().Name != "X" {
		t.Errorf("operands = %s, %s; want Y, X (swapped)", sub.Lhs().Name, sub.Rhs().Name)
	}
}

func TestParserFuzzyEpsilonSuffix(t *testing.T) {
	n := parseOne(t, "IF X = 1 ; 0.5 THEN Y = 1 ENDIF")
	cond := n.Cond()
	if cond.Eps != 0.5 {
		t.Errorf("Eps = %v, want 0.5", cond.Eps)
	}
}

func TestParserFuzzyEpsilonMustBeConstant(t *testing.T) {
	_, err := parser.Parse("IF X = 1 ; Y THEN Z = 1 ENDIF")
	if err == nil {
		t.Fatal("expected an error for a non-constant epsilon")
	}
}

func TestParserAndOrPrecedence(t *testing.T) {
	n := parseOne(t, "IF X = 1 AND Y = 1 OR Z = 1 THEN W = 1 ENDIF")
	cond := n.Cond()
	if cond.Kind != types.KindOr {
		t.Fatalf("top kind = %v, want KindOr (AND binds tighter)", cond.Kind)
	}
	if cond.Lhs().Kind != types.KindAnd {
		t.Errorf("lhs kind = %v, want KindAnd", cond.Lhs().Kind)
	}
}

func TestParserParenthesizedCondGroup(t *testing.T) {
	n := parseOne(t, "IF (X = 1 OR Y = 1) AND Z = 1 THEN W = 1 ENDIF")
	cond := n.Cond()
	if cond.Kind != types.KindAnd {
		t.Fatalf("top kind = %v, want KindAnd", cond.Kind)
	}
	if cond.Lhs().Kind != types.KindOr {
		t.Errorf("lhs kind = %v, want KindOr (from parenthesized group)", cond.Lhs().Kind)
	}
}

func TestParserMinMaxCanonicalizeToLeftDeepBinary(t *testing.T) {
	n := parseOne(t, "X = MAX(1, 2, 3)")
	rhs := n.Rhs()
	if rhs.Kind != types.KindMax {
		t.Fatalf("kind = %v, want KindMax", rhs.Kind)
	}
	inner := rhs.Lhs()
	if inner.Kind != types.KindMax {
		t.Fatalf("left child kind = %v, want KindMax (left-deep)", inner.Kind)
	}
	if inner.Lhs().ConstVal != 1 || inner.Rhs().ConstVal != 2 {
		t.Errorf("innermost operands = %v, %v; want 1, 2", inner.Lhs().ConstVal, inner.Rhs().ConstVal)
	}
	if rhs.Rhs().ConstVal != 3 {
		t.Errorf("outer rhs = %v, want 3", rhs.Rhs().ConstVal)
	}
}

func TestParserSmoothRequiresFourArgs(t *testing.T) {
	_, err := parser.Parse("X = SMOOTH(1, 2, 3)")
	if err == nil {
		t.Fatal("expected an arity error")
	}
	var perr *types.Error
	if !errors.As(err, &perr) {
		t.Fatalf("error is not *types.Error: %v", err)
	}
	if perr.Code != types.ErrArity {
		t.Errorf("code = %v, want ErrArity", perr.Code)
	}
}

func TestParserUnknownFunctionErrors(t *testing.T) {
	_, err := parser.Parse("X = FROB(1)")
	var perr *types.Error
	if !errors.As(err, &perr) {
		t.Fatalf("error is not *types.Error: %v", err)
	}
	if perr.Code != types.ErrUnknownFunction {
		t.Errorf("code = %v, want ErrUnknownFunction", perr.Code)
	}
}

func TestParserUnbalancedParenErrors(t *testing.T) {
	_, err := parser.Parse("X = (1 + 2")
	if err == nil {
		t.Fatal("expected a parse error for an unbalanced paren")
	}
}

func TestParserMissingThenErrors(t *testing.T) {
	_, err := parser.Parse("IF X = 1 Y = 1 ENDIF")
	if err == nil {
		t.Fatal("expected a parse error for missing THEN")
	}
}

func TestParserMissingEndifErrors(t *testing.T) {
	_, err := parser.Parse("IF X = 1 THEN Y = 1")
	if err == nil {
		t.Fatal("expected a parse error for missing ENDIF")
	}
}

func TestParserUnaryMinusChain(t *testing.T) {
	n := parseOne(t, "X = --5")
	rhs := n.Rhs()
	if rhs.Kind != types.KindUminus {
		t.Fatalf("kind = %v, want KindUminus", rhs.Kind)
	}
	if rhs.Lhs().Kind != types.KindUminus {
		t.Errorf("inner kind = %v, want KindUminus", rhs.Lhs().Kind)
	}
}

func TestParserSpotZeroArity(t *testing.T) {
	n := parseOne(t, "X = SPOT()")
	if n.Rhs().Kind != types.KindSpot {
		t.Fatalf("kind = %v, want KindSpot", n.Rhs().Kind)
	}
}
