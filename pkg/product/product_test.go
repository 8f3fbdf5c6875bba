package product

import (
	"testing"

	"github.com/nummus/payoffscript/pkg/types"
)

func TestBuildEmptyProductErrors(t *testing.T) {
	_, err := Build(nil)
	assertErrorCode(t, err, types.ErrEmptyProduct)
}

func TestBuildEventInPastErrors(t *testing.T) {
	_, err := Build([]EventInput{{Date: 1, Text: "X = 1"}}, WithToday(2))
	assertErrorCode(t, err, types.ErrEventInPast)
}

func TestBuildConcatenatesDuplicateDates(t *testing.T) {
	p, err := Build([]EventInput{
		{Date: 1, Text: "X = 1"},
		{Date: 1, Text: "Y = 2"},
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if len(p.Events) != 1 {
		t.Fatalf("events = %d, want 1 (concatenated)", len(p.Events))
	}
	if len(p.Events[0].Stmts) != 2 {
		t.Fatalf("stmts = %d, want 2", len(p.Events[0].Stmts))
	}
}

func TestBuildSortsEventsByDate(t *testing.T) {
	p, err := Build([]EventInput{
		{Date: 2, Text: "Y = 1"},
		{Date: 1, Text: "X = 1"},
	})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if p.Events[0].Date != 1 || p.Events[1].Date != 2 {
		t.Fatalf("dates = %v, %v; want 1, 2", p.Events[0].Date, p.Events[1].Date)
	}
}

func TestBuildIndexesVariablesAndCompiles(t *testing.T) {
	p, err := Build([]EventInput{{Date: 1, Text: "RESULT PAYS SPOT()"}})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if p.NumVars() != 1 || p.VarNames[0] != "RESULT" {
		t.Fatalf("VarNames = %v, want [RESULT]", p.VarNames)
	}
	if !p.Events[0].Compiled() {
		t.Error("event was not compiled")
	}
}

func TestBuildPropagatesParseErrors(t *testing.T) {
	_, err := Build([]EventInput{{Date: 1, Text: "X ="}})
	if err == nil {
		t.Fatal("expected a parse error")
	}
}

func TestBuildEliminatesConstantCondition(t *testing.T) {
	p, err := Build([]EventInput{{Date: 1, Text: "IF 1 = 1 THEN X = 1 ELSE X = 2 ENDIF"}})
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if types.CountIfNodes(p.Events[0].Stmts[0]) != 0 {
		t.Error("expected the always-true If to be eliminated")
	}
}

func assertErrorCode(t *testing.T, err error, code types.ErrorCode) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected an error with code %s, got nil", code)
	}
	perr, ok := err.(*types.Error)
	if !ok {
		t.Fatalf("error is not *types.Error: %v", err)
	}
	if perr.Code != code {
		t.Fatalf("code = %v, want %v", perr.Code, code)
	}
}
