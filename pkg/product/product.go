// Package product stitches the full analysis pipeline together: it turns
// a date-ordered mapping of event text into a compiled types.Product,
// running parse -> index -> ifscope -> domainproc -> constcond -> constfold
// -> compile in order (spec §4, §6).
package product

import (
	"log/slog"
	"sort"

	"github.com/nummus/payoffscript/pkg/compiler"
	"github.com/nummus/payoffscript/pkg/constcond"
	"github.com/nummus/payoffscript/pkg/constfold"
	"github.com/nummus/payoffscript/pkg/domainproc"
	"github.com/nummus/payoffscript/pkg/ifscope"
	"github.com/nummus/payoffscript/pkg/indexer"
	"github.com/nummus/payoffscript/pkg/parser"
	"github.com/nummus/payoffscript/pkg/types"
)

// BuildOptions configures Build.
type BuildOptions struct {
	Today         types.Date
	Fuzzy         bool
	SkipIfProcess bool
	SkipConstFold bool
	Logger        *slog.Logger
	ParserOptions []parser.ParseOption
}

// BuildOption configures a BuildOptions.
type BuildOption func(*BuildOptions)

// WithToday sets the valuation date used by the EventInPast check.
func WithToday(today types.Date) BuildOption {
	return func(o *BuildOptions) { o.Today = today }
}

// WithFuzzy switches the domain processor into fuzzy-annotation mode,
// populating the Discrete/LB/RB metadata the fuzzy evaluator needs.
func WithFuzzy(fuzzy bool) BuildOption {
	return func(o *BuildOptions) { o.Fuzzy = fuzzy }
}

// WithoutIfProcess skips the const-condition elimination pass, useful for
// tests or tools that want to inspect the unrewritten If tree.
func WithoutIfProcess() BuildOption {
	return func(o *BuildOptions) { o.SkipIfProcess = true }
}

// WithoutConstFold skips the const-folding pass.
func WithoutConstFold() BuildOption {
	return func(o *BuildOptions) { o.SkipConstFold = true }
}

// WithLogger attaches a logger the domain processor uses to record one
// Debug entry for each If whose two branch domains it merges.
func WithLogger(logger *slog.Logger) BuildOption {
	return func(o *BuildOptions) { o.Logger = logger }
}

// WithParserOptions forwards options to every per-event parser.Parse call.
func WithParserOptions(opts ...parser.ParseOption) BuildOption {
	return func(o *BuildOptions) { o.ParserOptions = opts }
}

// EventInput is one entry of the ordered Date -> event-text mapping Build
// accepts. It is a slice rather than a map so that repeated dates survive
// to the duplicate-date concatenation step.
type EventInput struct {
	Date types.Date
	Text string
}

// Build turns an ordered Date -> event-text mapping into a compiled
// Product. Duplicate dates concatenate their text (space-separated) into
// a single event before parsing (spec §6). It returns ErrEmptyProduct if
// inputs is empty, and ErrEventInPast if the earliest date precedes Today.
func Build(inputs []EventInput, opts ...BuildOption) (*types.Product, error) {
	options := BuildOptions{Logger: slog.Default()}
	for _, o := range opts {
		o(&options)
	}

	if len(inputs) == 0 {
		return nil, types.NewError(types.ErrEmptyProduct, "product has no events")
	}

	text := make(map[types.Date]string, len(inputs))
	dates := make([]types.Date, 0, len(inputs))
	for _, in := range inputs {
		if existing, ok := text[in.Date]; ok {
			text[in.Date] = existing + " " + in.Text
			continue
		}
		text[in.Date] = in.Text
		dates = append(dates, in.Date)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })

	if dates[0] < options.Today {
		return nil, types.NewError(types.ErrEventInPast, "event date precedes the valuation date")
	}

	product := &types.Product{}
	for _, d := range dates {
		stmts, err := parser.Parse(text[d], options.ParserOptions...)
		if err != nil {
			return nil, err
		}
		product.Events = append(product.Events, &types.Event{Date: d, Stmts: stmts})
	}

	product.VarNames = indexer.Index(product.Events)
	product.MaxNestedIfs = ifscope.Analyze(product.Events)

	if err := domainproc.Process(product, options.Fuzzy, options.Logger); err != nil {
		return nil, err
	}
	if !options.SkipIfProcess {
		constcond.Process(product)
	}
	if !options.SkipConstFold {
		constfold.Process(product)
	}
	compiler.Compile(product)

	return product, nil
}
