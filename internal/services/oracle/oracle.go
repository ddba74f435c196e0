package oracle

import (
	"context"

	"github.com/mcoot/wordcrush/internal/model"
)

// Oracle decides whether a word exists
type Oracle interface {
	// Lookup never fails; transport problems are reported as LookupUnreachable
	Lookup(ctx context.Context, word string) model.LookupOutcome
}

// Func adapts a plain function to the Oracle interface
type Func func(ctx context.Context, word string) model.LookupOutcome

// Lookup calls f
func (f Func) Lookup(ctx context.Context, word string) model.LookupOutcome {
	return f(ctx, word)
}

// Fixed returns an Oracle that always gives the same answer
func Fixed(outcome model.LookupOutcome) Oracle {
	return Func(func(context.Context, string) model.LookupOutcome {
		return outcome
	})
}
