// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package solver

import (
	"errors"
	"fmt"
	"iter"

	"github.com/pdiddy/bookscan/pkg/types"
)

// ErrUnknownStrategy is returned when a strategy name has no Selector.
var ErrUnknownStrategy = errors.New("unknown signup strategy")

// Selector picks the next library to start signing up. Select returns the
// catalog index of the chosen library, or -1 when none should start.
// Implementations must be stateless: one Selector serves concurrent runs.
type Selector interface {
	Select(v *View) int
}

// SelectorFunc adapts a function to the Selector interface.
type SelectorFunc func(v *View) int

// Select calls f(v).
func (f SelectorFunc) Select(v *View) int { return f(v) }

// View is the read-only window a Selector gets on the running simulation.
type View struct {
	st *state
}

// Day returns the current simulated day.
func (v *View) Day() int { return v.st.day }

// Horizon returns the total number of simulated days.
func (v *View) Horizon() int { return v.st.horizon }

// Remaining returns the days left including the current one.
func (v *View) Remaining() int { return v.st.horizon - v.st.day }

// Pending yields every library that has not signed up, in catalog order.
func (v *View) Pending() iter.Seq[*types.Library] {
	return func(yield func(*types.Library) bool) {
		for i := range v.st.libs {
			lib := &v.st.libs[i]
			if lib.signedUp() {
				continue
			}
			if !yield(lib.spec) {
				return
			}
		}
	}
}

// UnscannedScore sums the scores of the n highest scoring books of library
// idx that no library has scanned yet.
func (v *View) UnscannedScore(idx, n int) int {
	return v.st.unscannedScore(idx, n)
}

// SelectorFor returns the Selector registered for strategy.
func SelectorFor(strategy types.Strategy) (Selector, error) {
	switch strategy {
	case types.StrategyThroughput:
		return SelectorFunc(selectMaxThroughput), nil
	case types.StrategyScore:
		return SelectorFunc(selectMaxScore), nil
	case types.StrategySignup:
		return SelectorFunc(selectMinSignup), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// scanWindow is the number of days library lib could scan if it started
// signing up now. It is negative when signup would overrun the horizon.
func scanWindow(v *View, lib *types.Library) int {
	return v.Remaining() - lib.SignupTime
}

// selectMaxThroughput maximizes the theoretical number of books scannable
// after signup: ParallelBooks * scanWindow. Ties keep the first library.
func selectMaxThroughput(v *View) int {
	best, bestVal := -1, 0
	for lib := range v.Pending() {
		val := lib.ParallelBooks * scanWindow(v, lib)
		if best == -1 || val > bestVal {
			best, bestVal = lib.Index, val
		}
	}
	return best
}

// selectMaxScore maximizes the score actually reachable: the best
// ParallelBooks * scanWindow unscanned books of the library.
func selectMaxScore(v *View) int {
	best, bestVal := -1, 0
	for lib := range v.Pending() {
		n := lib.ParallelBooks * max(scanWindow(v, lib), 0)
		val := v.UnscannedScore(lib.Index, n)
		if best == -1 || val > bestVal {
			best, bestVal = lib.Index, val
		}
	}
	return best
}

// selectMinSignup onboards the library with the shortest signup first.
func selectMinSignup(v *View) int {
	best, bestVal := -1, 0
	for lib := range v.Pending() {
		if best == -1 || lib.SignupTime < bestVal {
			best, bestVal = lib.Index, lib.SignupTime
		}
	}
	return best
}
