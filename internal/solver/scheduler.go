// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package solver schedules library signups and book scans for one problem
// instance with a deterministic greedy simulation.
//
// Each simulated day first lets every signed-up library scan its best
// unscanned books, then advances the single signup slot. A Selector
// decides which library occupies the slot when it is free.
package solver

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/pdiddy/bookscan/pkg/types"
)

// Scheduler runs the day-by-day simulation. It holds no per-run state, so
// one Scheduler may solve several problems concurrently.
type Scheduler struct {
	strategy types.Strategy
	selector Selector
	log      zerolog.Logger
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger used for signup events at debug level.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scheduler) { s.log = l }
}

// WithSelector replaces the selector derived from the strategy name. The
// strategy name is still reported in solutions.
func WithSelector(sel Selector) Option {
	return func(s *Scheduler) { s.selector = sel }
}

// New returns a Scheduler using the named strategy. An unknown name yields
// an error wrapping ErrUnknownStrategy.
func New(strategy types.Strategy, opts ...Option) (*Scheduler, error) {
	sel, err := SelectorFor(strategy)
	if err != nil {
		return nil, err
	}
	s := &Scheduler{strategy: strategy, selector: sel, log: zerolog.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Strategy returns the configured strategy name.
func (s *Scheduler) Strategy() types.Strategy { return s.strategy }

// Solve simulates p from day 0 to its horizon and returns the scan plan.
// p is not modified. Library indices in p must equal their positions.
func (s *Scheduler) Solve(p *types.Problem) *types.Solution {
	st := newState(p)
	view := &View{st: st}

	slot := -1
	for st.day = 0; st.day < st.horizon; st.day++ {
		st.scan()
		slot = s.signup(st, view, slot)
	}

	sol := st.solution(p.Name, s.strategy)
	s.log.Debug().
		Str("problem", p.Name).
		Int("signed_up", sol.SignedUp).
		Int("books_scanned", sol.BooksScanned).
		Int("score", sol.Score).
		Msg("simulation finished")
	return sol
}

// signup advances the signup slot by one day and returns the library that
// occupies it afterwards, or -1 when it is free.
func (s *Scheduler) signup(st *state, v *View, slot int) int {
	if slot == -1 {
		if st.pending == 0 {
			return -1
		}
		slot = s.selector.Select(v)
		if slot == -1 {
			return -1
		}
		if slot < 0 || slot >= len(st.libs) || st.libs[slot].signedUp() {
			panic(fmt.Sprintf("solver: selector returned library %d which is not pending", slot))
		}
	}

	lib := &st.libs[slot]
	lib.remaining--
	if !lib.signedUp() {
		return slot
	}

	st.complete(slot)
	s.log.Debug().Int("library", lib.spec.Index).Int("day", st.day).Msg("library signed up")
	return -1
}
