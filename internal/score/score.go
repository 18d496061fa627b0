// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score validates a scan plan against its problem and computes the
// score a judge would award.
//
// Libraries sign up one after another in the order they are listed. A
// library whose signup ends on day d scans ParallelBooks books per day from
// day d on. Books that do not fit before the horizon, and books already
// scanned by an earlier library, do not score.
package score

import (
	"fmt"

	"github.com/pdiddy/bookscan/pkg/types"
)

// ValidationError reports a plan that breaks the submission rules.
type ValidationError struct {
	// Position is the 0-based position of the offending entry in the plan.
	Position int
	Msg      string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid plan entry %d: %s", e.Position, e.Msg)
}

// Report summarizes an evaluated plan.
type Report struct {
	Score int `json:"score" yaml:"score"`

	// Libraries is the number of plan entries.
	Libraries int `json:"libraries" yaml:"libraries"`

	// ScoredBooks counts books that were scanned in time and counted once.
	ScoredBooks int `json:"scored_books" yaml:"scored_books"`

	// LateBooks counts listed books the library had no time to scan.
	LateBooks int `json:"late_books" yaml:"late_books"`

	// DuplicateBooks counts books already scanned by an earlier library.
	DuplicateBooks int `json:"duplicate_books" yaml:"duplicate_books"`

	// LastSignupDay is the day the last listed library finished signup.
	LastSignupDay int `json:"last_signup_day" yaml:"last_signup_day"`
}

// Evaluate replays plan against p and returns its report. It fails with a
// *ValidationError on unknown or repeated libraries and on books a library
// does not hold or lists twice.
func Evaluate(p *types.Problem, plan []types.LibraryScan) (Report, error) {
	rep := Report{Libraries: len(plan)}
	scanned := make([]bool, len(p.Books))
	usedLib := make([]bool, len(p.Libraries))
	// held[b] == pos+1 marks book b as held by the library at plan position pos;
	// listed[b] == pos+1 marks it as already listed at that position.
	held := make([]int, len(p.Books))
	listed := make([]int, len(p.Books))

	day := 0
	for pos, entry := range plan {
		if entry.Index < 0 || entry.Index >= len(p.Libraries) {
			return Report{}, &ValidationError{Position: pos, Msg: fmt.Sprintf("unknown library %d", entry.Index)}
		}
		if usedLib[entry.Index] {
			return Report{}, &ValidationError{Position: pos, Msg: fmt.Sprintf("library %d listed more than once", entry.Index)}
		}
		usedLib[entry.Index] = true

		lib := p.Libraries[entry.Index]
		for _, b := range lib.Books {
			held[b] = pos + 1
		}

		day += lib.SignupTime
		rep.LastSignupDay = day
		capacity := 0
		if day < p.Horizon {
			capacity = (p.Horizon - day) * lib.ParallelBooks
		}

		for k, b := range entry.Books {
			if b < 0 || b >= len(p.Books) || held[b] != pos+1 {
				return Report{}, &ValidationError{Position: pos, Msg: fmt.Sprintf("library %d does not hold book %d", entry.Index, b)}
			}
			if listed[b] == pos+1 {
				return Report{}, &ValidationError{Position: pos, Msg: fmt.Sprintf("library %d lists book %d twice", entry.Index, b)}
			}
			listed[b] = pos + 1

			switch {
			case k >= capacity:
				rep.LateBooks++
			case scanned[b]:
				rep.DuplicateBooks++
			default:
				scanned[b] = true
				rep.ScoredBooks++
				rep.Score += p.Books[b].Score
			}
		}
	}
	return rep, nil
}
