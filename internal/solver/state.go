// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package solver

import (
	"cmp"
	"slices"

	"github.com/pdiddy/bookscan/pkg/types"
)

// library is the simulation entity for one catalog library: the immutable
// catalog plus its signup countdown and result accumulator.
type library struct {
	spec *types.Library

	// books holds the catalog book indices sorted once by descending score.
	// Equal scores keep input order.
	books []int

	// remaining counts signup days left; the library is signed up at 0.
	remaining int

	// cursor is the first position in books that may still be unscanned.
	// Every book before it is scanned.
	cursor int

	// scan is the scanned view, nil until signup completes.
	scan *types.LibraryScan
}

func (l *library) signedUp() bool { return l.remaining == 0 }

// state is the per-run arena. scanned is the only copy of the scanned
// flag; libraries refer to books by index.
type state struct {
	horizon int
	day     int
	scores  []int
	scanned []bool
	libs    []library

	// results holds scanned views in signup completion order.
	results []*types.LibraryScan

	// active lists signed-up libraries that still hold unscanned books,
	// sorted by catalog index.
	active []int

	// pending counts libraries that have not completed signup.
	pending int
}

func newState(p *types.Problem) *state {
	st := &state{
		horizon: p.Horizon,
		scores:  make([]int, len(p.Books)),
		scanned: make([]bool, len(p.Books)),
		libs:    make([]library, len(p.Libraries)),
		pending: len(p.Libraries),
	}
	for _, b := range p.Books {
		st.scores[b.Index] = b.Score
	}

	for i := range p.Libraries {
		spec := &p.Libraries[i]
		books := slices.Clone(spec.Books)
		slices.SortStableFunc(books, func(a, b int) int {
			return cmp.Compare(st.scores[b], st.scores[a])
		})
		st.libs[i] = library{spec: spec, books: books, remaining: spec.SignupTime}
	}

	// Libraries without a signup cost are ready before the first day.
	for i := range st.libs {
		if st.libs[i].signedUp() {
			st.complete(i)
		}
	}
	return st
}

// complete marks library i as signed up and opens its scanned view.
func (st *state) complete(i int) {
	lib := &st.libs[i]
	lib.scan = &types.LibraryScan{Index: lib.spec.Index, Books: make([]int, 0, lib.spec.BookCapacity)}
	st.results = append(st.results, lib.scan)
	st.pending--

	pos, _ := slices.BinarySearch(st.active, i)
	st.active = slices.Insert(st.active, pos, i)
}

// scan runs one day of scanning for every signed-up library, in catalog
// order. Each library takes its best ParallelBooks books not yet scanned
// anywhere.
func (st *state) scan() {
	kept := st.active[:0]
	for _, i := range st.active {
		lib := &st.libs[i]
		taken := 0
		j := lib.cursor
		for ; j < len(lib.books) && taken < lib.spec.ParallelBooks; j++ {
			b := lib.books[j]
			if st.scanned[b] {
				continue
			}
			st.scanned[b] = true
			lib.scan.Books = append(lib.scan.Books, b)
			taken++
		}
		lib.cursor = j
		if lib.cursor < len(lib.books) {
			kept = append(kept, i)
		}
	}
	st.active = kept
}

// unscannedScore sums the scores of the best n unscanned books of library i.
func (st *state) unscannedScore(i, n int) int {
	lib := &st.libs[i]
	total := 0
	for j := lib.cursor; j < len(lib.books) && n > 0; j++ {
		b := lib.books[j]
		if st.scanned[b] {
			continue
		}
		total += st.scores[b]
		n--
	}
	return total
}

// solution assembles the deliverable: scanned views holding at least one
// book, in result order.
func (st *state) solution(name string, strategy types.Strategy) *types.Solution {
	sol := &types.Solution{
		Problem:   name,
		Strategy:  strategy,
		Libraries: []types.LibraryScan{},
		SignedUp:  len(st.results),
	}
	for _, r := range st.results {
		if len(r.Books) == 0 {
			continue
		}
		sol.Libraries = append(sol.Libraries, *r)
		sol.BooksScanned += len(r.Books)
		for _, b := range r.Books {
			sol.Score += st.scores[b]
		}
	}
	return sol
}
