package engine

import (
	"sort"

	"github.com/piwi3910/BoardFit/internal/model"
)

// candidate is a part as the board searches see it: the padded envelope and
// the position of the source part in the job.
type candidate struct {
	index  int
	length float64
	width  float64
	area   float64
}

// buildCandidates inflates every part by the padding and orders the result
// by area descending. Equal areas keep input order.
func buildCandidates(parts []model.Part, padL, padW float64) []candidate {
	cands := make([]candidate, len(parts))
	for i, p := range parts {
		env := p.Inflate(padL, padW)
		cands[i] = candidate{index: i, length: env.Length, width: env.Width, area: env.Area()}
	}
	sort.SliceStable(cands, func(a, b int) bool {
		return cands[a].area > cands[b].area
	})
	return cands
}

// step is one placed candidate with the envelope corner on the board.
type step struct {
	cand            int // position in the candidate slice
	dLength, dWidth float64
}

// boardPlan is the best arrangement found for one board in a round.
type boardPlan struct {
	steps []step
	area  float64 // envelope area covered
}

func (bp boardPlan) empty() bool {
	return len(bp.steps) == 0
}

// boardPacker fills a single board from the available candidates. available
// is shared by every worker of a round and must not be written.
type boardPacker interface {
	packBoard(board model.StockBoard, cands []candidate, available []bool) boardPlan
}

// guillotineSearch is the exact per-board packer: a depth-first search over
// every placement order that keeps the arrangement with the largest covered
// area.
type guillotineSearch struct {
	kerf float64

	// observe, when set, is called with each new best area of a board.
	observe func(board model.StockBoard, area float64)
}

func (g guillotineSearch) packBoard(board model.StockBoard, cands []candidate, available []bool) boardPlan {
	s := newBoardSearch(board, cands, available, g.kerf)
	if g.observe != nil {
		s.observe = func(area float64) { g.observe(board, area) }
	}
	s.search()
	return boardPlan{steps: s.best, area: s.bestArea}
}

// boardSearch holds the private state of one board's search.
type boardSearch struct {
	cands     []candidate
	available []bool
	kerf      float64
	boardArea float64

	arena  *regionArena
	inPath []bool
	path   []step
	sums   []float64 // sums[d] is the covered area after d steps
	rest   []float64 // rest[d] is the available area not yet on the path

	best     []step
	bestArea float64
	observe  func(area float64)
}

func newBoardSearch(board model.StockBoard, cands []candidate, available []bool, kerf float64) *boardSearch {
	n := len(cands)
	s := &boardSearch{
		cands:     cands,
		available: available,
		kerf:      kerf,
		boardArea: board.Area(),
		arena:     newRegionArena(board.Length, board.Width, 2*n+2),
		inPath:    make([]bool, n),
		path:      make([]step, 0, n),
		sums:      make([]float64, 1, n+1),
		rest:      make([]float64, 1, n+1),
	}
	for i, c := range cands {
		if available[i] {
			s.rest[0] += c.area
		}
	}
	return s
}

func (s *boardSearch) depth() int {
	return len(s.path)
}

// exhausted reports whether nothing below the current path can beat the
// best arrangement. The best only changes on a strict improvement, so the
// skipped subtrees could never have replaced it.
func (s *boardSearch) exhausted() bool {
	if s.bestArea >= s.boardArea {
		return true
	}
	d := s.depth()
	bound := s.sums[d] + s.rest[d]
	return bound*(1+1e-9) <= s.bestArea
}

func (s *boardSearch) search() {
	if s.exhausted() {
		return
	}

	lastL, lastW := -1.0, -1.0
	for i := range s.cands {
		if !s.available[i] || s.inPath[i] {
			continue
		}
		c := s.cands[i]
		// Equal-shaped parts are interchangeable: only the first one is tried here.
		if c.length == lastL && c.width == lastW {
			continue
		}
		lastL, lastW = c.length, c.width

		h, ok := s.arena.firstFit(c.length, c.width, c.area)
		if !ok {
			continue
		}
		s.place(i, h)
		if s.exhausted() {
			return
		}
	}
}

// place puts candidate i into region h, searches deeper and restores the
// search state on return.
func (s *boardSearch) place(i int, h handle) {
	c := s.cands[i]
	r := s.arena.at(h)

	s.push(i, r.dLength, r.dWidth)
	defer s.pop(i)

	if area := s.sums[s.depth()]; area > s.bestArea {
		s.record(area)
	}

	undo := s.arena.claim(h, c.length, c.width, s.kerf)
	defer s.arena.release(undo)

	s.search()
}

func (s *boardSearch) push(i int, dLength, dWidth float64) {
	d := s.depth()
	s.inPath[i] = true
	s.path = append(s.path, step{cand: i, dLength: dLength, dWidth: dWidth})
	s.sums = append(s.sums, s.sums[d]+s.cands[i].area)
	s.rest = append(s.rest, s.rest[d]-s.cands[i].area)
}

func (s *boardSearch) pop(i int) {
	d := s.depth()
	s.inPath[i] = false
	s.path = s.path[:d-1]
	s.sums = s.sums[:d]
	s.rest = s.rest[:d]
}

func (s *boardSearch) record(area float64) {
	s.best = append(s.best[:0], s.path...)
	s.bestArea = area
	if s.observe != nil {
		s.observe(area)
	}
}
