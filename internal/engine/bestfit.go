package engine

import (
	"github.com/piwi3910/BoardFit/internal/model"
)

// bestFitPacker is the greedy per-board packer. Candidates are taken largest
// first and each goes into the free rectangle that leaves the least area
// over (Best Area Fit). Free space is tracked as maximal rectangles, so a
// layout is kerf-separated and overlap-free but not always cuttable with
// edge-to-edge guillotine cuts.
type bestFitPacker struct {
	kerf float64
}

func (bp bestFitPacker) packBoard(board model.StockBoard, cands []candidate, available []bool) boardPlan {
	order := make([]int, 0, len(cands))
	for i := range cands {
		if available[i] {
			order = append(order, i)
		}
	}
	return bp.packOrdered(board, cands, order)
}

// packOrdered places the candidates at the given positions in that order,
// skipping any that no longer fit.
func (bp bestFitPacker) packOrdered(board model.StockBoard, cands []candidate, order []int) boardPlan {
	fr := newFreeRects(board, bp.kerf)
	var plan boardPlan
	for _, i := range order {
		c := cands[i]
		if ok, dl, dw := fr.insert(c.length, c.width); ok {
			plan.steps = append(plan.steps, step{cand: i, dLength: dl, dWidth: dw})
			plan.area += c.area
		}
	}
	return plan
}

type rect struct {
	dLength, dWidth float64
	length, width   float64
}

func (r rect) endLength() float64 { return r.dLength + r.length }
func (r rect) endWidth() float64  { return r.dWidth + r.width }

// freeRects holds the maximal free rectangles of one board.
type freeRects struct {
	rects         []rect
	kerf          float64
	length, width float64 // board size
}

func newFreeRects(board model.StockBoard, kerf float64) *freeRects {
	return &freeRects{
		rects:  []rect{{length: board.Length, width: board.Width}},
		kerf:   kerf,
		length: board.Length,
		width:  board.Width,
	}
}

// reserve returns the footprint a part of the given size takes inside r: the
// part plus one kerf on its far edges, except where r ends at the board edge.
func (fr *freeRects) reserve(r rect, length, width float64) (float64, float64, bool) {
	if length > r.length || width > r.width {
		return 0, 0, false
	}
	rl, rw := length+fr.kerf, width+fr.kerf
	if rl > r.length {
		if r.endLength() < fr.length {
			return 0, 0, false
		}
		rl = r.length
	}
	if rw > r.width {
		if r.endWidth() < fr.width {
			return 0, 0, false
		}
		rw = r.width
	}
	return rl, rw, true
}

// insert tries to place a part of the given size. Returns success and the
// corner position.
func (fr *freeRects) insert(length, width float64) (bool, float64, float64) {
	bestIdx := -1
	bestAreaFit := -1.0
	var bestL, bestW float64

	for i, r := range fr.rects {
		rl, rw, ok := fr.reserve(r, length, width)
		if !ok {
			continue
		}
		areaFit := r.length*r.width - length*width
		if bestIdx < 0 || areaFit < bestAreaFit {
			bestIdx = i
			bestAreaFit = areaFit
			bestL, bestW = rl, rw
		}
	}

	if bestIdx < 0 {
		return false, 0, 0
	}

	chosen := fr.rects[bestIdx]
	fr.splitAround(rect{dLength: chosen.dLength, dWidth: chosen.dWidth, length: bestL, width: bestW})
	return true, chosen.dLength, chosen.dWidth
}

// splitAround removes every free rect that overlaps the placed footprint and
// replaces it with up to four maximal strips around it, then prunes rects
// contained in others.
func (fr *freeRects) splitAround(placed rect) {
	var next []rect

	for _, r := range fr.rects {
		if !rectsOverlap(r, placed) {
			next = append(next, r)
			continue
		}

		// Strip before the part on the length axis (full width of r)
		if placed.dLength > r.dLength {
			next = append(next, rect{
				dLength: r.dLength, dWidth: r.dWidth,
				length: placed.dLength - r.dLength, width: r.width,
			})
		}
		// Strip past the part on the length axis
		if placed.endLength() < r.endLength() {
			next = append(next, rect{
				dLength: placed.endLength(), dWidth: r.dWidth,
				length: r.endLength() - placed.endLength(), width: r.width,
			})
		}
		// Strip before the part on the width axis (full length of r)
		if placed.dWidth > r.dWidth {
			next = append(next, rect{
				dLength: r.dLength, dWidth: r.dWidth,
				length: r.length, width: placed.dWidth - r.dWidth,
			})
		}
		// Strip past the part on the width axis
		if placed.endWidth() < r.endWidth() {
			next = append(next, rect{
				dLength: r.dLength, dWidth: placed.endWidth(),
				length: r.length, width: r.endWidth() - placed.endWidth(),
			})
		}
	}

	fr.rects = pruneContained(next)
}

// rectsOverlap returns true if two rectangles overlap (not just touch).
func rectsOverlap(a, b rect) bool {
	return a.dLength < b.endLength() && a.endLength() > b.dLength &&
		a.dWidth < b.endWidth() && a.endWidth() > b.dWidth
}

// pruneContained removes any rect that is fully contained within another.
// Of two identical rects the first is kept.
func pruneContained(rects []rect) []rect {
	if len(rects) <= 1 {
		return rects
	}
	kept := make([]rect, 0, len(rects))
	for i, a := range rects {
		contained := false
		for j, b := range rects {
			if i == j || !containsRect(b, a) {
				continue
			}
			if a == b && j > i {
				continue
			}
			contained = true
			break
		}
		if !contained {
			kept = append(kept, a)
		}
	}
	return kept
}

// containsRect returns true if outer fully contains inner.
func containsRect(outer, inner rect) bool {
	return outer.dLength <= inner.dLength && outer.dWidth <= inner.dWidth &&
		outer.endLength() >= inner.endLength() &&
		outer.endWidth() >= inner.endWidth()
}
