package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/BoardFit/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"
)

// dxfTolerance is the distance under which two DXF points are the same.
const dxfTolerance = 0.01

// point is a DXF vertex. X runs along the part length, Y along its width.
type point struct {
	x, y float64
}

// segment represents a line segment between two 2D points, used for
// chaining disconnected LINE entities into closed outlines.
type segment struct {
	start point
	end   point
}

// ImportDXF imports parts from a DXF file. Each closed axis-aligned
// rectangle, drawn as an LWPOLYLINE or as connected LINEs, becomes a part
// sized by its extent. Other closed shapes are skipped with a warning since
// only rectangles can be cut.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var outlines [][]point
	var segments []segment
	skipped := 0

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			outline, ok := lwPolylineToOutline(e)
			if !ok {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with arc segments")
				continue
			}
			if len(outline) >= 3 {
				outlines = append(outlines, outline)
			} else {
				result.Warnings = append(result.Warnings,
					"Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: point{x: e.Start[0], y: e.Start[1]},
				end:   point{x: e.End[0], y: e.End[1]},
			})

		default:
			skipped++
		}
	}
	if skipped > 0 {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Skipped %d unsupported entities", skipped))
	}

	outlines = append(outlines, chainSegments(segments, dxfTolerance)...)

	if len(outlines) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	partNum := 0
	for _, outline := range outlines {
		lo, hi := boundingBox(outline)
		length := hi.x - lo.x
		width := hi.y - lo.y

		if length < dxfTolerance || width < dxfTolerance {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f mm)", length, width))
			continue
		}
		if !isRectangle(outline) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("Skipped non-rectangular shape (%.2f x %.2f mm bounding box)", length, width))
			continue
		}

		partNum++
		result.Parts = append(result.Parts, model.NewPart(fmt.Sprintf("DXF-%d", partNum), length, width))
	}

	return result
}

// lwPolylineToOutline converts a DXF LWPOLYLINE entity to its vertices. It
// reports false when any vertex carries a bulge, which makes the edge an arc.
func lwPolylineToOutline(lw *entity.LwPolyline) ([]point, bool) {
	outline := make([]point, 0, len(lw.Vertices))
	for i, v := range lw.Vertices {
		if i < len(lw.Bulges) && math.Abs(lw.Bulges[i]) > 1e-9 {
			return nil, false
		}
		p := point{x: v[0], y: v[1]}
		// Drop repeated vertices, including an explicit closing vertex
		if len(outline) > 0 && pointsClose(outline[len(outline)-1], p, dxfTolerance) {
			continue
		}
		outline = append(outline, p)
	}
	if len(outline) > 1 && pointsClose(outline[0], outline[len(outline)-1], dxfTolerance) {
		outline = outline[:len(outline)-1]
	}
	return outline, true
}

// chainSegments connects individual segments into closed outlines. A chain
// stops as soon as it returns to its first point. Open chains are dropped.
// tolerance is the maximum distance between endpoints to consider them connected.
func chainSegments(segs []segment, tolerance float64) [][]point {
	if len(segs) == 0 {
		return nil
	}

	used := make([]bool, len(segs))
	var outlines [][]point

	for startIdx := range segs {
		if used[startIdx] {
			continue
		}

		chain := []point{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		closed := false
		for !closed {
			tail := chain[len(chain)-1]
			next := -1
			var nextPoint point
			for i, seg := range segs {
				if used[i] {
					continue
				}
				if pointsClose(tail, seg.start, tolerance) {
					next, nextPoint = i, seg.end
					break
				}
				if pointsClose(tail, seg.end, tolerance) {
					next, nextPoint = i, seg.start
					break
				}
			}
			if next < 0 {
				break
			}
			used[next] = true
			if len(chain) >= 3 && pointsClose(chain[0], nextPoint, tolerance) {
				closed = true
				continue
			}
			chain = append(chain, nextPoint)
		}

		if closed {
			outlines = append(outlines, chain)
		}
	}

	// Largest first for a stable part numbering
	sort.SliceStable(outlines, func(i, j int) bool {
		return outlineArea(outlines[i]) > outlineArea(outlines[j])
	})

	return outlines
}

// isRectangle reports whether a closed outline is an axis-aligned rectangle:
// every edge is horizontal or vertical and the enclosed area equals the
// bounding box area.
func isRectangle(o []point) bool {
	if len(o) < 4 {
		return false
	}
	for i := range o {
		a, b := o[i], o[(i+1)%len(o)]
		if math.Abs(a.x-b.x) > dxfTolerance && math.Abs(a.y-b.y) > dxfTolerance {
			return false
		}
	}
	lo, hi := boundingBox(o)
	box := (hi.x - lo.x) * (hi.y - lo.y)
	return math.Abs(outlineArea(o)-box) <= dxfTolerance*(hi.x-lo.x+hi.y-lo.y)
}

func boundingBox(o []point) (point, point) {
	lo, hi := o[0], o[0]
	for _, p := range o[1:] {
		lo.x, lo.y = math.Min(lo.x, p.x), math.Min(lo.y, p.y)
		hi.x, hi.y = math.Max(hi.x, p.x), math.Max(hi.y, p.y)
	}
	return lo, hi
}

// pointsClose checks whether two points are within the given tolerance.
func pointsClose(a, b point, tolerance float64) bool {
	return math.Hypot(a.x-b.x, a.y-b.y) <= tolerance
}

// outlineArea computes the absolute area of a polygon using the shoelace formula.
func outlineArea(o []point) float64 {
	n := len(o)
	if n < 3 {
		return 0
	}
	var area float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		area += o[i].x * o[j].y
		area -= o[j].x * o[i].y
	}
	return math.Abs(area) / 2
}
