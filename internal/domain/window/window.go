// Package window computes which rows of a long list must be materialized to
// fill a scrollable viewport, plus the spacer heights that stand in for the
// rest.
package window

// Geometry is the result of a window computation. Heights are in the same
// unit as RowHeight (pixels in a browser, lines in a terminal).
//
// For a non-empty window the invariant
//
//	PaddingTop + Rendered()*RowHeight + PaddingBottom == TotalRows*RowHeight
//
// always holds.
type Geometry struct {
	RowHeight     int `json:"row_height"`
	TotalRows     int `json:"total_rows"`
	Overscan      int `json:"overscan"`
	ScrollOffset  int `json:"scroll_offset"` // offset after clamping into the scrollable range
	StartIndex    int `json:"start_index"`
	EndIndex      int `json:"end_index"` // inclusive; -1 when the window is empty
	PaddingTop    int `json:"padding_top"`
	PaddingBottom int `json:"padding_bottom"`
}

// Empty reports whether no rows need to be rendered.
func (g Geometry) Empty() bool {
	return g.EndIndex < g.StartIndex
}

// Rendered is the number of rows inside [StartIndex, EndIndex].
func (g Geometry) Rendered() int {
	if g.Empty() {
		return 0
	}
	return g.EndIndex - g.StartIndex + 1
}

// TotalHeight is the full scroll extent of the list.
func (g Geometry) TotalHeight() int {
	return g.TotalRows * g.RowHeight
}

// Contains reports whether row index i is materialized.
func (g Geometry) Contains(i int) bool {
	return i >= g.StartIndex && i <= g.EndIndex
}

// Compute returns the window for a list of rowCount rows of rowHeight each,
// viewed through a container of containerHeight scrolled to scrollOffset,
// with overscan extra rows on each side.
//
// Offsets outside the scrollable range are clamped first, so a list that
// shrank below the previous scroll position snaps back into range instead
// of producing out-of-bounds indices. rowCount <= 0 or rowHeight <= 0
// yields an empty window with zero padding.
func Compute(scrollOffset, containerHeight, rowHeight, rowCount, overscan int) Geometry {
	overscan = max(0, overscan)
	containerHeight = max(0, containerHeight)

	g := Geometry{
		RowHeight:  max(0, rowHeight),
		TotalRows:  max(0, rowCount),
		Overscan:   overscan,
		StartIndex: 0,
		EndIndex:   -1,
	}
	if rowHeight <= 0 || rowCount <= 0 {
		return g
	}

	offset := ClampOffset(scrollOffset, containerHeight, rowHeight, rowCount)
	start := max(0, offset/rowHeight-overscan)
	end := min(rowCount-1, ceilDiv(offset+containerHeight, rowHeight)+overscan)
	start = min(start, end)

	g.ScrollOffset = offset
	g.StartIndex = start
	g.EndIndex = end
	g.PaddingTop = start * rowHeight
	g.PaddingBottom = max(0, (rowCount-1-end)*rowHeight)
	return g
}

// ClampOffset bounds offset to [0, rowCount*rowHeight-containerHeight].
func ClampOffset(offset, containerHeight, rowHeight, rowCount int) int {
	if rowHeight <= 0 || rowCount <= 0 {
		return 0
	}
	limit := max(0, rowCount*rowHeight-max(0, containerHeight))
	return min(max(0, offset), limit)
}

func ceilDiv(a, b int) int {
	return (a + b - 1) / b
}
