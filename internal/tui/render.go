/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package tui

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"scrapbook/internal/canvas"
	"scrapbook/internal/domain"
	"scrapbook/internal/editor"
	"scrapbook/internal/vector"
)

// One terminal cell covers cellW x cellH canvas units, so the 400x620
// canvas maps onto a 40x31 grid.
const (
	cellW = 10.0
	cellH = 20.0
)

var (
	gridCols = int(domain.CanvasWidth / cellW)
	gridRows = int(domain.CanvasHeight / cellH)
)

type border struct{ h, v, tl, tr, bl, br rune }

var (
	plainBorder    = border{'─', '│', '┌', '┐', '└', '┘'}
	selectedBorder = border{'═', '║', '╔', '╗', '╚', '╝'}
	editingBorder  = border{'┄', '┆', '┏', '┓', '┗', '┛'}
)

// cellCenter maps a grid cell to the canvas point at its centre.
func cellCenter(col, row int) vector.Pt {
	return vector.Pt{X: (float64(col) + 0.5) * cellW, Y: (float64(row) + 0.5) * cellH}
}

// cellRect returns the cells covered by r, inclusive, without clipping.
// Boxes are at least three cells each way so a label row fits.
func cellRect(r vector.Rect) (c0, r0, c1, r1 int) {
	lo, hi := r.Min(), r.Max()
	c0 = floorDiv(lo.X, cellW)
	r0 = floorDiv(lo.Y, cellH)
	c1 = ceilDiv(hi.X, cellW) - 1
	r1 = ceilDiv(hi.Y, cellH) - 1
	if c1 < c0+2 {
		c1 = c0 + 2
	}
	if r1 < r0+2 {
		r1 = r0 + 2
	}
	return
}

func floorDiv(v, d float64) int {
	n := int(v / d)
	if float64(n)*d > v {
		n--
	}
	return n
}

func ceilDiv(v, d float64) int {
	n := floorDiv(v, d)
	if float64(n)*d < v {
		n++
	}
	return n
}

type grid [][]rune

func newGrid(cols, rows int) grid {
	g := make(grid, rows)
	for i := range g {
		g[i] = []rune(strings.Repeat(" ", cols))
	}
	return g
}

func (g grid) set(col, row int, r rune) {
	if row < 0 || row >= len(g) || col < 0 || col >= len(g[row]) {
		return
	}
	g[row][col] = r
}

func (g grid) box(c0, r0, c1, r1 int, b border) {
	for c := c0; c <= c1; c++ {
		g.set(c, r0, b.h)
		g.set(c, r1, b.h)
	}
	for r := r0; r <= r1; r++ {
		g.set(c0, r, b.v)
		g.set(c1, r, b.v)
	}
	g.set(c0, r0, b.tl)
	g.set(c1, r0, b.tr)
	g.set(c0, r1, b.bl)
	g.set(c1, r1, b.br)
}

// fill clears the box interior and writes lines into it, clipped.
func (g grid) fill(c0, r0, c1, r1 int, lines []string) {
	for r := r0 + 1; r < r1; r++ {
		for c := c0 + 1; c < c1; c++ {
			g.set(c, r, ' ')
		}
	}
	for i, ln := range lines {
		row := r0 + 1 + i
		if row >= r1 {
			break
		}
		col := c0 + 1
		for _, ch := range ln {
			if col >= c1 {
				break
			}
			g.set(col, row, ch)
			col++
		}
	}
}

func (g grid) lines() []string {
	out := make([]string, len(g))
	for i, row := range g {
		out[i] = string(row)
	}
	return out
}

// renderPage draws page i bottom-up so later elements cover earlier ones,
// matching the document's z-order.
func renderPage(doc *canvas.Document, pageIndex int, st editor.State) []string {
	g := newGrid(gridCols, gridRows)
	p, ok := doc.Page(pageIndex)
	if !ok {
		return g.lines()
	}
	page := vector.R(0, 0, domain.CanvasWidth, domain.CanvasHeight)
	for _, el := range p.Elements {
		b := doc.Bounds(el)
		if !b.Intersects(page) {
			continue
		}
		c0, r0, c1, r1 := cellRect(b)
		border := plainBorder
		switch {
		case st.IsEditing(el.ElementID()):
			border = editingBorder
		case st.IsSelected(el.ElementID()):
			border = selectedBorder
		}
		g.fill(c0, r0, c1, r1, elementLabel(el, st))
		g.box(c0, r0, c1, r1, border)
	}
	return g.lines()
}

func elementLabel(el domain.Element, st editor.State) []string {
	switch e := el.(type) {
	case *domain.TextElement:
		if st.IsEditing(e.ID) {
			return strings.Split(st.Buffer+"▏", "\n")
		}
		return strings.Split(e.Content, "\n")
	case *domain.ImageElement:
		return []string{imageName(e.SourceURI), fmt.Sprintf("x%.2f", e.Scale)}
	default:
		return nil
	}
}

func imageName(uri string) string {
	if u, err := url.Parse(uri); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return uri
}

func pageTabs(count int) []string {
	out := make([]string, count)
	for i := range out {
		out[i] = domain.PageLabel(i)
	}
	return out
}
