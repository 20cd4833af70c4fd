//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// These tests exercise the fyne canvas widget. They are gated behind the
// "fyne" build tag so CI (which is headless) does not need Fyne or a display.
// To run locally:
//
//	go test -tags fyne ./internal/ui
package ui

import (
	"context"
	"fmt"
	"math"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"

	"scrapbook/internal/canvas"
	"scrapbook/internal/domain"
	"scrapbook/internal/editor"
	applog "scrapbook/internal/log"
	"scrapbook/internal/picker"
	"scrapbook/internal/vector"
)

func almostEqual(a, b, eps float32) bool {
	if a > b {
		return a-b <= eps
	}
	return b-a <= eps
}

func newTestCanvas(t *testing.T) (*PageCanvas, *editor.Controller) {
	t.Helper()
	a := test.NewApp()
	t.Cleanup(a.Quit)
	n := 0
	doc := canvas.New(
		canvas.WithLogger(applog.Discard()),
		canvas.WithIDFunc(func() string { n++; return fmt.Sprintf("element-%d", n) }),
	)
	ctl := editor.New(doc, editor.WithLogger(applog.Discard()))
	pc := NewPageCanvas(ctl)
	pc.Resize(fyne.NewSize(domain.CanvasWidth+2*pageMargin, domain.CanvasHeight+2*pageMargin))
	return pc, ctl
}

func TestPageCanvas_Geometry(t *testing.T) {
	pc, _ := newTestCanvas(t)
	m, s := pc.pageTransform()
	if m.E != pageMargin || m.F != pageMargin || s != 1 {
		t.Fatalf("transform/scale = %+v, %v", m, s)
	}
	pos := pc.toScreen(vector.Pt{X: 100, Y: 200})
	if !almostEqual(pos.X, 110, 0.01) || !almostEqual(pos.Y, 210, 0.01) {
		t.Fatalf("toScreen = %v", pos)
	}
	back := pc.toPage(pos)
	if math.Abs(back.X-100) > 1e-3 || math.Abs(back.Y-200) > 1e-3 {
		t.Fatalf("toPage = %+v", back)
	}

	pc.Resize(fyne.NewSize(2*(domain.CanvasWidth+2*pageMargin), 2*(domain.CanvasHeight+2*pageMargin)))
	if _, s := pc.pageTransform(); s <= 1 {
		t.Fatalf("scale = %v, want > 1 for a larger widget", s)
	}
}

func TestPageCanvas_TapEditsText(t *testing.T) {
	pc, ctl := newTestCanvas(t)
	id, _ := ctl.AddText()
	changes := 0
	pc.OnChange = func() { changes++ }

	pc.Tapped(&fyne.PointEvent{Position: pc.toScreen(vector.Pt{X: 55, Y: 105})})
	if !ctl.State().IsEditing(id) {
		t.Fatalf("state = %v, want editing(%s)", ctl.State(), id)
	}
	if changes != 1 {
		t.Fatalf("OnChange calls = %d, want 1", changes)
	}
}

func TestPageCanvas_DragMovesElementUnderPointer(t *testing.T) {
	pc, ctl := newTestCanvas(t)
	id, _ := ctl.AddText()
	start := pc.toScreen(vector.Pt{X: 55, Y: 105})
	pc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: start.AddXY(10, 5)}, Dragged: fyne.NewDelta(10, 5)})
	pc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: start.AddXY(20, 10)}, Dragged: fyne.NewDelta(10, 5)})
	pc.DragEnd()
	el, _ := ctl.Document().Element(0, id)
	if el.Pos() != (domain.Point{X: 70, Y: 110}) {
		t.Fatalf("pos = %+v", el.Pos())
	}
	if pc.dragID != "" {
		t.Fatal("drag not reset")
	}
}

func TestPageCanvas_DragFromEmptyCanvasIgnoresWholeGesture(t *testing.T) {
	pc, ctl := newTestCanvas(t)
	id, _ := ctl.AddText()
	// starts left of the element and sweeps across it
	start := pc.toScreen(vector.Pt{X: 20, Y: 105})
	pc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: start.AddXY(20, 0)}, Dragged: fyne.NewDelta(20, 0)})
	pc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: start.AddXY(40, 0)}, Dragged: fyne.NewDelta(20, 0)})
	pc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: start.AddXY(60, 0)}, Dragged: fyne.NewDelta(20, 0)})
	pc.DragEnd()
	el, _ := ctl.Document().Element(0, id)
	if el.Pos() != (domain.Point{X: 50, Y: 100}) {
		t.Fatalf("element moved by a drag that missed it: %+v", el.Pos())
	}

	// the next drag starts fresh
	on := pc.toScreen(vector.Pt{X: 55, Y: 105})
	pc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: on.AddXY(10, 0)}, Dragged: fyne.NewDelta(10, 0)})
	pc.DragEnd()
	el, _ = ctl.Document().Element(0, id)
	if el.Pos() != (domain.Point{X: 60, Y: 100}) {
		t.Fatalf("pos = %+v, want {60 100}", el.Pos())
	}
}

func TestTextMeasurerMatchesFyneText(t *testing.T) {
	_ = test.NewApp()
	want := fyne.MeasureText("New text", domain.FontSize, fyne.TextStyle{})
	got := TextMeasurer().Measure("New text")
	if math.Abs(got.W-float64(want.Width)) > 3 {
		t.Fatalf("width = %v, fyne draws %v", got.W, want.Width)
	}
}

func TestPageCanvas_ScrollPinchesSelectedImage(t *testing.T) {
	pc, ctl := newTestCanvas(t)
	id, _, err := ctl.AddImage(context.Background(), picker.Func(func(context.Context) (picker.Result, error) {
		return picker.Result{URI: "file:///tmp/x.png", NaturalWidth: 100, NaturalHeight: 100}, nil
	}))
	if err != nil {
		t.Fatal(err)
	}
	pc.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 50)})
	el, _ := ctl.Document().Element(0, id)
	if el.(*domain.ImageElement).Scale != 1 {
		t.Fatal("scroll without selection changed scale")
	}
	ctl.Tap(id)
	pc.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.NewDelta(0, 50)})
	el, _ = ctl.Document().Element(0, id)
	if got, want := el.(*domain.ImageElement).Scale, canvas.NextScale(1, 1.5); got != want {
		t.Fatalf("scale = %v, want %v", got, want)
	}
}

func TestPageCanvas_RendererTracksElements(t *testing.T) {
	pc, ctl := newTestCanvas(t)
	r, ok := pc.CreateRenderer().(*pageCanvasRenderer)
	if !ok {
		t.Fatalf("expected pageCanvasRenderer, got %T", pc.CreateRenderer())
	}
	if len(r.Objects()) != 2 {
		t.Fatalf("objects = %d, want background and page", len(r.Objects()))
	}
	ctl.AddText()
	r.Refresh()
	if len(r.items) != 1 || len(r.Objects()) != 4 {
		t.Fatalf("items=%d objects=%d", len(r.items), len(r.Objects()))
	}
	border := r.items[0].border
	if border.StrokeColor != colSelected {
		t.Fatalf("selected border colour = %v", border.StrokeColor)
	}
	if !almostEqual(border.Position().X, pageMargin+domain.DefaultX, 0.01) {
		t.Fatalf("border x = %v", border.Position().X)
	}
}
