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

package ui

import (
	"image/color"
	"math"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"scrapbook/internal/domain"
	"scrapbook/internal/editor"
	"scrapbook/internal/vector"
)

// wheelPinch converts one scroll notch into a pinch ratio.
const wheelPinch = 0.01

// margin around the page inside the widget, in pixels.
const pageMargin = 10

var (
	colBackground = color.RGBA{R: 30, G: 30, B: 34, A: 255}
	colPage       = color.RGBA{R: 250, G: 248, B: 240, A: 255}
	colBorder     = color.RGBA{R: 150, G: 150, B: 150, A: 255}
	colSelected   = color.RGBA{R: 0, G: 170, B: 255, A: 255}
	colEditing    = color.RGBA{R: 255, G: 170, B: 0, A: 255}
	colText       = color.RGBA{R: 20, G: 20, B: 20, A: 255}
	colClear      = color.RGBA{}
)

// PageCanvas draws the controller's active page and turns taps, drags and
// scroll-wheel pinches into controller calls.
type PageCanvas struct {
	widget.BaseWidget
	ctl *editor.Controller

	// id of the element under the current drag, "" while idle
	dragID string
	// set when a drag started on empty canvas; the rest of it is ignored
	dragMiss bool
	// image cache keyed by element id; images never change source
	images map[string]*canvas.Image

	// OnChange runs after any input that went through the controller.
	OnChange func()
}

func NewPageCanvas(ctl *editor.Controller) *PageCanvas {
	pc := &PageCanvas{ctl: ctl, images: map[string]*canvas.Image{}}
	pc.ExtendBaseWidget(pc)
	return pc
}

// PreferredSize fits the page at 1:1 with a margin.
func (p *PageCanvas) PreferredSize() fyne.Size {
	return fyne.NewSize(domain.CanvasWidth+2*pageMargin, domain.CanvasHeight+2*pageMargin)
}

// pageTransform maps page units to widget pixels, fitting the page centred
// inside the margin. It also returns the uniform scale factor.
func (p *PageCanvas) pageTransform() (vector.Affine2D, float64) {
	size := p.Size()
	w := float64(size.Width) - 2*pageMargin
	h := float64(size.Height) - 2*pageMargin
	s := math.Min(w/domain.CanvasWidth, h/domain.CanvasHeight)
	if s <= 0 || math.IsNaN(s) {
		s = 1
	}
	ox := (float64(size.Width) - domain.CanvasWidth*s) / 2
	oy := (float64(size.Height) - domain.CanvasHeight*s) / 2
	return vector.Translate(ox, oy).Mul(vector.Scale(s, s)), s
}

func (p *PageCanvas) toScreen(pt vector.Pt) fyne.Position {
	m, _ := p.pageTransform()
	q := m.Apply(pt)
	return fyne.NewPos(float32(q.X), float32(q.Y))
}

func (p *PageCanvas) toPage(pos fyne.Position) vector.Pt {
	m, _ := p.pageTransform()
	return m.Invert().Apply(vector.Pt{X: float64(pos.X), Y: float64(pos.Y)})
}

func (p *PageCanvas) changed() {
	p.Refresh()
	if p.OnChange != nil {
		p.OnChange()
	}
}

func (p *PageCanvas) Tapped(e *fyne.PointEvent) {
	pt := p.toPage(e.Position)
	if p.ctl.TapAt(pt.X, pt.Y) {
		p.changed()
	}
}

// Dragged moves the element found under the drag's starting point. Drags
// that start on empty canvas are ignored.
func (p *PageCanvas) Dragged(e *fyne.DragEvent) {
	if p.dragMiss {
		return
	}
	_, s := p.pageTransform()
	if p.dragID == "" {
		start := p.toPage(e.Position.Subtract(e.Dragged))
		id, ok := p.ctl.Document().HitTest(p.ctl.ActivePage(), start)
		if !ok {
			p.dragMiss = true
			return
		}
		p.dragID = id
	}
	if p.ctl.Drag(p.dragID, float64(e.Dragged.DX)/s, float64(e.Dragged.DY)/s) {
		p.Refresh()
	}
}

func (p *PageCanvas) DragEnd() {
	p.dragMiss = false
	if p.dragID != "" {
		p.dragID = ""
		p.changed()
	}
}

// Scrolled treats each wheel event as a complete pinch on the selected image.
func (p *PageCanvas) Scrolled(e *fyne.ScrollEvent) {
	st := p.ctl.State()
	if st.Mode != editor.Selected {
		return
	}
	ratio := 1 + float64(e.Scrolled.DY)*wheelPinch
	p.ctl.Pinch(editor.PinchEvent{ElementID: st.ElementID, Scale: 1, Phase: editor.PinchBegan})
	changed := p.ctl.Pinch(editor.PinchEvent{ElementID: st.ElementID, Scale: ratio, Phase: editor.PinchChanged})
	p.ctl.Pinch(editor.PinchEvent{ElementID: st.ElementID, Scale: ratio, Phase: editor.PinchEnded})
	if changed {
		p.changed()
	}
}

func (p *PageCanvas) image(el *domain.ImageElement) *canvas.Image {
	if img, ok := p.images[el.ID]; ok {
		return img
	}
	var img *canvas.Image
	if uri, err := fstorage.ParseURI(el.SourceURI); err == nil {
		img = canvas.NewImageFromURI(uri)
	} else {
		img = &canvas.Image{}
	}
	img.FillMode = canvas.ImageFillStretch
	p.images[el.ID] = img
	return img
}

func (p *PageCanvas) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(colBackground)
	page := canvas.NewRectangle(colPage)
	r := &pageCanvasRenderer{pc: p, bg: bg, page: page}
	r.rebuild()
	return r
}

type pageCanvasRenderer struct {
	pc       *PageCanvas
	bg, page *canvas.Rectangle
	objects  []fyne.CanvasObject
	// per element, parallel to the page's elements
	items []elementVisual
}

type elementVisual struct {
	id     string
	body   fyne.CanvasObject
	border *canvas.Rectangle
}

func (r *pageCanvasRenderer) Destroy()                     {}
func (r *pageCanvasRenderer) Objects() []fyne.CanvasObject { return r.objects }
func (r *pageCanvasRenderer) MinSize() fyne.Size           { return r.pc.PreferredSize() }

func (r *pageCanvasRenderer) Refresh() {
	r.rebuild()
	r.Layout(r.pc.Size())
	canvas.Refresh(r.pc)
}

// rebuild recreates element visuals from the active page in z-order.
func (r *pageCanvasRenderer) rebuild() {
	ctl := r.pc.ctl
	st := ctl.State()
	pg, _ := ctl.Document().Page(ctl.ActivePage())
	r.items = r.items[:0]
	r.objects = []fyne.CanvasObject{r.bg, r.page}
	for _, el := range pg.Elements {
		border := canvas.NewRectangle(colClear)
		border.StrokeWidth = 1
		border.StrokeColor = colBorder
		switch {
		case st.IsEditing(el.ElementID()):
			border.StrokeColor = colEditing
			border.StrokeWidth = 2
		case st.IsSelected(el.ElementID()):
			border.StrokeColor = colSelected
			border.StrokeWidth = 2
		}
		var body fyne.CanvasObject
		switch e := el.(type) {
		case *domain.TextElement:
			content := e.Content
			if st.IsEditing(e.ID) {
				content = st.Buffer
			}
			txt := canvas.NewText(content, colText)
			body = txt
		case *domain.ImageElement:
			body = r.pc.image(e)
		}
		r.items = append(r.items, elementVisual{id: el.ElementID(), body: body, border: border})
		if body != nil {
			r.objects = append(r.objects, body)
		}
		r.objects = append(r.objects, border)
	}
}

func (r *pageCanvasRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.bg.Move(fyne.NewPos(0, 0))

	_, s := r.pc.pageTransform()
	origin := r.pc.toScreen(vector.Pt{})
	r.page.Move(origin)
	r.page.Resize(fyne.NewSize(float32(domain.CanvasWidth*s), float32(domain.CanvasHeight*s)))

	ctl := r.pc.ctl
	for _, it := range r.items {
		el, ok := ctl.Document().Element(ctl.ActivePage(), it.id)
		if !ok {
			continue
		}
		b := ctl.Document().Bounds(el)
		p0 := r.pc.toScreen(b.Min())
		sz := fyne.NewSize(float32(b.W*s), float32(b.H*s))
		it.border.Move(p0)
		it.border.Resize(sz)
		switch body := it.body.(type) {
		case *canvas.Text:
			body.TextSize = float32(domain.FontSize * s)
			body.Move(p0.AddXY(float32(domain.TextPadding*s), float32(domain.TextPadding*s)))
			body.Resize(fyne.NewSize(sz.Width-float32(2*domain.TextPadding*s), sz.Height-float32(2*domain.TextPadding*s)))
		case *canvas.Image:
			body.Move(p0)
			body.Resize(sz)
		}
	}
}

// themeFont is the regular text font of the default fyne theme, which
// canvas.Text draws with.
func themeFont() []byte {
	return theme.DefaultTheme().Font(fyne.TextStyle{}).Content()
}
