/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package canvas implements the scrapbook document model: an ordered list of
// pages, each holding free-form text and image elements.
//
// Operations never fail loudly. An unknown page index, an unknown element id
// or degenerate image metadata leaves the document untouched and is reported
// through the boolean result only. The Document is not safe for concurrent
// use; hosts drive it from a single goroutine.
package canvas

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"scrapbook/internal/domain"
	applog "scrapbook/internal/log"
	"scrapbook/internal/textlayout"
)

// Defaults used when elements are created.
type Defaults struct {
	Text       string
	Position   domain.Point
	ImageWidth float64
}

// DefaultDefaults mirrors the mobile editor's hard-coded values.
func DefaultDefaults() Defaults {
	return Defaults{
		Text:       domain.DefaultText,
		Position:   domain.Point{X: domain.DefaultX, Y: domain.DefaultY},
		ImageWidth: domain.ImageDisplayWidth,
	}
}

// Option configures a Document.
type Option func(*Document)

// WithIDFunc replaces the element id source. Ids must never repeat.
func WithIDFunc(fn func() string) Option {
	return func(d *Document) {
		if fn != nil {
			d.newID = fn
		}
	}
}

// WithDefaults overrides creation defaults. Zero fields keep the built-in
// value; WithDefaultPosition can place new elements at the origin.
func WithDefaults(def Defaults) Option {
	return func(d *Document) {
		if def.Text != "" {
			d.defaults.Text = def.Text
		}
		if def.Position != (domain.Point{}) {
			d.defaults.Position = def.Position
		}
		if def.ImageWidth > 0 {
			d.defaults.ImageWidth = def.ImageWidth
		}
	}
}

// WithDefaultPosition sets where new elements are placed, (0, 0) included.
func WithDefaultPosition(p domain.Point) Option {
	return func(d *Document) { d.defaults.Position = p }
}

// WithMeasurer sets the text measurer used for text element bounds.
func WithMeasurer(m textlayout.Measurer) Option {
	return func(d *Document) {
		if m != nil {
			d.measure = m
		}
	}
}

// WithLogger sets the logger; defaults to the "canvas" component logger.
func WithLogger(l *slog.Logger) Option {
	return func(d *Document) {
		if l != nil {
			d.log = l
		}
	}
}

// Document is the canvas document model.
type Document struct {
	doc      domain.Document
	active   int
	defaults Defaults
	newID    func() string
	measure  textlayout.Measurer
	log      *slog.Logger
}

// New returns a document holding only the cover page.
func New(opts ...Option) *Document {
	d := &Document{
		doc:      domain.Document{Pages: []domain.Page{{ID: domain.CoverPageID, Elements: []domain.Element{}}}},
		defaults: DefaultDefaults(),
		newID:    func() string { return "element-" + uuid.NewString() },
		measure:  textlayout.Basic(domain.FontSize),
	}
	for _, o := range opts {
		o(d)
	}
	if d.log == nil {
		d.log = applog.WithComponent("canvas")
	}
	return d
}

// Defaults returns the creation defaults in effect.
func (d *Document) Defaults() Defaults { return d.defaults }

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return len(d.doc.Pages) }

// ActivePage returns the index of the page being edited.
func (d *Document) ActivePage() int { return d.active }

// SelectPage makes page i the active page. Out-of-range indices are ignored.
func (d *Document) SelectPage(i int) bool {
	if !d.validPage(i) {
		return false
	}
	d.active = i
	return true
}

// AddPage appends an empty page and returns its id. The active page is unchanged.
func (d *Document) AddPage() string {
	id := fmt.Sprintf("page-%d", len(d.doc.Pages))
	d.doc.Pages = append(d.doc.Pages, domain.Page{ID: id, Elements: []domain.Element{}})
	d.log.Debug("page added", slog.String("page_id", id), slog.Int("pages", len(d.doc.Pages)))
	return id
}

// AddTextElement places a text element with the default content and position.
func (d *Document) AddTextElement(pageIndex int) (string, bool) {
	if !d.validPage(pageIndex) {
		d.log.Debug("add text ignored", slog.Int("page", pageIndex))
		return "", false
	}
	el := &domain.TextElement{
		ID:       d.newID(),
		Position: d.defaults.Position,
		Content:  d.defaults.Text,
	}
	d.append(pageIndex, el)
	return el.ID, true
}

// AddImageElement places an image whose base width is the display width and
// whose height keeps the natural aspect ratio. Non-positive natural
// dimensions are rejected.
func (d *Document) AddImageElement(pageIndex int, sourceURI string, naturalWidth, naturalHeight float64) (string, bool) {
	if !d.validPage(pageIndex) || !(naturalWidth > 0) || !(naturalHeight > 0) {
		d.log.Debug("add image ignored", slog.Int("page", pageIndex),
			slog.Float64("natural_w", naturalWidth), slog.Float64("natural_h", naturalHeight))
		return "", false
	}
	w := d.defaults.ImageWidth
	el := &domain.ImageElement{
		ID:         d.newID(),
		Position:   d.defaults.Position,
		SourceURI:  sourceURI,
		Dimensions: domain.Size{Width: w, Height: w * naturalHeight / naturalWidth},
		Scale:      1.0,
	}
	d.append(pageIndex, el)
	return el.ID, true
}

// UpdateElementContent replaces the content of a text element.
func (d *Document) UpdateElementContent(pageIndex int, elementID, content string) bool {
	el, ok := d.find(pageIndex, elementID).(*domain.TextElement)
	if !ok {
		return false
	}
	el.Content = content
	return true
}

// UpdateElementScale applies one pinch step to an image element.
// See NextScale for the damping and clamping rules.
func (d *Document) UpdateElementScale(pageIndex int, elementID string, rawGestureScale float64) bool {
	el, ok := d.find(pageIndex, elementID).(*domain.ImageElement)
	if !ok {
		return false
	}
	el.Scale = NextScale(el.Scale, rawGestureScale)
	return true
}

// UpdateElementPosition moves an element. Positions outside the visible
// canvas are allowed.
func (d *Document) UpdateElementPosition(pageIndex int, elementID string, x, y float64) bool {
	el := d.find(pageIndex, elementID)
	if el == nil {
		return false
	}
	el.SetPos(domain.Point{X: x, Y: y})
	return true
}

// DeleteElement removes an element. Deleting an unknown id is a no-op.
func (d *Document) DeleteElement(pageIndex int, elementID string) bool {
	if !d.validPage(pageIndex) {
		return false
	}
	pg := &d.doc.Pages[pageIndex]
	for i, el := range pg.Elements {
		if el.ElementID() == elementID {
			pg.Elements = slices.Delete(pg.Elements, i, i+1)
			d.log.Debug("element deleted", slog.String("id", elementID), slog.Int("page", pageIndex))
			return true
		}
	}
	return false
}

// Page returns a deep copy of page i.
func (d *Document) Page(i int) (domain.Page, bool) {
	if !d.validPage(i) {
		return domain.Page{}, false
	}
	return d.doc.Pages[i].Clone(), true
}

// Snapshot returns a deep copy of the whole document.
func (d *Document) Snapshot() domain.Document {
	out := domain.Document{Pages: make([]domain.Page, len(d.doc.Pages))}
	for i, p := range d.doc.Pages {
		out.Pages[i] = p.Clone()
	}
	return out
}

// Element returns a copy of the element with id on page i.
func (d *Document) Element(pageIndex int, elementID string) (domain.Element, bool) {
	el := d.find(pageIndex, elementID)
	if el == nil {
		return nil, false
	}
	return el.Clone(), true
}

// Locate returns the index of the page holding elementID.
func (d *Document) Locate(elementID string) (int, bool) {
	for i := range d.doc.Pages {
		if d.find(i, elementID) != nil {
			return i, true
		}
	}
	return -1, false
}

func (d *Document) validPage(i int) bool { return i >= 0 && i < len(d.doc.Pages) }

func (d *Document) append(pageIndex int, el domain.Element) {
	pg := &d.doc.Pages[pageIndex]
	pg.Elements = append(pg.Elements, el)
	d.log.Debug("element added", slog.String("id", el.ElementID()),
		slog.String("kind", el.Kind().String()), slog.Int("page", pageIndex))
}

// find is a linear scan of the page's elements.
func (d *Document) find(pageIndex int, elementID string) domain.Element {
	if !d.validPage(pageIndex) {
		return nil
	}
	for _, el := range d.doc.Pages[pageIndex].Elements {
		if el.ElementID() == elementID {
			return el
		}
	}
	return nil
}
