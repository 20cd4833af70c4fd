/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package domain

import (
	"encoding/json"
	"strconv"
)

// This file defines the core data model of the scrapbook editor: a document
// made of pages, each holding free-form text and image elements.

// Defaults recovered from the mobile editor layout.
const (
	CoverPageID       = "cover"
	DefaultText       = "New text"
	DefaultX          = 50
	DefaultY          = 100
	ImageDisplayWidth = 300
	FontSize          = 16
	TextPadding       = 5
	CanvasWidth       = 400
	CanvasHeight      = 620

	MinScale = 0.5
	MaxScale = 3.0
)

// Document is the ordered list of pages. It always holds at least the cover page.
type Document struct {
	Pages []Page `json:"pages"`
}

// Page is one canvas. Element order is draw order: later entries are on top.
type Page struct {
	ID       string    `json:"id"`
	Elements []Element `json:"elements"`
}

// Clone returns a deep copy of the page.
func (p Page) Clone() Page {
	out := Page{ID: p.ID, Elements: make([]Element, len(p.Elements))}
	for i, el := range p.Elements {
		out.Elements[i] = el.Clone()
	}
	return out
}

// PageLabel is the short name shown in page strips: "C" for the cover,
// then the page's position.
func PageLabel(i int) string {
	if i == 0 {
		return "C"
	}
	return strconv.Itoa(i)
}

// Kind tags the element variant.
type Kind int

const (
	KindText Kind = iota + 1
	KindImage
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindImage:
		return "image"
	default:
		return "unknown"
	}
}

// Point is a canvas-local offset.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Size is a width/height pair in layout units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Element is implemented by *TextElement and *ImageElement only.
// Consumers switch on the concrete type and must handle both.
type Element interface {
	ElementID() string
	Kind() Kind
	Pos() Point
	SetPos(Point)
	Clone() Element
	element()
}

// TextElement is free text edited in place.
type TextElement struct {
	ID       string `json:"id"`
	Position Point  `json:"position"`
	Content  string `json:"content"`
}

func (e *TextElement) ElementID() string { return e.ID }
func (e *TextElement) Kind() Kind        { return KindText }
func (e *TextElement) Pos() Point        { return e.Position }
func (e *TextElement) SetPos(p Point)    { e.Position = p }
func (e *TextElement) Clone() Element    { c := *e; return &c }
func (*TextElement) element()            {}

// ImageElement shows a picked image. Dimensions are the unscaled base size
// fixed at creation; Scale multiplies it around the element centre.
type ImageElement struct {
	ID         string  `json:"id"`
	Position   Point   `json:"position"`
	SourceURI  string  `json:"sourceUri"`
	Dimensions Size    `json:"dimensions"`
	Scale      float64 `json:"scale"`
}

func (e *ImageElement) ElementID() string { return e.ID }
func (e *ImageElement) Kind() Kind        { return KindImage }
func (e *ImageElement) Pos() Point        { return e.Position }
func (e *ImageElement) SetPos(p Point)    { e.Position = p }
func (e *ImageElement) Clone() Element    { c := *e; return &c }
func (*ImageElement) element()            {}

// ClampScale constrains s to [MinScale, MaxScale].
func ClampScale(s float64) float64 {
	if s < MinScale {
		return MinScale
	}
	if s > MaxScale {
		return MaxScale
	}
	return s
}

// MarshalJSON adds the kind tag so exported summaries are self-describing.
func (e *TextElement) MarshalJSON() ([]byte, error) {
	type plain TextElement
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*plain
	}{Kind: KindText.String(), plain: (*plain)(e)})
}

// MarshalJSON adds the kind tag so exported summaries are self-describing.
func (e *ImageElement) MarshalJSON() ([]byte, error) {
	type plain ImageElement
	return json.Marshal(struct {
		Kind string `json:"kind"`
		*plain
	}{Kind: KindImage.String(), plain: (*plain)(e)})
}
