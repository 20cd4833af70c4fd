/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package editor

import (
	"context"
	"log/slog"

	"scrapbook/internal/canvas"
	"scrapbook/internal/domain"
	applog "scrapbook/internal/log"
	"scrapbook/internal/picker"
	"scrapbook/internal/vector"
)

// EventFunc receives a notification for every committed change. Props never
// contain user content.
type EventFunc func(name string, props map[string]any)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger; defaults to the "editor" component logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// WithEvents installs an event hook, typically telemetry.Event.
func WithEvents(fn EventFunc) Option { return func(c *Controller) { c.onEvent = fn } }

// Controller drives a canvas.Document from user input on its active page.
// Invalid references degrade to no-ops reported as false. Not safe for
// concurrent use.
type Controller struct {
	doc     *canvas.Document
	state   State
	log     *slog.Logger
	onEvent EventFunc
}

// New returns an Idle controller over doc.
func New(doc *canvas.Document, opts ...Option) *Controller {
	c := &Controller{doc: doc}
	for _, o := range opts {
		o(c)
	}
	if c.log == nil {
		c.log = applog.WithComponent("editor")
	}
	return c
}

// Document returns the controlled document.
func (c *Controller) Document() *canvas.Document { return c.doc }

// State returns the current selection/edit state.
func (c *Controller) State() State { return c.state }

// ActivePage returns the index of the page being edited.
func (c *Controller) ActivePage() int { return c.doc.ActivePage() }

// AddPage appends a page; the active page and selection are unchanged.
func (c *Controller) AddPage() string {
	id := c.doc.AddPage()
	c.emit("page_added", map[string]any{"pages": c.doc.PageCount()})
	return id
}

// SwitchPage commits any pending edit, activates page i and clears the selection.
func (c *Controller) SwitchPage(i int) bool {
	if i < 0 || i >= c.doc.PageCount() {
		return false
	}
	c.commitPending()
	c.doc.SelectPage(i)
	c.state = State{}
	c.log.Debug("page switched", slog.Int("page", i))
	return true
}

// Tap handles a tap on element id of the active page.
// Text elements enter edit mode seeded with their content. Image elements
// toggle selection.
func (c *Controller) Tap(id string) bool {
	page := c.doc.ActivePage()
	el, ok := c.doc.Element(page, id)
	if !ok {
		return false
	}
	switch e := el.(type) {
	case *domain.TextElement:
		if c.state.IsEditing(id) {
			return false
		}
		c.commitPending()
		c.state = State{Mode: EditingText, ElementID: id, Buffer: e.Content}
	case *domain.ImageElement:
		c.commitPending()
		if c.state.IsSelected(id) {
			c.state = State{}
		} else {
			c.state = State{Mode: Selected, ElementID: id}
		}
	default:
		return false
	}
	c.log.DebugContext(c.logCtx(id), "tap", slog.String("state", c.state.String()))
	return true
}

// TapAt hit-tests the active page at (x, y) and taps the topmost element.
// A tap on empty canvas while editing takes focus away and submits the edit.
func (c *Controller) TapAt(x, y float64) bool {
	if id, ok := c.doc.HitTest(c.doc.ActivePage(), vector.Pt{X: x, Y: y}); ok {
		return c.Tap(id)
	}
	if c.state.Mode == EditingText {
		return c.Submit()
	}
	return false
}

// SetBuffer replaces the in-progress text. Only valid while editing.
func (c *Controller) SetBuffer(text string) bool {
	if c.state.Mode != EditingText {
		return false
	}
	c.state.Buffer = text
	return true
}

// Submit commits the edit buffer to the element and leaves it selected.
func (c *Controller) Submit() bool {
	if c.state.Mode != EditingText {
		return false
	}
	id := c.state.ElementID
	if !c.doc.UpdateElementContent(c.doc.ActivePage(), id, c.state.Buffer) {
		c.state = State{}
		return false
	}
	c.state = State{Mode: Selected, ElementID: id}
	c.emit("text_committed", map[string]any{"page": c.doc.ActivePage()})
	return true
}

// Delete removes the selected or edited element and returns to Idle.
func (c *Controller) Delete() bool {
	if c.state.Mode == Idle {
		return false
	}
	id := c.state.ElementID
	removed := c.doc.DeleteElement(c.doc.ActivePage(), id)
	c.state = State{}
	if removed {
		c.emit("element_deleted", map[string]any{"page": c.doc.ActivePage()})
	}
	return removed
}

// AddText creates a text element on the active page and selects it.
func (c *Controller) AddText() (string, bool) {
	c.commitPending()
	id, ok := c.doc.AddTextElement(c.doc.ActivePage())
	if !ok {
		return "", false
	}
	c.state = State{Mode: Selected, ElementID: id}
	c.emit("element_added", map[string]any{"kind": domain.KindText.String(), "page": c.doc.ActivePage()})
	return id, true
}

// AddImage asks p for an image and places it on the page that was active
// when the request started. New images are not selected. A canceled pick
// changes nothing; a failed pick is returned after logging.
func (c *Controller) AddImage(ctx context.Context, p picker.Picker) (string, bool, error) {
	c.commitPending()
	page := c.doc.ActivePage()
	res, err := p.Pick(ctx)
	if err != nil {
		c.log.WarnContext(applog.WithPage(ctx, page), "image pick failed", slog.Any("err", err))
		return "", false, err
	}
	id, ok := c.ApplyPick(page, res)
	return id, ok, nil
}

// ApplyPick places a pick result on page. Hosts whose picker reports through
// a callback call this directly with the page captured at request time.
func (c *Controller) ApplyPick(page int, res picker.Result) (string, bool) {
	if res.Canceled {
		c.log.Debug("image pick canceled")
		c.emit("image_canceled", nil)
		return "", false
	}
	id, ok := c.doc.AddImageElement(page, res.URI, float64(res.NaturalWidth), float64(res.NaturalHeight))
	if !ok {
		c.log.Info("image skipped", slog.String("uri", res.URI),
			slog.Int("w", res.NaturalWidth), slog.Int("h", res.NaturalHeight))
		return "", false
	}
	c.emit("element_added", map[string]any{"kind": domain.KindImage.String(), "page": page})
	return id, true
}

// Drag moves an element by a delta. Selection is unchanged.
func (c *Controller) Drag(id string, dx, dy float64) bool {
	page := c.doc.ActivePage()
	el, ok := c.doc.Element(page, id)
	if !ok {
		return false
	}
	p := el.Pos()
	return c.doc.UpdateElementPosition(page, id, p.X+dx, p.Y+dy)
}

// MoveTo places an element at an absolute position. Selection is unchanged.
func (c *Controller) MoveTo(id string, x, y float64) bool {
	return c.doc.UpdateElementPosition(c.doc.ActivePage(), id, x, y)
}

// Pinch applies pinch input. Only move events for the currently selected
// image change its scale; each one compounds on the last. Release has
// nothing to commit.
func (c *Controller) Pinch(ev PinchEvent) bool {
	if !c.state.IsSelected(ev.ElementID) {
		return false
	}
	switch ev.Phase {
	case PinchChanged:
		return c.doc.UpdateElementScale(c.doc.ActivePage(), ev.ElementID, ev.Scale)
	case PinchEnded:
		if el, ok := c.doc.Element(c.doc.ActivePage(), ev.ElementID); ok {
			if img, ok := el.(*domain.ImageElement); ok {
				c.log.DebugContext(c.logCtx(ev.ElementID), "pinch ended", slog.Float64("scale", img.Scale))
			}
		}
	}
	return false
}

// logCtx carries the active page and element id into log records.
func (c *Controller) logCtx(id string) context.Context {
	ctx := applog.WithPage(context.Background(), c.doc.ActivePage())
	if id != "" {
		ctx = applog.WithElement(ctx, id)
	}
	return ctx
}

// commitPending submits an in-progress edit, as losing focus does.
func (c *Controller) commitPending() {
	if c.state.Mode == EditingText {
		c.Submit()
	}
}

func (c *Controller) emit(name string, props map[string]any) {
	if c.onEvent != nil {
		c.onEvent(name, props)
	}
}
