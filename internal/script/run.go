/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"scrapbook/internal/domain"
	"scrapbook/internal/editor"
	applog "scrapbook/internal/log"
	"scrapbook/internal/picker"
)

// Runner replays scripts against a controller.
type Runner struct {
	Controller *editor.Controller
	// Dir resolves relative addImage file paths. Empty means the working directory.
	Dir string
	// Extensions restricts addImage files; empty accepts any decodable image.
	Extensions []string
	Log        *slog.Logger
}

// Outcome reports what a single step did.
type Outcome struct {
	Step    int
	Op      Op
	Changed bool
	State   editor.State
}

// Run executes s and returns the final document. Steps that resolve to
// no-ops in the editor are reported with Changed=false and do not stop the
// run; picker I/O failures do.
func (r *Runner) Run(ctx context.Context, s Script) (domain.Document, []Outcome, error) {
	log := r.Log
	if log == nil {
		log = applog.WithComponent("script")
	}
	c := r.Controller
	labels := map[string]string{}
	resolve := func(label string) string {
		if id, ok := labels[label]; ok {
			return id
		}
		return label
	}

	outcomes := make([]Outcome, 0, len(s.Steps))
	for _, st := range s.Steps {
		if err := ctx.Err(); err != nil {
			return c.Document().Snapshot(), outcomes, err
		}
		var changed bool
		switch st.Op {
		case OpAddPage:
			c.AddPage()
			changed = true
		case OpSelectPage:
			changed = c.SwitchPage(st.Page)
		case OpAddText:
			var id string
			id, changed = c.AddText()
			if changed && st.As != "" {
				labels[st.As] = id
			}
		case OpAddImage:
			id, ok, err := c.AddImage(ctx, r.pickerFor(st))
			if err != nil {
				return c.Document().Snapshot(), outcomes, fmt.Errorf("step %d: %w", st.Index, err)
			}
			changed = ok
			if ok && st.As != "" {
				labels[st.As] = id
			}
		case OpTap:
			changed = c.Tap(resolve(st.Element))
		case OpTapAt:
			changed = c.TapAt(st.X, st.Y)
		case OpType:
			changed = c.SetBuffer(st.Text)
		case OpSubmit:
			changed = c.Submit()
		case OpDelete:
			changed = c.Delete()
		case OpDrag:
			changed = c.Drag(resolve(st.Element), st.DX, st.DY)
		case OpMove:
			changed = c.MoveTo(resolve(st.Element), st.X, st.Y)
		case OpPinch:
			id := resolve(st.Element)
			c.Pinch(editor.PinchEvent{ElementID: id, Scale: 1, Phase: editor.PinchBegan})
			last := 1.0
			for _, g := range st.Scales {
				last = g
				if c.Pinch(editor.PinchEvent{ElementID: id, Scale: g, Phase: editor.PinchChanged}) {
					changed = true
				}
			}
			c.Pinch(editor.PinchEvent{ElementID: id, Scale: last, Phase: editor.PinchEnded})
		default:
			return c.Document().Snapshot(), outcomes, fmt.Errorf("step %d: unknown op %q", st.Index, st.Op)
		}
		if !changed {
			log.Debug("step had no effect", slog.Int("step", st.Index), slog.String("op", string(st.Op)))
		}
		outcomes = append(outcomes, Outcome{Step: st.Index, Op: st.Op, Changed: changed, State: c.State()})
	}
	return c.Document().Snapshot(), outcomes, nil
}

func (r *Runner) pickerFor(st Step) picker.Picker {
	switch {
	case st.Cancel:
		return picker.Func(func(context.Context) (picker.Result, error) { return picker.Canceled(), nil })
	case st.File != "":
		path := st.File
		if !filepath.IsAbs(path) && r.Dir != "" {
			path = filepath.Join(r.Dir, path)
		}
		return picker.Path(path, r.Extensions...)
	default:
		res := picker.Result{URI: st.URI, NaturalWidth: st.Width, NaturalHeight: st.Height}
		return picker.Func(func(context.Context) (picker.Result, error) { return res, nil })
	}
}
