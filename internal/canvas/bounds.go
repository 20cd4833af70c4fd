/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package canvas

import (
	"scrapbook/internal/domain"
	"scrapbook/internal/vector"
)

// Bounds returns the on-canvas rectangle of el. Text bounds are the measured
// content plus padding on every side. Image bounds are the base size scaled
// about its centre, the way the view applies the scale transform.
func (d *Document) Bounds(el domain.Element) vector.Rect {
	switch e := el.(type) {
	case *domain.TextElement:
		sz := d.measure.Measure(e.Content)
		content := vector.R(e.Position.X+domain.TextPadding, e.Position.Y+domain.TextPadding, sz.W, sz.H)
		return content.Inset(-domain.TextPadding, -domain.TextPadding)
	case *domain.ImageElement:
		base := vector.R(e.Position.X, e.Position.Y, e.Dimensions.Width, e.Dimensions.Height)
		s := e.Scale
		if s == 0 {
			s = 1
		}
		return base.Transform(vector.ScaleAbout(base.Center(), s))
	default:
		return vector.Rect{}
	}
}

// HitTest returns the topmost element on page i whose bounds contain p.
func (d *Document) HitTest(pageIndex int, p vector.Pt) (string, bool) {
	if !d.validPage(pageIndex) {
		return "", false
	}
	els := d.doc.Pages[pageIndex].Elements
	for i := len(els) - 1; i >= 0; i-- {
		if d.Bounds(els[i]).Contains(p) {
			return els[i].ElementID(), true
		}
	}
	return "", false
}
