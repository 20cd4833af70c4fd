/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package textlayout measures text elements so the canvas can compute their
// bounds. Text is set at a single fixed size; there is no styling.
package textlayout

import (
	"fmt"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"scrapbook/internal/vector"
)

// Measurer returns the unpadded extent of text. Lines are split on '\n'.
type Measurer interface {
	Measure(text string) vector.Size
}

// FaceMeasurer measures with a font.Face. Scale multiplies the face's
// native pixel metrics, which lets a fixed bitmap face stand in for another size.
type FaceMeasurer struct {
	Face  font.Face
	Scale float64
}

func (m FaceMeasurer) Measure(text string) vector.Size {
	scale := m.Scale
	if scale <= 0 {
		scale = 1
	}
	lines := strings.Split(text, "\n")
	var widest fixed.Int26_6
	for _, ln := range lines {
		if w := font.MeasureString(m.Face, ln); w > widest {
			widest = w
		}
	}
	lineH := m.Face.Metrics().Height
	return vector.Size{
		W: float64(widest.Ceil()) * scale,
		H: float64(lineH.Ceil()*len(lines)) * scale,
	}
}

// Basic measures with basicfont.Face7x13 scaled to sizePx. Deterministic
// across platforms, which keeps hit-testing reproducible in tests.
func Basic(sizePx float64) FaceMeasurer {
	f := basicfont.Face7x13
	native := float64(f.Metrics().Height.Ceil())
	return FaceMeasurer{Face: f, Scale: sizePx / native}
}

// FromTTF measures with a TrueType/OpenType font at sizePx (72 DPI), matching
// hosts that render text with the same font file.
func FromTTF(data []byte, sizePx float64) (FaceMeasurer, error) {
	ft, err := opentype.Parse(data)
	if err != nil {
		return FaceMeasurer{}, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{Size: sizePx, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return FaceMeasurer{}, fmt.Errorf("font face: %w", err)
	}
	return FaceMeasurer{Face: face, Scale: 1}, nil
}

// GoRegular measures with the Go Regular TrueType font at sizePx.
func GoRegular(sizePx float64) (FaceMeasurer, error) {
	m, err := FromTTF(goregular.TTF, sizePx)
	if err != nil {
		return FaceMeasurer{}, fmt.Errorf("goregular: %w", err)
	}
	return m, nil
}
