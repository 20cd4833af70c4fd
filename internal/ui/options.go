/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package ui hosts the desktop editor. The fyne front end is only compiled
// with -tags fyne; other builds get a stub so CI stays headless.
package ui

import (
	"log/slog"
	"strings"

	"scrapbook/internal/domain"
	"scrapbook/internal/textlayout"
)

// Options configures the desktop editor.
type Options struct {
	// Extensions filters the image file dialog, e.g. ".png".
	Extensions []string
	Log        *slog.Logger
}

// extensionFilter returns lower-cased extensions with a leading dot.
func extensionFilter(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// TextMeasurer returns the measurer matching how the desktop host draws text:
// the fyne theme font when compiled in, else Go Regular, else the bitmap face.
func TextMeasurer() textlayout.Measurer {
	if data := themeFont(); len(data) > 0 {
		if m, err := textlayout.FromTTF(data, domain.FontSize); err == nil {
			return m
		}
	}
	if m, err := textlayout.GoRegular(domain.FontSize); err == nil {
		return m
	}
	return textlayout.Basic(domain.FontSize)
}
