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
	"strings"
	"testing"

	"scrapbook/internal/domain"
	"scrapbook/internal/textlayout"
)

func TestExtensionFilter(t *testing.T) {
	got := strings.Join(extensionFilter([]string{"PNG", " .jpg ", "", "webp"}), ",")
	if got != ".png,.jpg,.webp" {
		t.Fatalf("extensionFilter = %q", got)
	}
}

func TestTextMeasurerMeasuresOutlineFont(t *testing.T) {
	m := TextMeasurer()
	basic := textlayout.Basic(domain.FontSize).Measure("New text")
	got := m.Measure("New text")
	if got.W <= 0 || got.H <= 0 {
		t.Fatalf("Measure = %+v", got)
	}
	if got == basic {
		t.Fatalf("TextMeasurer fell back to the bitmap face: %+v", got)
	}
}
