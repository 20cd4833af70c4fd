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
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"scrapbook/internal/canvas"
	"scrapbook/internal/domain"
	"scrapbook/internal/editor"
	applog "scrapbook/internal/log"
)

func newRunner(dir string) *Runner {
	n := 0
	doc := canvas.New(
		canvas.WithLogger(applog.Discard()),
		canvas.WithIDFunc(func() string { n++; return fmt.Sprintf("element-%d", n) }),
	)
	return &Runner{
		Controller: editor.New(doc, editor.WithLogger(applog.Discard())),
		Dir:        dir,
		Log:        applog.Discard(),
	}
}

func mustParse(t *testing.T, src string) Script {
	t.Helper()
	s, errs := Parse([]byte(src))
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
	return s
}

func TestParseSteps(t *testing.T) {
	s := mustParse(t, `{"version": 1, "name": "demo", "steps": [
		{"op": "addText", "as": "title"},
		{"op": "tap", "element": "title"},
		{"op": "type", "text": "Hello"},
		{"op": "submit"},
		{"op": "pinch", "element": "title", "scales": [1.5, 2]}
	]}`)
	if s.Name != "demo" || len(s.Steps) != 5 {
		t.Fatalf("unexpected script: %+v", s)
	}
	want := Step{Index: 4, Op: OpPinch, Element: "title", Scales: []float64{1.5, 2}}
	if diff := cmp.Diff(want, s.Steps[4]); diff != "" {
		t.Fatalf("step 4 mismatch (-want +got):\n%s", diff)
	}
}

func TestParseReportsSchemaErrorsWithStepIndex(t *testing.T) {
	_, errs := Parse([]byte(`{"steps": [{"op": "addPage"}, {"op": "tap"}, {"op": "explode"}]}`))
	if len(errs) == 0 {
		t.Fatal("expected errors")
	}
	seen := map[int]bool{}
	for _, e := range errs {
		seen[e.Step] = true
	}
	if !seen[1] || !seen[2] || seen[0] {
		t.Fatalf("errors not attributed to steps 1 and 2: %+v", errs)
	}
}

func TestParseAddImageVariants(t *testing.T) {
	cases := []struct {
		name  string
		step  string
		valid bool
	}{
		{"cancel", `{"op": "addImage", "cancel": true}`, true},
		{"file", `{"op": "addImage", "file": "a.png"}`, true},
		{"uri", `{"op": "addImage", "uri": "file:///a.png", "width": 4, "height": 3}`, true},
		{"uri without size", `{"op": "addImage", "uri": "file:///a.png"}`, false},
		{"nothing", `{"op": "addImage"}`, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, errs := Parse([]byte(`{"steps": [` + tc.step + `]}`))
			if got := len(errs) == 0; got != tc.valid {
				t.Fatalf("valid = %v, want %v (errs %+v)", got, tc.valid, errs)
			}
		})
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, errs := Parse([]byte(`{"steps": [`))
	if len(errs) != 1 || errs[0].Step != -1 {
		t.Fatalf("unexpected errors: %+v", errs)
	}
}

func TestParseRejectsDuplicateAndMisplacedLabels(t *testing.T) {
	_, errs := Parse([]byte(`{"steps": [
		{"op": "addText", "as": "a"},
		{"op": "addText", "as": "a"},
		{"op": "submit", "as": "b"}
	]}`))
	if len(errs) != 2 {
		t.Fatalf("want 2 errors, got %+v", errs)
	}
	if errs[0].Step != 1 || !strings.Contains(errs[0].Error(), "already bound") {
		t.Fatalf("unexpected first error: %v", errs[0])
	}
	if errs[1].Step != 2 || errs[1].Field != "as" {
		t.Fatalf("unexpected second error: %v", errs[1])
	}
}

func TestRunEditsTextAndScalesImage(t *testing.T) {
	s := mustParse(t, `{"steps": [
		{"op": "addText", "as": "t"},
		{"op": "tap", "element": "t"},
		{"op": "type", "text": "Hello"},
		{"op": "submit"},
		{"op": "addImage", "as": "img", "uri": "file:///a.jpg", "width": 600, "height": 300},
		{"op": "pinch", "element": "img", "scales": [2]},
		{"op": "tap", "element": "img"},
		{"op": "pinch", "element": "img", "scales": [2, 2]},
		{"op": "drag", "element": "img", "dx": 5, "dy": 5}
	]}`)
	r := newRunner("")
	doc, outcomes, err := r.Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if outcomes[5].Changed {
		t.Fatal("pinch before selection should not change the document")
	}
	if !outcomes[7].Changed {
		t.Fatal("pinch on selected image should change the document")
	}
	els := doc.Pages[0].Elements
	if len(els) != 2 {
		t.Fatalf("elements = %d, want 2", len(els))
	}
	if got := els[0].(*domain.TextElement).Content; got != "Hello" {
		t.Fatalf("content = %q", got)
	}
	img := els[1].(*domain.ImageElement)
	if img.Dimensions != (domain.Size{Width: 300, Height: 150}) {
		t.Fatalf("dimensions = %+v", img.Dimensions)
	}
	if img.Scale < 1.0200 || img.Scale > 1.0202 {
		t.Fatalf("scale = %v, want 1.0201", img.Scale)
	}
	if img.Position != (domain.Point{X: 55, Y: 105}) {
		t.Fatalf("position = %+v", img.Position)
	}
}

func TestRunCanceledImageLeavesPageUnchanged(t *testing.T) {
	s := mustParse(t, `{"steps": [{"op": "addPage"}, {"op": "selectPage", "page": 1}, {"op": "addImage", "cancel": true}]}`)
	doc, outcomes, err := newRunner("").Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(doc.Pages) != 2 || len(doc.Pages[1].Elements) != 0 {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if outcomes[2].Changed {
		t.Fatal("canceled pick reported a change")
	}
}

func TestRunImageFromFile(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "wide.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 40, 10))); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	s := mustParse(t, `{"steps": [{"op": "addImage", "file": "wide.png"}]}`)
	doc, _, err := newRunner(dir).Run(context.Background(), s)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	img := doc.Pages[0].Elements[0].(*domain.ImageElement)
	if img.Dimensions.Height != 75 {
		t.Fatalf("height = %v, want 75", img.Dimensions.Height)
	}
	if !strings.HasPrefix(img.SourceURI, "file://") {
		t.Fatalf("uri = %q", img.SourceURI)
	}
}

func TestRunMissingFileStops(t *testing.T) {
	s := mustParse(t, `{"steps": [{"op": "addText"}, {"op": "addImage", "file": "missing.png"}, {"op": "addPage"}]}`)
	doc, outcomes, err := newRunner(t.TempDir()).Run(context.Background(), s)
	if err == nil || !strings.Contains(err.Error(), "step 1") {
		t.Fatalf("err = %v", err)
	}
	if len(outcomes) != 1 || len(doc.Pages) != 1 {
		t.Fatalf("run continued past failure: outcomes=%d pages=%d", len(outcomes), len(doc.Pages))
	}
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	s := mustParse(t, `{"steps": [{"op": "addPage"}]}`)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, outcomes, err := newRunner("").Run(ctx, s)
	if err == nil || len(outcomes) != 0 {
		t.Fatalf("err=%v outcomes=%d", err, len(outcomes))
	}
}

func TestSchemaIsCopy(t *testing.T) {
	a := Schema()
	a[0] = 'x'
	if Schema()[0] == 'x' {
		t.Fatal("Schema exposed the embedded bytes")
	}
}
