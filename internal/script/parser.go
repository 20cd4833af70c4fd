/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	gojsonschema "github.com/xeipuuv/gojsonschema"
)

//go:embed script.schema.json
var schemaJSON []byte

// Schema returns the JSON Schema scripts are validated against.
func Schema() []byte { return append([]byte(nil), schemaJSON...) }

type rawScript struct {
	Version int       `json:"version"`
	Name    string    `json:"name"`
	Steps   []rawStep `json:"steps"`
}

type rawStep struct {
	Op      string    `json:"op"`
	As      string    `json:"as"`
	Element string    `json:"element"`
	Page    int       `json:"page"`
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	DX      float64   `json:"dx"`
	DY      float64   `json:"dy"`
	Text    string    `json:"text"`
	URI     string    `json:"uri"`
	File    string    `json:"file"`
	Width   int       `json:"width"`
	Height  int       `json:"height"`
	Cancel  bool      `json:"cancel"`
	Scales  []float64 `json:"scales"`
}

// Parse validates data against the script schema and converts it into
// typed steps. Errors are collected rather than stopping at the first one;
// a non-empty error list means the Script must not be run.
//
// Format:
//
//	{"version": 1, "steps": [{"op": "addText", "as": "title"}, {"op": "tap", "element": "title"}]}
func Parse(data []byte) (Script, []Error) {
	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaJSON), gojsonschema.NewBytesLoader(data))
	if err != nil {
		return Script{}, []Error{{Step: -1, Message: fmt.Sprintf("invalid json: %v", err)}}
	}
	if !result.Valid() {
		errs := make([]Error, 0, len(result.Errors()))
		for _, re := range result.Errors() {
			errs = append(errs, fromSchemaError(re))
		}
		return Script{}, errs
	}

	var raw rawScript
	if err := json.Unmarshal(data, &raw); err != nil {
		return Script{}, []Error{{Step: -1, Message: fmt.Sprintf("decode: %v", err)}}
	}

	s := Script{Name: raw.Name, Steps: make([]Step, 0, len(raw.Steps))}
	var errs []Error
	labels := map[string]int{}
	for i, r := range raw.Steps {
		st := Step{
			Index: i, Op: Op(r.Op), As: r.As, Element: r.Element, Page: r.Page,
			X: r.X, Y: r.Y, DX: r.DX, DY: r.DY, Text: r.Text,
			Cancel: r.Cancel, File: r.File, URI: r.URI, Width: r.Width, Height: r.Height,
			Scales: r.Scales,
		}
		if st.As != "" {
			if st.Op != OpAddText && st.Op != OpAddImage {
				errs = append(errs, Error{Step: i, Field: "as", Message: fmt.Sprintf("not allowed on %s", st.Op)})
			} else if prev, dup := labels[st.As]; dup {
				errs = append(errs, Error{Step: i, Field: "as", Message: fmt.Sprintf("label %q already bound at step %d", st.As, prev)})
			} else {
				labels[st.As] = i
			}
		}
		s.Steps = append(s.Steps, st)
	}
	return s, errs
}

// fromSchemaError maps a gojsonschema field path like "steps.3.element"
// onto a step index and field.
func fromSchemaError(re gojsonschema.ResultError) Error {
	e := Error{Step: -1, Message: re.Description()}
	parts := strings.Split(re.Field(), ".")
	if len(parts) >= 2 && parts[0] == "steps" {
		if n, err := strconv.Atoi(parts[1]); err == nil {
			e.Step = n
			e.Field = strings.Join(parts[2:], ".")
		}
	}
	if e.Field == "" {
		if p, ok := re.Details()["property"].(string); ok && e.Step >= 0 {
			e.Field = p
		}
	}
	if e.Step < 0 && re.Field() != "(root)" {
		e.Message = re.Field() + ": " + e.Message
	}
	return e
}
