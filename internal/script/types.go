/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "fmt"

// Script is a parsed sequence of editor steps.
type Script struct {
	Name  string
	Steps []Step
}

// Op names a step.
type Op string

const (
	OpAddPage    Op = "addPage"
	OpSelectPage Op = "selectPage"
	OpAddText    Op = "addText"
	OpAddImage   Op = "addImage"
	OpTap        Op = "tap"
	OpTapAt      Op = "tapAt"
	OpType       Op = "type"
	OpSubmit     Op = "submit"
	OpDelete     Op = "delete"
	OpDrag       Op = "drag"
	OpMove       Op = "move"
	OpPinch      Op = "pinch"
)

// Step is one editor action. Which fields matter depends on Op.
// Element and As hold labels; a label not bound by an earlier As is used
// as a literal element id.
type Step struct {
	Index   int
	Op      Op
	As      string
	Element string
	Page    int
	X, Y    float64
	DX, DY  float64
	Text    string

	// addImage: either Cancel, a File read from disk, or a URI with
	// explicit natural dimensions.
	Cancel bool
	File   string
	URI    string
	Width  int
	Height int

	Scales []float64
}

// Error represents a parse error with step context. Step is -1 for
// document-level problems.
type Error struct {
	Step    int
	Field   string
	Message string
}

func (e Error) Error() string {
	if e.Step < 0 {
		return e.Message
	}
	if e.Field != "" {
		return fmt.Sprintf("step %d: %s: %s", e.Step, e.Field, e.Message)
	}
	return fmt.Sprintf("step %d: %s", e.Step, e.Message)
}
