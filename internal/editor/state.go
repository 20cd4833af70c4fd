/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package editor implements the element transform controller: the
// selection and text-editing state machine that turns taps, drags and pinch
// gestures into document model updates.
package editor

import "fmt"

// Mode is the controller state.
type Mode int

const (
	// Idle means nothing is selected.
	Idle Mode = iota
	// Selected means ElementID is the target for delete and pinch.
	Selected
	// EditingText means ElementID is a text element being composed in Buffer.
	EditingText
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case Selected:
		return "selected"
	case EditingText:
		return "editing"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// State is the ephemeral selection/edit state. It is not part of the document.
// Buffer is only meaningful in EditingText and holds uncommitted text.
type State struct {
	Mode      Mode
	ElementID string
	Buffer    string
}

func (s State) String() string {
	if s.Mode == Idle {
		return "idle"
	}
	return fmt.Sprintf("%s(%s)", s.Mode, s.ElementID)
}

// IsSelected reports whether id is the selected element (not being edited).
func (s State) IsSelected(id string) bool { return s.Mode == Selected && s.ElementID == id }

// IsEditing reports whether id is the text element being edited.
func (s State) IsEditing(id string) bool { return s.Mode == EditingText && s.ElementID == id }

// PinchPhase follows the recognizer's begin/move/end lifecycle.
type PinchPhase int

const (
	PinchBegan PinchPhase = iota
	PinchChanged
	PinchEnded
)

// PinchEvent carries the raw scale ratio since the gesture began.
type PinchEvent struct {
	ElementID string
	Scale     float64
	Phase     PinchPhase
}
