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
	"math"
	"testing"
)

func TestNextScaleSingleEnlargingStep(t *testing.T) {
	if got := NextScale(1.0, 2.0); !approx(got, 1.01) {
		t.Fatalf("NextScale(1, 2) = %v, want 1.01", got)
	}
}

func TestNextScaleSingleShrinkingStep(t *testing.T) {
	if got := NextScale(1.0, 0.5); !approx(got, 0.985) {
		t.Fatalf("NextScale(1, 0.5) = %v, want 0.985", got)
	}
}

func TestNextScaleNoChangeAtUnity(t *testing.T) {
	if got := NextScale(1.7, 1.0); !approx(got, 1.7) {
		t.Fatalf("NextScale(1.7, 1) = %v, want 1.7", got)
	}
}

func TestNextScaleCompounds(t *testing.T) {
	s := 1.0
	s = NextScale(s, 2.0)
	s = NextScale(s, 2.0)
	if !approx(s, 1.01*1.01) {
		t.Fatalf("two steps = %v, want %v", s, 1.01*1.01)
	}
}

func TestNextScaleClampsForAllInputs(t *testing.T) {
	s := 1.0
	for i := 0; i < 10000; i++ {
		s = NextScale(s, 50)
		if s > 3.0 {
			t.Fatalf("scale %v exceeded max at iteration %d", s, i)
		}
	}
	if s != 3.0 {
		t.Fatalf("expected saturation at 3.0, got %v", s)
	}
	for i := 0; i < 10000; i++ {
		s = NextScale(s, 0)
		if s < 0.5 {
			t.Fatalf("scale %v fell below min at iteration %d", s, i)
		}
	}
	if s != 0.5 {
		t.Fatalf("expected saturation at 0.5, got %v", s)
	}
}

func TestNextScaleTreatsZeroAsDefault(t *testing.T) {
	if got := NextScale(0, 2.0); !approx(got, 1.01) {
		t.Fatalf("NextScale(0, 2) = %v, want 1.01", got)
	}
}

func TestNextScaleIgnoresNonFiniteRatios(t *testing.T) {
	for _, g := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if got := NextScale(1.2, g); got != 1.2 {
			t.Fatalf("NextScale(1.2, %v) = %v, want 1.2", g, got)
		}
	}
}
