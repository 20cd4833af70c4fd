/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package vector

import (
	"math"
	"testing"
)

func TestRectContainsAndInset(t *testing.T) {
	r := R(10, 20, 100, 50)
	if !r.Contains(Pt{10, 20}) || !r.Contains(Pt{110, 70}) {
		t.Fatalf("expected edge points to be contained")
	}
	in := r.Inset(5, 5)
	if in.X != 15 || in.Y != 25 || in.W != 90 || in.H != 40 {
		t.Fatalf("unexpected inset: %+v", in)
	}
}

func TestAffineBasic(t *testing.T) {
	m := Translate(10, 5).Mul(Scale(2, 3))
	p := m.Apply(Pt{1, 1})
	if p.X != 12 || p.Y != 8 { // (1*2+10, 1*3+5)
		t.Fatalf("unexpected transform result: %+v", p)
	}
}

func TestInvertRoundTrips(t *testing.T) {
	m := Translate(7, -3).Mul(Scale(2, 4))
	p := m.Invert().Apply(m.Apply(Pt{3, 5}))
	if math.Abs(p.X-3) > 1e-9 || math.Abs(p.Y-5) > 1e-9 {
		t.Fatalf("inverse did not round trip: %+v", p)
	}
	if Scale(0, 0).Invert() != Identity {
		t.Fatalf("singular matrix should invert to identity")
	}
}

func TestScaleAboutKeepsCenter(t *testing.T) {
	r := R(50, 100, 300, 200)
	got := r.Transform(ScaleAbout(r.Center(), 2))
	want := R(-100, 0, 600, 400)
	if got != want {
		t.Fatalf("scaled rect = %+v, want %+v", got, want)
	}
	if got.Center() != r.Center() {
		t.Fatalf("center moved: %+v vs %+v", got.Center(), r.Center())
	}
}

func TestIntersects(t *testing.T) {
	a := R(0, 0, 10, 10)
	b := R(5, 5, 10, 10)
	if !a.Intersects(b) || a.Intersects(R(20, 20, 1, 1)) {
		t.Fatalf("unexpected intersection results")
	}
}
