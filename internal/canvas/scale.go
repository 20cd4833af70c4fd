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

	"scrapbook/internal/domain"
)

// Pinch damping. Enlarging is damped three times harder than shrinking so
// small jitter in a spread gesture does not run away.
const (
	EnlargeDamping = 0.01
	ShrinkDamping  = 0.03
)

// NextScale returns the scale after one pinch-move event with raw ratio g
// (1.0 means no change since the gesture began). Steps compound: the caller
// feeds the result back in as current on the next event. A zero current
// scale is treated as the 1.0 default; a non-finite ratio changes nothing.
func NextScale(current, g float64) float64 {
	if current == 0 {
		current = 1
	}
	if math.IsNaN(g) || math.IsInf(g, 0) {
		return domain.ClampScale(current)
	}
	var factor float64
	if g > 1 {
		factor = 1 + (g-1)*EnlargeDamping
	} else {
		factor = 1 + (g-1)*ShrinkDamping
	}
	return domain.ClampScale(current * factor)
}
