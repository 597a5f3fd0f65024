// Copyright 2026 Oliver Eikemeier. All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package annotate provides the secondary passes that enrich a release
// verdict: loop-scope creation/release matching and the heuristic
// interprocedural ownership notes.
package annotate

import (
	"context"

	"fillmore-labs.com/releaseguard/internal/cfg"
	"fillmore-labs.com/releaseguard/ir"
)

// LoopInfo describes how the tracked variable's creation and release relate
// to loop scopes.
type LoopInfo struct {
	// AcquiredInLoop reports whether the variable is created inside a loop.
	AcquiredInLoop bool

	// ReleasedInLoop reports whether any release happens inside a loop.
	ReleasedInLoop bool

	// Mismatch reports a release inside a loop whose scope does not enclose
	// the creation: the resource may be released on only some iterations,
	// or released repeatedly.
	Mismatch bool
}

// Loops inspects loop scopes of the creation and release blocks of the
// tracked variable. A mismatch downgrades an otherwise-positive verdict;
// the caller applies that override.
func Loops(ctx context.Context, g *cfg.Graph, v *ir.Variable, releaseBlocks map[*cfg.Block]bool) (LoopInfo, error) {
	var info LoopInfo

	acquired := acquisitionBlock(g, v)

	var acquiredRegion *cfg.Region
	if acquired != nil {
		acquiredRegion = acquired.Region
		info.AcquiredInLoop = acquiredRegion.EnclosingLoop() != nil
	}

	for b := range releaseBlocks {
		if err := ctx.Err(); err != nil {
			return LoopInfo{}, err
		}

		loop := b.Region.EnclosingLoop()
		if loop == nil {
			continue
		}

		info.ReleasedInLoop = true

		// Creation outside the loop that performs the release.
		if !acquiredRegion.Encloses(loop) {
			info.Mismatch = true
		}
	}

	return info, nil
}

func acquisitionBlock(g *cfg.Graph, v *ir.Variable) *cfg.Block {
	for _, b := range g.Blocks {
		for _, op := range b.Ops {
			if acq, ok := op.(*ir.Acquire); ok && acq.Var == v {
				return b
			}
		}
	}

	return nil
}
