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

// Package dataflow decides whether the tracked variable is released before
// every normal or abnormal exit of a procedure.
//
// The decision is a forward monotone dataflow fixed point with a two-valued
// per-block state ("released so far"), so each block is processed at most
// twice and the running time is linear in the number of edges, independent
// of the path count. This is why the worklist form is the source of truth
// instead of path enumeration, which is exponential and used for evidence
// only.
package dataflow

import (
	"context"

	"fillmore-labs.com/releaseguard/internal/cfg"
	"fillmore-labs.com/releaseguard/ir"
)

// item is one worklist entry: a block together with the released-so-far
// state on entry.
type item struct {
	block    *cfg.Block
	released bool
}

// visit flags for the two possible entry states of a block.
const (
	seenUnreleased uint8 = 1 << iota
	seenReleased
)

// AllPathsReleased reports whether the variable is released before every
// exit reachable from the entry block. releaseBlocks is the precomputed set
// of blocks containing a release event; transfers reports whether a return
// operation resolves to handing the variable back to the caller (such
// returns need no preceding release).
func AllPathsReleased(
	ctx context.Context,
	g *cfg.Graph,
	releaseBlocks map[*cfg.Block]bool,
	transfers func(*ir.Return) bool,
) (bool, error) {
	visited := make(map[*cfg.Block]uint8, len(g.Blocks))

	worklist := []item{{block: g.Entry, released: false}}
	visited[g.Entry] = seenUnreleased

	for len(worklist) > 0 {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		next := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]

		block := next.block
		released := next.released || releaseBlocks[block]

		// Exits inside the block leave the procedure without completing
		// later statements, so the variable must be released (or handed
		// over) before reaching them.
		exits := false

		for _, op := range block.Ops {
			switch op := op.(type) {
			case *ir.Return:
				exits = true

				if !released && !transfers(op) {
					return false, nil
				}

			case *ir.Throw:
				exits = true

				if !released {
					return false, nil
				}
			}
		}

		if block == g.Exit || block.Terminal() {
			// The block leaves the procedure. Explicit exit operations were
			// checked above; falling off the end requires a prior release.
			if !released && !exits {
				return false, nil
			}

			continue
		}

		for succ := range block.Successors() {
			if !enqueue(visited, succ, released) {
				continue
			}

			worklist = append(worklist, item{block: succ, released: released})
		}
	}

	return true, nil
}

// enqueue marks the (block, state) pair visited, reporting false when it was
// already seen.
func enqueue(visited map[*cfg.Block]uint8, b *cfg.Block, released bool) bool {
	flag := seenUnreleased
	if released {
		flag = seenReleased
	}

	if visited[b]&flag != 0 {
		return false
	}

	visited[b] |= flag

	return true
}
