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

// Package paths enumerates bounded execution paths through a control-flow
// graph.
//
// Enumeration provides evidence for diagnostics (which paths miss a
// release), never the correctness verdict: path counts are exponential in
// branch depth, so the verdict comes from the worklist dataflow instead.
package paths

import (
	"context"
	"slices"

	"fillmore-labs.com/releaseguard/internal/cfg"
)

// Limits bound the traversal so it stays finite on cyclic graphs.
type Limits struct {
	// MaxDepth aborts a branch once its block count exceeds this value.
	MaxDepth int

	// MaxBlockVisits aborts a branch once a single block has recurred more
	// than this many times within the current path.
	MaxBlockVisits int

	// MaxPaths stops enumeration once this many paths have been recorded.
	MaxPaths int
}

// DefaultLimits returns the default traversal bounds.
func DefaultLimits() Limits {
	return Limits{
		MaxDepth:       100,
		MaxBlockVisits: 3,
		MaxPaths:       100,
	}
}

// Path is one bounded entry-to-exit walk through the graph.
type Path struct {
	// Blocks is the traversed block sequence, entry first.
	Blocks []*cfg.Block

	// Cleanups are the guaranteed-cleanup regions the path passes through.
	Cleanups []*cfg.Region
}

// Enumerate produces all bounded paths from the entry toward the exit block,
// following both conditional and fallthrough edges. A path ends at the exit
// block or at any terminal block (return, abnormal exit). Branches that hit
// a limit are abandoned silently; hitting a limit is indeterminate evidence,
// not a failure.
func Enumerate(ctx context.Context, g *cfg.Graph, limits Limits) ([]Path, error) {
	e := &enumerator{
		graph:  g,
		limits: limits,
		visits: make(map[*cfg.Block]int),
	}

	if err := e.walk(ctx, g.Entry, nil, nil); err != nil {
		return nil, err
	}

	return e.found, nil
}

// enumerator holds the depth-first traversal state.
type enumerator struct {
	graph  *cfg.Graph
	limits Limits
	visits map[*cfg.Block]int // per-block recurrence within the current path
	found  []Path
}

func (e *enumerator) walk(ctx context.Context, b *cfg.Block, trail []*cfg.Block, cleanups []*cfg.Region) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(e.found) >= e.limits.MaxPaths || len(trail) >= e.limits.MaxDepth {
		return nil
	}

	if e.visits[b] >= e.limits.MaxBlockVisits {
		return nil
	}

	trail = append(trail, b)

	// Tag the path when it enters a guaranteed-cleanup region.
	if r := b.Region; r.InFinally() && !slices.Contains(cleanups, r) {
		cleanups = append(cleanups, r)
	}

	if b == e.graph.Exit || b.Terminal() {
		e.found = append(e.found, Path{
			Blocks:   slices.Clone(trail),
			Cleanups: slices.Clone(cleanups),
		})

		return nil
	}

	e.visits[b]++
	defer func() { e.visits[b]-- }()

	for succ := range b.Successors() {
		if err := e.walk(ctx, succ, trail, cleanups); err != nil {
			return err
		}
	}

	return nil
}
