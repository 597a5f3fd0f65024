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

// Package cfg builds control-flow graphs over [ir.Procedure] bodies.
//
// Graphs are immutable after construction and safe to share read-only across
// concurrent analyses. Construction is not defined for every body shape;
// callers must treat a nil graph as "fall back to syntactic analysis", never
// as "variable leaks".
package cfg

import (
	"iter"

	"fillmore-labs.com/releaseguard/ir"
)

// RegionKind classifies a protected or loop-like region enclosing a block.
type RegionKind uint8

const (
	// RegionTry is the protected body of a try region.
	RegionTry RegionKind = iota + 1

	// RegionCatch is an exception-handler region.
	RegionCatch

	// RegionFinally is a guaranteed-cleanup region: it executes before
	// control leaves the enclosing protected region, regardless of how it
	// is left.
	RegionFinally

	// RegionLoop is a loop body, including the loop head.
	RegionLoop
)

// Region is one link in a block's enclosing-region chain, innermost first.
type Region struct {
	Kind   RegionKind
	Parent *Region
}

// InFinally reports whether the chain contains a guaranteed-cleanup region.
func (r *Region) InFinally() bool {
	for ; r != nil; r = r.Parent {
		if r.Kind == RegionFinally {
			return true
		}
	}

	return false
}

// EnclosingLoop returns the innermost loop region in the chain, or nil.
func (r *Region) EnclosingLoop() *Region {
	for ; r != nil; r = r.Parent {
		if r.Kind == RegionLoop {
			return r
		}
	}

	return nil
}

// Encloses reports whether target is r itself or one of r's ancestors.
func (r *Region) Encloses(target *Region) bool {
	for ; r != nil; r = r.Parent {
		if r == target {
			return true
		}
	}

	return false
}

// Block is a basic block: an ordered list of operations with a single entry
// point and at most two outgoing edges. Blocks never mutate after
// construction.
type Block struct {
	// Index is the block's position in [Graph.Blocks].
	Index int

	// Ops are the operations executed when control enters the block.
	Ops []ir.Stmt

	// Succ is the fallthrough successor, nil for terminal blocks.
	Succ *Block

	// Branch is the conditional-branch successor, nil when the block does
	// not branch.
	Branch *Block

	// Region is the innermost enclosing region, nil outside any region.
	Region *Region
}

// Successors yields the non-nil outgoing edges, fallthrough first.
func (b *Block) Successors() iter.Seq[*Block] {
	return func(yield func(*Block) bool) {
		if b.Succ != nil && !yield(b.Succ) {
			return
		}

		if b.Branch != nil {
			yield(b.Branch)
		}
	}
}

// Terminal reports whether the block has no outgoing edges.
func (b *Block) Terminal() bool {
	return b.Succ == nil && b.Branch == nil
}

// Graph is the control-flow graph of one procedure, with a distinguished
// entry and exit block.
type Graph struct {
	Entry  *Block
	Exit   *Block
	Blocks []*Block
}
