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

package verify

import "go/token"

// Pattern identifies which release guarantee the verdict rests on.
type Pattern uint8

//go:generate go tool stringer -type Pattern -linecomment -output pattern_string.go
const (
	// PatternNone means no release guarantee was found.
	PatternNone Pattern = iota // none

	// PatternScopedAcquisition means the variable's declaration is governed
	// by a scoped-acquisition construct.
	PatternScopedAcquisition // scoped-acquisition

	// PatternGuaranteedCleanup means a release happens in a
	// guaranteed-cleanup block.
	PatternGuaranteedCleanup // guaranteed-cleanup

	// PatternOwnershipTransfer means every explicit exit hands the variable
	// back to the caller.
	PatternOwnershipTransfer // ownership-transfer

	// PatternExplicitAllPaths means a release precedes every exit.
	PatternExplicitAllPaths // explicit-all-paths

	// PatternIncomplete means releases exist but do not cover every path.
	PatternIncomplete // incomplete
)

// Verdict is the engine's structured conclusion plus supporting evidence.
//
// ReleasedOnAllPaths is meaningful only when Succeeded is true; a verdict
// with ReleasedOnAllPaths set always carries a non-none Pattern and a
// human-readable Reason.
type Verdict struct {
	// Succeeded reports whether the analysis reached a determinate
	// conclusion. "Could not determine" is not an error: it is a failed
	// verdict with a Reason.
	Succeeded bool

	// ReleasedOnAllPaths reports whether the variable is guaranteed to be
	// released on every execution path.
	ReleasedOnAllPaths bool

	// Reason is a human-readable explanation of the verdict.
	Reason string

	// Pattern is the guarantee the verdict rests on.
	Pattern Pattern

	// ProblematicPaths lists bounded execution paths that miss a release.
	// Evidence for diagnostics only; may be incomplete on cyclic graphs.
	ProblematicPaths []Path

	// Loop carries the loop-scope annotation, when a graph was available.
	Loop *LoopInfo

	// Interprocedural lists calls that may take ownership of the variable.
	// Heuristic and advisory: never part of the verdict itself.
	Interprocedural []Advisory
}

// Path is one execution path lacking a release, reported as evidence.
type Path struct {
	// Blocks are control-flow graph block indices, entry first.
	Blocks []int

	// End is the source position of the last operation on the path, when
	// known.
	End token.Pos

	// ThroughCleanup reports whether the path passes a guaranteed-cleanup
	// region.
	ThroughCleanup bool
}

// LoopInfo describes how creation and release relate to loop scopes.
type LoopInfo struct {
	// AcquiredInLoop reports whether the variable is created inside a loop.
	AcquiredInLoop bool

	// ReleasedInLoop reports whether any release happens inside a loop.
	ReleasedInLoop bool

	// Mismatch reports a release inside a loop that does not enclose the
	// creation; this downgrades an otherwise-positive verdict.
	Mismatch bool
}

// Advisory notes a call that heuristically may release or take ownership of
// the variable.
type Advisory struct {
	// Callee is the resolved or syntactic callee name.
	Callee string

	// Pos is the call's source position.
	Pos token.Pos

	// Reason explains why the call was flagged.
	Reason string
}
