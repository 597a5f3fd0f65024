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

// Package fallback analyzes statement order directly on the procedure
// syntax.
//
// It hosts the always-correct shortcuts (scoped acquisition, release in a
// guaranteed-cleanup block) shared with the graph-based engine, plus a
// conservative backward scan used when control-flow graph construction is
// unavailable. The scan rejects patterns it cannot verify rather than
// asserting safety.
package fallback

import (
	"context"

	"fillmore-labs.com/releaseguard/ir"
)

// IsRelease reports whether a call operation invokes the release protocol on
// the tracked variable. It is injected by the caller so the analysis stays
// resource-kind-agnostic.
type IsRelease func(*ir.Call, *ir.Variable) bool

// Outcome is the fallback analyzer's conclusion.
type Outcome uint8

const (
	// NotReleased means some exit is reachable without a release.
	NotReleased Outcome = iota

	// Unknown means the scan hit a construct it cannot verify.
	Unknown

	// ScopedAcquisition means the variable's declaration is governed by a
	// scoped-acquisition construct.
	ScopedAcquisition

	// GuaranteedCleanup means a release happens in a guaranteed-cleanup
	// block.
	GuaranteedCleanup

	// OrderVerified means the backward scan proved a release before every
	// exit.
	OrderVerified
)

// Released reports whether the outcome proves the variable released on all
// paths.
func (o Outcome) Released() bool {
	return o >= ScopedAcquisition
}

// Scoped reports whether the variable's declaration is governed by a
// scoped-acquisition construct, which guarantees release on every exit path,
// including abnormal ones.
func Scoped(p *ir.Procedure, v *ir.Variable) bool {
	found := false

	body := &ir.Block{Stmts: p.Statements()}
	body.Walk(func(s ir.Stmt) bool {
		if acq, ok := s.(*ir.Acquire); ok && acq.Var == v && acq.Scoped {
			found = true

			return false
		}

		return true
	})

	return found
}

// CleanupRelease reports whether a release event occurs inside a
// guaranteed-cleanup block, which always executes before the procedure
// completes, even abnormally.
func CleanupRelease(p *ir.Procedure, v *ir.Variable, isRelease IsRelease) bool {
	found := false

	body := &ir.Block{Stmts: p.Statements()}
	body.Walk(func(s ir.Stmt) bool {
		t, ok := s.(*ir.Try)
		if !ok || t.Finally == nil {
			return true
		}

		if containsRelease(t.Finally, v, isRelease) {
			found = true

			return false
		}

		return true
	})

	return found
}

func containsRelease(b *ir.Block, v *ir.Variable, isRelease IsRelease) bool {
	found := false

	b.Walk(func(s ir.Stmt) bool {
		if call, ok := s.(*ir.Call); ok && isRelease(call, v) {
			found = true

			return false
		}

		return true
	})

	return found
}

// Analyze degrades to statement-order scanning when graph construction is
// unavailable. After re-checking the shortcuts, it scans backward from every
// explicit exit and from the implicit fallthrough exit, looking for a
// preceding release in the same straight-line statement list.
func Analyze(ctx context.Context, p *ir.Procedure, v *ir.Variable, isRelease IsRelease) (Outcome, error) {
	if err := ctx.Err(); err != nil {
		return Unknown, err
	}

	if Scoped(p, v) {
		return ScopedAcquisition, nil
	}

	if CleanupRelease(p, v, isRelease) {
		return GuaranteedCleanup, nil
	}

	return scanStatementOrder(ctx, p.Statements(), v, isRelease)
}

// scanStatementOrder performs the linear backward scans of the fallback
// analyzer over a straight-line statement list.
func scanStatementOrder(ctx context.Context, stmts []ir.Stmt, v *ir.Variable, isRelease IsRelease) (Outcome, error) {
	outcome := OrderVerified

	for i, s := range stmts {
		if err := ctx.Err(); err != nil {
			return Unknown, err
		}

		switch s.(type) {
		case *ir.Return, *ir.Throw:
			outcome = worst(outcome, scanBackward(stmts, i, v, isRelease))
		}
	}

	// The implicit fallthrough exit, unless the list already ends in an
	// explicit exit.
	if !endsInExit(stmts) {
		outcome = worst(outcome, scanBackward(stmts, len(stmts), v, isRelease))
	}

	return outcome, nil
}

// scanBackward walks backward from the exit at index exit, looking for a
// release. It refuses to cross nested branching or looping constructs,
// treating them conservatively as unknown, and fails upon reaching an
// earlier exit with no intervening release.
func scanBackward(stmts []ir.Stmt, exit int, v *ir.Variable, isRelease IsRelease) Outcome {
	for i := exit - 1; i >= 0; i-- {
		switch s := stmts[i].(type) {
		case *ir.Call:
			if isRelease(s, v) {
				return OrderVerified
			}

		case *ir.Acquire, *ir.Closure, *ir.Break, *ir.Continue:
			// Keep scanning.

		case *ir.Return, *ir.Throw:
			return NotReleased // earlier exit with no intervening release

		default:
			// Nested control flow: cannot verify syntactically.
			return Unknown
		}
	}

	return NotReleased // reached the start without finding a release
}

func endsInExit(stmts []ir.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}

	switch stmts[len(stmts)-1].(type) {
	case *ir.Return, *ir.Throw:
		return true

	default:
		return false
	}
}

// worst keeps the weaker of two outcomes, ordering NotReleased below
// Unknown below the released outcomes.
func worst(a, b Outcome) Outcome {
	if b < a {
		return b
	}

	return a
}
