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

// Package transfer resolves whether a procedure hands the tracked variable
// back to its caller on every exit, shifting release responsibility away
// from the procedure.
package transfer

import (
	"context"

	"fillmore-labs.com/releaseguard/internal/cfg"
	"fillmore-labs.com/releaseguard/ir"
)

// Class is the three-valued outcome of classifying one exit value.
type Class uint8

const (
	// ClassUnknown means the value neither transfers the variable nor
	// terminates abnormally.
	ClassUnknown Class = iota

	// ClassTransfers means the value resolves to the tracked variable.
	ClassTransfers

	// ClassTerminates means the value terminates abnormally and never
	// receives ownership.
	ClassTerminates
)

// Classify unwraps trivial wrappers (conversions, parenthesization,
// suspension points) and classifies an exit value against the tracked
// variable.
//
//   - a direct reference to the variable transfers;
//   - conditional arms must each transfer or terminate;
//   - a coalesce transfers when its left operand transfers and its right
//     operand transfers or terminates;
//   - a switch expression transfers when every arm transfers or terminates
//     and at least one arm transfers.
func Classify(val ir.Value, v *ir.Variable) Class {
	switch val := val.(type) {
	case ir.VarRef:
		if val.Var == v {
			return ClassTransfers
		}

		return ClassUnknown

	case ir.Convert:
		return Classify(val.X, v)

	case ir.Await:
		return Classify(val.X, v)

	case ir.Cond:
		return combine(Classify(val.Then, v), Classify(val.Else, v))

	case ir.Coalesce:
		left := Classify(val.Left, v)
		if left != ClassTransfers {
			return ClassUnknown
		}

		if right := Classify(val.Right, v); right == ClassUnknown {
			return ClassUnknown
		}

		return ClassTransfers

	case ir.Switch:
		return classifyArms(val.Arms, v)

	case ir.Raise:
		return ClassTerminates

	default:
		return ClassUnknown
	}
}

// combine merges two branch classes: both branches must independently
// transfer or terminate, and the whole transfers when either branch does.
func combine(a, b Class) Class {
	if a == ClassUnknown || b == ClassUnknown {
		return ClassUnknown
	}

	if a == ClassTransfers || b == ClassTransfers {
		return ClassTransfers
	}

	return ClassTerminates
}

func classifyArms(arms []ir.Value, v *ir.Variable) Class {
	if len(arms) == 0 {
		return ClassUnknown
	}

	result := ClassTerminates

	for _, arm := range arms {
		result = combine(result, Classify(arm, v))
		if result == ClassUnknown {
			return ClassUnknown
		}
	}

	return result
}

// Transfers reports whether a return hands the tracked variable to the
// caller, or terminates abnormally without receiving ownership.
func Transfers(ret *ir.Return, v *ir.Variable) bool {
	return ret.Result != nil && Classify(ret.Result, v) != ClassUnknown
}

// Transferred decides whether every explicit exit point of the procedure
// hands the tracked variable back to the caller.
//
// When a symbol-resolution context is available, exits are collected
// syntactically (explicit value-returning statements outside nested
// closures), which is cheaper and more precise than a graph walk; otherwise
// the control-flow graph's blocks are scanned for return operations. A
// procedure without any explicit value-returning exit never transfers
// ownership.
func Transferred(ctx context.Context, p *ir.Procedure, v *ir.Variable, g *cfg.Graph, semantic bool) (bool, error) {
	exits, err := collectExits(ctx, p, g, semantic)
	if err != nil {
		return false, err
	}

	if len(exits) == 0 {
		return false, nil
	}

	transferred := false

	for _, ret := range exits {
		if ret.Result == nil {
			// A valueless exit leaves without handing the variable over.
			return false, nil
		}

		switch Classify(ret.Result, v) {
		case ClassTransfers:
			transferred = true

		case ClassTerminates:
			// Acceptable: this exit never receives ownership.

		case ClassUnknown:
			return false, nil
		}
	}

	return transferred, nil
}

func collectExits(ctx context.Context, p *ir.Procedure, g *cfg.Graph, semantic bool) ([]*ir.Return, error) {
	var exits []*ir.Return

	if semantic || g == nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		body := &ir.Block{Stmts: p.Statements()}
		body.Walk(func(s ir.Stmt) bool {
			if ret, ok := s.(*ir.Return); ok {
				exits = append(exits, ret)
			}

			return true
		})

		return exits, nil
	}

	for _, b := range g.Blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, op := range b.Ops {
			if ret, ok := op.(*ir.Return); ok {
				exits = append(exits, ret)
			}
		}
	}

	return exits, nil
}
