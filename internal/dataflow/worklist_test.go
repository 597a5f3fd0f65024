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

package dataflow_test

import (
	"context"
	"testing"

	"fillmore-labs.com/releaseguard/internal/cfg"
	"fillmore-labs.com/releaseguard/internal/dataflow"
	"fillmore-labs.com/releaseguard/ir"
)

func never(*ir.Return) bool { return false }

// analyze builds the graph, collects blocks whose operations contain the
// given release call and runs the worklist.
func analyze(t *testing.T, release *ir.Call, transfers func(*ir.Return) bool, stmts ...ir.Stmt) bool {
	t.Helper()

	g := cfg.Build(&ir.Procedure{Name: "f", Body: &ir.Block{Stmts: stmts}})
	if g == nil {
		t.Fatal("expected a graph")
	}

	releaseBlocks := make(map[*cfg.Block]bool)

	for _, b := range g.Blocks {
		for _, op := range b.Ops {
			if op == release {
				releaseBlocks[b] = true
			}
		}
	}

	got, err := dataflow.AllPathsReleased(t.Context(), g, releaseBlocks, transfers)
	if err != nil {
		t.Fatal(err)
	}

	return got
}

func TestAllPathsReleased(t *testing.T) {
	t.Parallel()

	t.Run("straight line", func(t *testing.T) {
		t.Parallel()

		release := &ir.Call{Callee: "Close"}
		if !analyze(t, release, never, release, &ir.Return{}) {
			t.Error("release before the only exit covers all paths")
		}
	})

	t.Run("missing release", func(t *testing.T) {
		t.Parallel()

		if analyze(t, nil, never, &ir.Call{Callee: "work"}, &ir.Return{}) {
			t.Error("no release anywhere should fail")
		}
	})

	t.Run("one branch only", func(t *testing.T) {
		t.Parallel()

		release := &ir.Call{Callee: "Close"}
		stmts := []ir.Stmt{
			&ir.If{Then: &ir.Block{Stmts: []ir.Stmt{release}}},
			&ir.Return{},
		}

		if analyze(t, release, never, stmts...) {
			t.Error("release on the then branch leaves the else path open")
		}
	})

	t.Run("both branches", func(t *testing.T) {
		t.Parallel()

		release := &ir.Call{Callee: "Close"}
		stmts := []ir.Stmt{
			&ir.If{
				Then: &ir.Block{Stmts: []ir.Stmt{release, &ir.Return{}}},
			},
			release,
			&ir.Return{},
		}

		if !analyze(t, release, never, stmts...) {
			t.Error("release on each branch covers all paths")
		}
	})

	t.Run("abnormal exit before release", func(t *testing.T) {
		t.Parallel()

		release := &ir.Call{Callee: "Close"}
		stmts := []ir.Stmt{
			&ir.If{Then: &ir.Block{Stmts: []ir.Stmt{&ir.Throw{}}}},
			release,
			&ir.Return{},
		}

		if analyze(t, release, never, stmts...) {
			t.Error("a throw before the release leaks the variable")
		}
	})

	t.Run("release in finally", func(t *testing.T) {
		t.Parallel()

		release := &ir.Call{Callee: "Close"}
		stmts := []ir.Stmt{
			&ir.Try{
				Body:    &ir.Block{Stmts: []ir.Stmt{&ir.Call{Callee: "work"}}},
				Finally: &ir.Block{Stmts: []ir.Stmt{release}},
			},
			&ir.Return{},
		}

		if !analyze(t, release, never, stmts...) {
			t.Error("a finally release guards every exit of the protected region")
		}
	})

	t.Run("release only inside loop", func(t *testing.T) {
		t.Parallel()

		release := &ir.Call{Callee: "Close"}
		stmts := []ir.Stmt{
			&ir.Loop{Body: &ir.Block{Stmts: []ir.Stmt{release}}},
			&ir.Return{},
		}

		if analyze(t, release, never, stmts...) {
			t.Error("a loop body may run zero times, leaving the exit unreleased")
		}
	})

	t.Run("transferring return", func(t *testing.T) {
		t.Parallel()

		v := &ir.Variable{Name: "f"}
		transfers := func(ret *ir.Return) bool {
			if ret.Result == nil {
				return false
			}

			ref, ok := ret.Result.(ir.VarRef)

			return ok && ref.Var == v
		}

		release := &ir.Call{Callee: "Close"}
		stmts := []ir.Stmt{
			&ir.If{
				Then: &ir.Block{Stmts: []ir.Stmt{&ir.Return{Result: ir.VarRef{Var: v}}}},
			},
			release,
			&ir.Return{},
		}

		if !analyze(t, release, transfers, stmts...) {
			t.Error("a transferring return needs no preceding release")
		}
	})
}

func TestAllPathsReleasedCancellation(t *testing.T) {
	t.Parallel()

	g := cfg.Build(&ir.Procedure{Name: "f", Body: &ir.Block{Stmts: []ir.Stmt{&ir.Return{}}}})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := dataflow.AllPathsReleased(ctx, g, nil, never); err == nil {
		t.Error("expected a cancellation error")
	}
}
