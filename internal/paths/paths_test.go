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

package paths_test

import (
	"context"
	"testing"

	"fillmore-labs.com/releaseguard/internal/cfg"
	"fillmore-labs.com/releaseguard/internal/paths"
	"fillmore-labs.com/releaseguard/ir"
)

func build(t *testing.T, stmts ...ir.Stmt) *cfg.Graph {
	t.Helper()

	g := cfg.Build(&ir.Procedure{Name: "f", Body: &ir.Block{Stmts: stmts}})
	if g == nil {
		t.Fatal("expected a graph")
	}

	return g
}

func TestEnumerateBranches(t *testing.T) {
	t.Parallel()

	g := build(t,
		&ir.If{Then: &ir.Block{Stmts: []ir.Stmt{&ir.Call{Callee: "then"}}}},
		&ir.Return{},
	)

	found, err := paths.Enumerate(t.Context(), g, paths.DefaultLimits())
	if err != nil {
		t.Fatal(err)
	}

	if len(found) != 2 {
		t.Fatalf("a single branch yields 2 paths, got %d", len(found))
	}

	for _, p := range found {
		if len(p.Blocks) == 0 || p.Blocks[0] != g.Entry {
			t.Error("every path starts at the entry block")
		}
	}
}

func TestEnumerateLoopBounded(t *testing.T) {
	t.Parallel()

	g := build(t,
		&ir.Loop{Body: &ir.Block{Stmts: []ir.Stmt{&ir.Call{Callee: "body"}}}},
		&ir.Return{},
	)

	limits := paths.DefaultLimits()
	limits.MaxBlockVisits = 2

	found, err := paths.Enumerate(t.Context(), g, limits)
	if err != nil {
		t.Fatal(err)
	}

	// Zero and one iteration; the next recurrence of the loop head is cut.
	if len(found) != 2 {
		t.Errorf("got %d paths, want 2 bounded loop unrollings", len(found))
	}
}

func TestEnumerateMaxPaths(t *testing.T) {
	t.Parallel()

	// Four sequential branches give 16 paths unbounded.
	stmts := make([]ir.Stmt, 0, 5)
	for range 4 {
		stmts = append(stmts, &ir.If{Then: &ir.Block{Stmts: []ir.Stmt{&ir.Call{Callee: "x"}}}})
	}

	stmts = append(stmts, &ir.Return{})
	g := build(t, stmts...)

	limits := paths.DefaultLimits()
	limits.MaxPaths = 5

	found, err := paths.Enumerate(t.Context(), g, limits)
	if err != nil {
		t.Fatal(err)
	}

	if len(found) != 5 {
		t.Errorf("got %d paths, want the MaxPaths cap of 5", len(found))
	}
}

func TestEnumerateCleanupTag(t *testing.T) {
	t.Parallel()

	g := build(t,
		&ir.Try{
			Body:    &ir.Block{Stmts: []ir.Stmt{&ir.Call{Callee: "work"}}},
			Finally: &ir.Block{Stmts: []ir.Stmt{&ir.Call{Callee: "Close"}}},
		},
		&ir.Return{},
	)

	found, err := paths.Enumerate(t.Context(), g, paths.DefaultLimits())
	if err != nil {
		t.Fatal(err)
	}

	if len(found) == 0 {
		t.Fatal("expected paths")
	}

	for _, p := range found {
		if len(p.Cleanups) == 0 {
			t.Error("every path passes the cleanup region")
		}
	}
}

func TestEnumerateCancellation(t *testing.T) {
	t.Parallel()

	g := build(t, &ir.Return{})

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	if _, err := paths.Enumerate(ctx, g, paths.DefaultLimits()); err == nil {
		t.Error("expected a cancellation error")
	}
}
