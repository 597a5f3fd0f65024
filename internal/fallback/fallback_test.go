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

package fallback_test

import (
	"testing"

	"fillmore-labs.com/releaseguard/internal/fallback"
	"fillmore-labs.com/releaseguard/ir"
)

func isClose(call *ir.Call, v *ir.Variable) bool {
	return call.Callee == "Close" && call.Recv == v
}

func proc(stmts ...ir.Stmt) *ir.Procedure {
	return &ir.Procedure{Name: "f", Body: &ir.Block{Stmts: stmts}}
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	v := &ir.Variable{Name: "f"}

	tests := [...]struct {
		name  string
		stmts []ir.Stmt
		want  fallback.Outcome
	}{
		{
			name: "scoped acquisition",
			stmts: []ir.Stmt{
				&ir.Acquire{Var: v, Scoped: true},
				&ir.Return{},
			},
			want: fallback.ScopedAcquisition,
		},
		{
			name: "release in cleanup block",
			stmts: []ir.Stmt{
				&ir.Acquire{Var: v},
				&ir.Try{
					Body:    &ir.Block{Stmts: []ir.Stmt{&ir.Call{Callee: "work"}}},
					Finally: &ir.Block{Stmts: []ir.Stmt{&ir.Call{Callee: "Close", Recv: v}}},
				},
			},
			want: fallback.GuaranteedCleanup,
		},
		{
			name: "release before explicit exit",
			stmts: []ir.Stmt{
				&ir.Acquire{Var: v},
				&ir.Call{Callee: "Close", Recv: v},
				&ir.Return{},
			},
			want: fallback.OrderVerified,
		},
		{
			name: "release before fallthrough exit",
			stmts: []ir.Stmt{
				&ir.Acquire{Var: v},
				&ir.Call{Callee: "Close", Recv: v},
			},
			want: fallback.OrderVerified,
		},
		{
			name: "no release",
			stmts: []ir.Stmt{
				&ir.Acquire{Var: v},
				&ir.Call{Callee: "work"},
				&ir.Return{},
			},
			want: fallback.NotReleased,
		},
		{
			name: "early exit skips the release",
			stmts: []ir.Stmt{
				&ir.Acquire{Var: v},
				&ir.Return{},
				&ir.Call{Callee: "Close", Recv: v},
				&ir.Return{},
			},
			want: fallback.NotReleased,
		},
		{
			name: "branching before the exit",
			stmts: []ir.Stmt{
				&ir.Acquire{Var: v},
				&ir.If{Then: &ir.Block{Stmts: []ir.Stmt{&ir.Call{Callee: "Close", Recv: v}}}},
				&ir.Return{},
			},
			want: fallback.Unknown,
		},
		{
			name: "nested closure does not block the scan",
			stmts: []ir.Stmt{
				&ir.Acquire{Var: v},
				&ir.Call{Callee: "Close", Recv: v},
				&ir.Closure{},
				&ir.Return{},
			},
			want: fallback.OrderVerified,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fallback.Analyze(t.Context(), proc(tt.stmts...), v, isClose)
			if err != nil {
				t.Fatal(err)
			}

			if got != tt.want {
				t.Errorf("Analyze() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOutcomeReleased(t *testing.T) {
	t.Parallel()

	released := [...]fallback.Outcome{
		fallback.ScopedAcquisition, fallback.GuaranteedCleanup, fallback.OrderVerified,
	}
	for _, o := range released {
		if !o.Released() {
			t.Errorf("%v should count as released", o)
		}
	}

	if fallback.NotReleased.Released() || fallback.Unknown.Released() {
		t.Error("negative outcomes must not count as released")
	}
}

func TestCleanupReleaseOtherVariable(t *testing.T) {
	t.Parallel()

	v := &ir.Variable{Name: "f"}
	other := &ir.Variable{Name: "g"}

	p := proc(
		&ir.Acquire{Var: v},
		&ir.Try{
			Body:    &ir.Block{Stmts: []ir.Stmt{&ir.Call{Callee: "work"}}},
			Finally: &ir.Block{Stmts: []ir.Stmt{&ir.Call{Callee: "Close", Recv: other}}},
		},
	)

	if fallback.CleanupRelease(p, v, isClose) {
		t.Error("a cleanup block releasing another variable does not cover v")
	}
}
