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

package annotate_test

import (
	"testing"

	"fillmore-labs.com/releaseguard/internal/annotate"
	"fillmore-labs.com/releaseguard/ir"
)

func TestInterprocedural(t *testing.T) {
	t.Parallel()

	v := &ir.Variable{Name: "f"}
	other := &ir.Variable{Name: "g"}

	tests := [...]struct {
		name string
		call *ir.Call
		want int
	}{
		{
			name: "release-like callee name",
			call: &ir.Call{Callee: "closeAll", Args: []ir.Value{ir.VarRef{Var: v}}},
			want: 1,
		},
		{
			name: "ownership-taking parameter",
			call: &ir.Call{
				Callee: "register",
				Args:   []ir.Value{ir.VarRef{Var: v}},
				Params: []string{"owned"},
			},
			want: 1,
		},
		{
			name: "neutral call",
			call: &ir.Call{
				Callee: "process",
				Args:   []ir.Value{ir.VarRef{Var: v}},
				Params: []string{"r"},
			},
			want: 0,
		},
		{
			name: "variable not involved",
			call: &ir.Call{Callee: "closeAll", Args: []ir.Value{ir.VarRef{Var: other}}},
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &ir.Procedure{Name: "f", Body: &ir.Block{Stmts: []ir.Stmt{tt.call, &ir.Return{}}}}

			advisories, err := annotate.Interprocedural(t.Context(), p, v, nil)
			if err != nil {
				t.Fatal(err)
			}

			if len(advisories) != tt.want {
				t.Fatalf("got %d advisories, want %d", len(advisories), tt.want)
			}

			if tt.want == 1 && advisories[0].Call != tt.call {
				t.Error("advisory should reference the flagged call")
			}
		})
	}
}

func TestInterproceduralResolver(t *testing.T) {
	t.Parallel()

	v := &ir.Variable{Name: "f"}
	call := &ir.Call{Callee: "fn", Args: []ir.Value{ir.VarRef{Var: v}}}
	p := &ir.Procedure{Name: "f", Body: &ir.Block{Stmts: []ir.Stmt{call}}}

	resolve := func(c *ir.Call) (string, bool) {
		if c == call {
			return "disposeHandles", true
		}

		return "", false
	}

	advisories, err := annotate.Interprocedural(t.Context(), p, v, resolve)
	if err != nil {
		t.Fatal(err)
	}

	if len(advisories) != 1 {
		t.Fatalf("got %d advisories, want 1", len(advisories))
	}

	if advisories[0].Callee != "disposeHandles" {
		t.Errorf("advisory should carry the resolved name, got %q", advisories[0].Callee)
	}
}
