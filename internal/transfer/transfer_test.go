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

package transfer_test

import (
	"testing"

	"fillmore-labs.com/releaseguard/internal/cfg"
	"fillmore-labs.com/releaseguard/internal/transfer"
	"fillmore-labs.com/releaseguard/ir"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	v := &ir.Variable{Name: "f"}
	other := &ir.Variable{Name: "g"}

	tests := [...]struct {
		name string
		val  ir.Value
		want transfer.Class
	}{
		{"direct reference", ir.VarRef{Var: v}, transfer.ClassTransfers},
		{"other variable", ir.VarRef{Var: other}, transfer.ClassUnknown},
		{"conversion", ir.Convert{X: ir.VarRef{Var: v}}, transfer.ClassTransfers},
		{"awaited reference", ir.Await{X: ir.VarRef{Var: v}}, transfer.ClassTransfers},
		{"nested wrappers", ir.Convert{X: ir.Await{X: ir.VarRef{Var: v}}}, transfer.ClassTransfers},
		{"raise", ir.Raise{}, transfer.ClassTerminates},
		{"opaque", ir.Opaque{}, transfer.ClassUnknown},
		{
			"conditional both transfer",
			ir.Cond{Then: ir.VarRef{Var: v}, Else: ir.VarRef{Var: v}},
			transfer.ClassTransfers,
		},
		{
			"conditional with terminating arm",
			ir.Cond{Then: ir.VarRef{Var: v}, Else: ir.Raise{}},
			transfer.ClassTransfers,
		},
		{
			"conditional with unknown arm",
			ir.Cond{Then: ir.VarRef{Var: v}, Else: ir.Opaque{}},
			transfer.ClassUnknown,
		},
		{
			"coalesce transferring left",
			ir.Coalesce{Left: ir.VarRef{Var: v}, Right: ir.Raise{}},
			transfer.ClassTransfers,
		},
		{
			"coalesce unknown left",
			ir.Coalesce{Left: ir.Opaque{}, Right: ir.VarRef{Var: v}},
			transfer.ClassUnknown,
		},
		{
			"coalesce unknown right",
			ir.Coalesce{Left: ir.VarRef{Var: v}, Right: ir.Opaque{}},
			transfer.ClassUnknown,
		},
		{
			"switch all arms covered",
			ir.Switch{Arms: []ir.Value{ir.VarRef{Var: v}, ir.Raise{}}},
			transfer.ClassTransfers,
		},
		{
			"switch only terminating arms",
			ir.Switch{Arms: []ir.Value{ir.Raise{}, ir.Raise{}}},
			transfer.ClassTerminates,
		},
		{
			"switch with unknown arm",
			ir.Switch{Arms: []ir.Value{ir.VarRef{Var: v}, ir.Opaque{}}},
			transfer.ClassUnknown,
		},
		{
			"empty switch",
			ir.Switch{},
			transfer.ClassUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := transfer.Classify(tt.val, v); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransferred(t *testing.T) {
	t.Parallel()

	v := &ir.Variable{Name: "f"}

	tests := [...]struct {
		name  string
		stmts []ir.Stmt
		want  bool
	}{
		{
			name:  "single transferring return",
			stmts: []ir.Stmt{&ir.Return{Result: ir.VarRef{Var: v}}},
			want:  true,
		},
		{
			name: "all exits transfer",
			stmts: []ir.Stmt{
				&ir.If{Then: &ir.Block{Stmts: []ir.Stmt{&ir.Return{Result: ir.VarRef{Var: v}}}}},
				&ir.Return{Result: ir.Convert{X: ir.VarRef{Var: v}}},
			},
			want: true,
		},
		{
			name: "one exit does not transfer",
			stmts: []ir.Stmt{
				&ir.If{Then: &ir.Block{Stmts: []ir.Stmt{&ir.Return{Result: ir.VarRef{Var: v}}}}},
				&ir.Return{Result: ir.Opaque{}},
			},
			want: false,
		},
		{
			name: "valueless exit",
			stmts: []ir.Stmt{
				&ir.If{Then: &ir.Block{Stmts: []ir.Stmt{&ir.Return{Result: ir.VarRef{Var: v}}}}},
				&ir.Return{},
			},
			want: false,
		},
		{
			name:  "no explicit exit",
			stmts: []ir.Stmt{&ir.Call{Callee: "work"}},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := &ir.Procedure{Name: "f", Body: &ir.Block{Stmts: tt.stmts}}
			g := cfg.Build(p)

			for _, semantic := range [...]bool{false, true} {
				got, err := transfer.Transferred(t.Context(), p, v, g, semantic)
				if err != nil {
					t.Fatal(err)
				}

				if got != tt.want {
					t.Errorf("Transferred(semantic=%t) = %t, want %t", semantic, got, tt.want)
				}
			}
		})
	}
}

func TestTransfersIgnoresClosures(t *testing.T) {
	t.Parallel()

	v := &ir.Variable{Name: "f"}

	// The closure marker is opaque: a return inside it belongs to another
	// procedure and must not count as an exit here.
	p := &ir.Procedure{Name: "f", Body: &ir.Block{Stmts: []ir.Stmt{
		&ir.Closure{},
		&ir.Return{Result: ir.VarRef{Var: v}},
	}}}

	got, err := transfer.Transferred(t.Context(), p, v, cfg.Build(p), true)
	if err != nil {
		t.Fatal(err)
	}

	if !got {
		t.Error("the only explicit exit transfers ownership")
	}
}
