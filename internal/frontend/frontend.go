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

// Package frontend lowers Go function bodies into the engine's neutral
// statement form.
//
// The lowering is shape-preserving where the engine has a shape for the
// construct (branches, loops, deferred cleanup, returns, abnormal exits) and
// deliberately lossy everywhere else: statements without resource relevance
// are dropped, function literals become opaque closure markers, and bodies
// using goto or labeled control flow refuse to lower at all, leaving the
// function unanalyzed rather than analyzed wrongly.
package frontend

import (
	"go/ast"
	"go/token"
	"go/types"

	"fillmore-labs.com/releaseguard/ir"
)

// Function is one lowered Go function: the neutral procedure body, the
// resource-owning variables acquired in it, and the symbol-resolution context
// collected during lowering.
type Function struct {
	// Proc is the lowered body.
	Proc *ir.Procedure

	// Tracked lists the resource-owning variables in acquisition order.
	Tracked []*TrackedVar

	// Resolver maps lowered call operations back to their resolved targets.
	Resolver *CallResolver

	methods ReleaseMethods
}

// TrackedVar is one resource-owning variable found during lowering.
type TrackedVar struct {
	// Var is the engine-side identity.
	Var *ir.Variable

	// Obj is the type-checker object behind it.
	Obj *types.Var

	// Method is the release-protocol method of the variable's type.
	Method string

	// AcquireEnd is the source end of the acquiring statement, the insertion
	// point for a suggested deferred release.
	AcquireEnd token.Pos

	// Escapes is set when the resource may outlive the function in a way the
	// engine cannot follow. Escaped variables produce no diagnostics.
	Escapes bool
}

// Lower converts decl's body into the neutral statement form, tracking every
// variable initialized from a call that yields a resource type per methods.
//
// The second result is false when the body uses control flow the neutral
// form cannot express, currently goto, labels and fallthrough; such
// functions are skipped entirely.
func Lower(info *types.Info, decl *ast.FuncDecl, methods ReleaseMethods) (*Function, bool) {
	if decl.Body == nil {
		return nil, false
	}

	l := &lowerer{
		info:    info,
		methods: methods,
		vars:    make(map[types.Object]*ir.Variable),
		callees: make(map[*ir.Call]string),
		ok:      true,
	}

	body := l.block(decl.Body.List)
	if !l.ok {
		return nil, false
	}

	f := &Function{
		Proc: &ir.Procedure{
			Name: decl.Name.Name,
			Body: body,
		},
		Tracked:  l.tracked,
		Resolver: &CallResolver{callees: l.callees},
		methods:  methods,
	}

	f.markEscapes(info, decl.Body)

	return f, true
}

// CallResolver resolves lowered call operations to the type-checked callee
// names recorded during lowering. It implements the engine's resolver
// contract.
type CallResolver struct {
	callees map[*ir.Call]string
}

// ResolveCallee maps a call operation to its resolved target name.
func (r *CallResolver) ResolveCallee(call *ir.Call) (string, bool) {
	name, ok := r.callees[call]

	return name, ok
}
