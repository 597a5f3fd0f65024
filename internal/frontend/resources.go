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

package frontend

import (
	"go/ast"
	"go/types"
	"maps"
	"slices"

	"fillmore-labs.com/releaseguard/ir"
)

// ReleaseMethods is the set of method names that constitute the release
// protocol of a resource type.
type ReleaseMethods map[string]bool

// DefaultReleaseMethods returns the built-in release protocol names.
func DefaultReleaseMethods() ReleaseMethods {
	return ReleaseMethods{
		"Close":    true,
		"Shutdown": true,
		"Release":  true,
		"Dispose":  true,
	}
}

// IsResource reports whether t exposes a release method: a niladic method,
// or one whose only parameter is a context, named after the release
// protocol.
func (m ReleaseMethods) IsResource(t types.Type) bool {
	_, ok := m.ResourceMethod(t)

	return ok
}

// ResourceMethod returns the release-protocol method of t, when t has one.
func (m ReleaseMethods) ResourceMethod(t types.Type) (string, bool) {
	switch t.Underlying().(type) {
	case *types.Basic, *types.Map, *types.Slice, *types.Signature:
		return "", false
	}

	// Sorted for a deterministic pick when several protocol methods match.
	for _, name := range slices.Sorted(maps.Keys(m)) {
		obj, _, _ := types.LookupFieldOrMethod(t, true, nil, name)

		fn, ok := obj.(*types.Func)
		if !ok {
			continue
		}

		if sig, ok := fn.Type().(*types.Signature); ok && isReleaseSignature(sig) {
			return name, true
		}
	}

	return "", false
}

// isReleaseSignature accepts zero parameters or a single context parameter.
func isReleaseSignature(sig *types.Signature) bool {
	params := sig.Params()

	switch params.Len() {
	case 0:
		return true

	case 1:
		named, ok := params.At(0).Type().(*types.Named)

		return ok && named.Obj().Pkg() != nil &&
			named.Obj().Pkg().Path() == "context" && named.Obj().Name() == "Context"

	default:
		return false
	}
}

// IsRelease is the classifier injected into the verification engine: a call
// releases the tracked variable when it invokes a release-protocol method on
// it.
func (f *Function) IsRelease(call *ir.Call, v *ir.Variable) bool {
	return call.Recv != nil && call.Recv == v && f.methods[call.Callee]
}

// markEscapes flags tracked variables whose resource may outlive the
// procedure in ways the engine cannot follow: aliasing assignments,
// composite literals, channel sends, append, and capture by function
// literals. Escaped variables are skipped by the reporting layer.
func (f *Function) markEscapes(info *types.Info, body *ast.BlockStmt) {
	objs := make(map[types.Object]*TrackedVar, len(f.Tracked))
	for _, tv := range f.Tracked {
		objs[tv.Obj] = tv
	}

	escape := func(expr ast.Expr) {
		if tv := referencedVar(info, objs, expr); tv != nil {
			tv.Escapes = true
		}
	}

	ast.Inspect(body, func(n ast.Node) bool {
		switch n := n.(type) {
		case *ast.AssignStmt:
			for _, rhs := range n.Rhs {
				if _, ok := rhs.(*ast.CallExpr); !ok {
					escape(rhs)
				}
			}

		case *ast.CompositeLit:
			for _, elt := range n.Elts {
				if kv, ok := elt.(*ast.KeyValueExpr); ok {
					elt = kv.Value
				}

				escape(elt)
			}

		case *ast.SendStmt:
			escape(n.Value)

		case *ast.CallExpr:
			if isBuiltin(info, n.Fun, "append") {
				for _, arg := range n.Args {
					escape(arg)
				}
			}

		case *ast.FuncLit:
			// Captured by a closure: the closure is a separate analyzable
			// unit, so the variable's fate is out of reach here.
			ast.Inspect(n.Body, func(inner ast.Node) bool {
				if id, ok := inner.(*ast.Ident); ok {
					if tv, ok := objs[info.Uses[id]]; ok && tv != nil {
						tv.Escapes = true
					}
				}

				return true
			})

			return false
		}

		return true
	})
}

func referencedVar(info *types.Info, objs map[types.Object]*TrackedVar, expr ast.Expr) *TrackedVar {
	switch expr := ast.Unparen(expr).(type) {
	case *ast.Ident:
		return objs[info.Uses[expr]]

	case *ast.UnaryExpr:
		return referencedVar(info, objs, expr.X)

	default:
		return nil
	}
}

func isBuiltin(info *types.Info, fun ast.Expr, name string) bool {
	id, ok := ast.Unparen(fun).(*ast.Ident)
	if !ok || id.Name != name {
		return false
	}

	_, ok = info.Uses[id].(*types.Builtin)

	return ok
}
