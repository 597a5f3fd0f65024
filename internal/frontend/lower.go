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
	"go/token"
	"go/types"

	"golang.org/x/tools/go/types/typeutil"

	"fillmore-labs.com/releaseguard/ir"
)

type breakKind int

const (
	breakLoop breakKind = iota + 1
	breakSwitch
)

type lowerer struct {
	info    *types.Info
	methods ReleaseMethods

	vars    map[types.Object]*ir.Variable
	tracked []*TrackedVar
	callees map[*ir.Call]string

	breakable []breakKind

	// ok is cleared when the body uses control flow the neutral form cannot
	// express. The whole function is then skipped.
	ok bool
}

// block lowers a statement list. Deferred release calls are handled here
// rather than in stmt: a defer immediately after the acquisition it cleans up
// becomes a scoped acquisition, any other deferred release wraps the rest of
// the list in a cleanup region.
func (l *lowerer) block(list []ast.Stmt) *ir.Block {
	out := make([]ir.Stmt, 0, len(list))

	for i, s := range list {
		d, ok := s.(*ast.DeferStmt)
		if !ok {
			l.stmt(s, &out)

			continue
		}

		release, v := l.deferredRelease(d)
		if release == nil {
			// A deferred call unrelated to any tracked variable has no
			// bearing on the analysis.
			continue
		}

		if acq := trailingAcquire(out); acq != nil && acq.Var == v {
			acq.Scoped = true

			continue
		}

		rest := l.block(list[i+1:])
		out = append(out, &ir.Try{
			Node:    ir.At(d.Pos()),
			Body:    rest,
			Finally: &ir.Block{Stmts: []ir.Stmt{release}},
		})

		return &ir.Block{Stmts: out}
	}

	return &ir.Block{Stmts: out}
}

func trailingAcquire(out []ir.Stmt) *ir.Acquire {
	if len(out) == 0 {
		return nil
	}

	acq, _ := out[len(out)-1].(*ir.Acquire)

	return acq
}

// deferredRelease recognizes `defer v.Close()` and the equivalent wrapped in
// an immediately deferred function literal, returning the lowered release
// call and the tracked variable it releases.
func (l *lowerer) deferredRelease(d *ast.DeferStmt) (*ir.Call, *ir.Variable) {
	if call, v := l.releaseExpr(d.Call); call != nil {
		return call, v
	}

	lit, ok := ast.Unparen(d.Call.Fun).(*ast.FuncLit)
	if !ok {
		return nil, nil
	}

	var (
		found *ir.Call
		fv    *ir.Variable
	)

	ast.Inspect(lit.Body, func(n ast.Node) bool {
		if found != nil {
			return false
		}

		if inner, ok := n.(*ast.CallExpr); ok {
			found, fv = l.releaseExpr(inner)
		}

		return found == nil
	})

	return found, fv
}

// releaseExpr lowers call when it is a release-protocol method call on a
// tracked variable.
func (l *lowerer) releaseExpr(call *ast.CallExpr) (*ir.Call, *ir.Variable) {
	sel, ok := ast.Unparen(call.Fun).(*ast.SelectorExpr)
	if !ok || !l.methods[sel.Sel.Name] {
		return nil, nil
	}

	id, ok := ast.Unparen(sel.X).(*ast.Ident)
	if !ok {
		return nil, nil
	}

	v := l.vars[l.info.Uses[id]]
	if v == nil {
		return nil, nil
	}

	return l.lowerCall(call), v
}

func (l *lowerer) stmt(s ast.Stmt, out *[]ir.Stmt) {
	switch s := s.(type) {
	case *ast.AssignStmt:
		l.assign(s, out)

	case *ast.DeclStmt:
		l.decl(s, out)

	case *ast.ExprStmt:
		l.exprStmt(s.X, out)

	case *ast.GoStmt:
		// The goroutine body runs concurrently; treat it as an opaque nested
		// procedure.
		*out = append(*out, &ir.Closure{Node: ir.At(s.Pos())})

	case *ast.ReturnStmt:
		*out = append(*out, &ir.Return{Node: ir.At(s.Pos()), Result: l.result(s.Results)})

	case *ast.IfStmt:
		l.ifStmt(s, out)

	case *ast.ForStmt:
		if s.Init != nil {
			l.stmt(s.Init, out)
		}

		l.breakable = append(l.breakable, breakLoop)
		body := l.block(s.Body.List)
		l.breakable = l.breakable[:len(l.breakable)-1]

		*out = append(*out, &ir.Loop{Node: ir.At(s.Pos()), Body: body})

	case *ast.RangeStmt:
		l.breakable = append(l.breakable, breakLoop)
		body := l.block(s.Body.List)
		l.breakable = l.breakable[:len(l.breakable)-1]

		*out = append(*out, &ir.Loop{Node: ir.At(s.Pos()), Body: body})

	case *ast.SwitchStmt:
		if s.Init != nil {
			l.stmt(s.Init, out)
		}

		l.switchStmt(s.Body.List, s.Pos(), out)

	case *ast.TypeSwitchStmt:
		if s.Init != nil {
			l.stmt(s.Init, out)
		}

		l.switchStmt(s.Body.List, s.Pos(), out)

	case *ast.SelectStmt:
		l.switchStmt(s.Body.List, s.Pos(), out)

	case *ast.BranchStmt:
		l.branch(s, out)

	case *ast.BlockStmt:
		inner := l.block(s.List)
		*out = append(*out, inner.Stmts...)

	case *ast.LabeledStmt:
		l.ok = false

	case *ast.DeferStmt:
		// Unreachable: block intercepts defers before dispatching here.
		l.ok = false

	default:
		// Sends, inc/dec, empty statements: no resource relevance.
	}
}

func (l *lowerer) ifStmt(s *ast.IfStmt, out *[]ir.Stmt) {
	if s.Init != nil {
		l.stmt(s.Init, out)
	}

	branch := &ir.If{
		Node: ir.At(s.Pos()),
		Then: l.block(s.Body.List),
	}

	switch alt := s.Else.(type) {
	case *ast.BlockStmt:
		branch.Else = l.block(alt.List)

	case *ast.IfStmt:
		var chained []ir.Stmt

		l.ifStmt(alt, &chained)
		branch.Else = &ir.Block{Stmts: chained}

	case nil:
	}

	*out = append(*out, branch)
}

// switchStmt lowers switch, type switch and select bodies into a chain of
// two-way branches, default/no-match falling through at the end.
func (l *lowerer) switchStmt(clauses []ast.Stmt, pos token.Pos, out *[]ir.Stmt) {
	l.breakable = append(l.breakable, breakSwitch)
	defer func() { l.breakable = l.breakable[:len(l.breakable)-1] }()

	var (
		arms []*ir.Block
		dflt *ir.Block
	)

	for _, clause := range clauses {
		var (
			body      []ast.Stmt
			isDefault bool
		)

		switch clause := clause.(type) {
		case *ast.CaseClause:
			body, isDefault = clause.Body, clause.List == nil

		case *ast.CommClause:
			body, isDefault = clause.Body, clause.Comm == nil

		default:
			continue
		}

		if hasFallthrough(body) {
			l.ok = false

			return
		}

		if isDefault {
			dflt = l.block(body)
		} else {
			arms = append(arms, l.block(body))
		}
	}

	next := dflt

	for i := len(arms) - 1; i >= 0; i-- {
		branch := &ir.If{Node: ir.At(pos), Then: arms[i], Else: next}
		next = &ir.Block{Stmts: []ir.Stmt{branch}}
	}

	if next != nil {
		*out = append(*out, next.Stmts...)
	}
}

func hasFallthrough(body []ast.Stmt) bool {
	for _, s := range body {
		if b, ok := s.(*ast.BranchStmt); ok && b.Tok == token.FALLTHROUGH {
			return true
		}
	}

	return false
}

func (l *lowerer) branch(s *ast.BranchStmt, out *[]ir.Stmt) {
	if s.Label != nil || s.Tok == token.GOTO {
		l.ok = false

		return
	}

	switch s.Tok {
	case token.BREAK:
		// A bare break binds to the innermost breakable construct. Breaking a
		// lowered switch is a no-op: its branch chain already falls through.
		if len(l.breakable) > 0 && l.breakable[len(l.breakable)-1] == breakLoop {
			*out = append(*out, &ir.Break{Node: ir.At(s.Pos())})
		}

	case token.CONTINUE:
		*out = append(*out, &ir.Continue{Node: ir.At(s.Pos())})

	case token.FALLTHROUGH:
		l.ok = false
	}
}

func (l *lowerer) assign(s *ast.AssignStmt, out *[]ir.Stmt) {
	call := singleCall(s.Rhs)
	if call == nil {
		return
	}

	lowered := l.lowerCall(call)

	if s.Tok != token.DEFINE {
		*out = append(*out, lowered)

		return
	}

	acquired := false

	for _, lhs := range s.Lhs {
		id, ok := lhs.(*ast.Ident)
		if !ok || id.Name == "_" {
			continue
		}

		if acq := l.acquire(id, lowered, s.End()); acq != nil {
			*out = append(*out, acq)

			acquired = true
		}
	}

	if !acquired {
		*out = append(*out, lowered)
	}
}

func (l *lowerer) decl(s *ast.DeclStmt, out *[]ir.Stmt) {
	gen, ok := s.Decl.(*ast.GenDecl)
	if !ok || gen.Tok != token.VAR {
		return
	}

	for _, spec := range gen.Specs {
		vs, ok := spec.(*ast.ValueSpec)
		if !ok {
			continue
		}

		call := singleCall(vs.Values)
		if call == nil {
			continue
		}

		lowered := l.lowerCall(call)
		acquired := false

		for _, id := range vs.Names {
			if id.Name == "_" {
				continue
			}

			if acq := l.acquire(id, lowered, s.End()); acq != nil {
				*out = append(*out, acq)

				acquired = true
			}
		}

		if !acquired {
			*out = append(*out, lowered)
		}
	}
}

// acquire registers id as a tracked variable when its type is a resource
// type, returning the acquisition operation.
func (l *lowerer) acquire(id *ast.Ident, from *ir.Call, stmtEnd token.Pos) *ir.Acquire {
	obj, ok := l.info.Defs[id].(*types.Var)
	if !ok {
		return nil
	}

	method, ok := l.methods.ResourceMethod(obj.Type())
	if !ok {
		return nil
	}

	v := &ir.Variable{Name: id.Name, Pos: id.Pos()}
	l.vars[obj] = v
	l.tracked = append(l.tracked, &TrackedVar{Var: v, Obj: obj, Method: method, AcquireEnd: stmtEnd})

	return &ir.Acquire{Node: ir.At(id.Pos()), Var: v, From: from}
}

func (l *lowerer) exprStmt(x ast.Expr, out *[]ir.Stmt) {
	call, ok := ast.Unparen(x).(*ast.CallExpr)
	if !ok {
		return
	}

	if isBuiltin(l.info, call.Fun, "panic") {
		*out = append(*out, &ir.Throw{Node: ir.At(call.Pos())})

		return
	}

	*out = append(*out, l.lowerCall(call))

	if l.cantReturn(call) {
		*out = append(*out, &ir.Throw{Node: ir.At(call.Pos())})
	}
}

func (l *lowerer) lowerCall(call *ast.CallExpr) *ir.Call {
	c := &ir.Call{Node: ir.At(call.Pos())}

	switch fun := ast.Unparen(call.Fun).(type) {
	case *ast.SelectorExpr:
		c.Callee = fun.Sel.Name

		if id, ok := ast.Unparen(fun.X).(*ast.Ident); ok {
			c.Recv = l.vars[l.info.Uses[id]]
		}

	case *ast.Ident:
		c.Callee = fun.Name

	case *ast.FuncLit:
		c.Callee = "func"
	}

	for _, arg := range call.Args {
		c.Args = append(c.Args, l.lowerValue(arg))
	}

	if fn, ok := typeutil.Callee(l.info, call).(*types.Func); ok {
		l.callees[c] = fn.Name()

		if sig, ok := fn.Type().(*types.Signature); ok {
			params := sig.Params()
			for i := range params.Len() {
				c.Params = append(c.Params, params.At(i).Name())
			}
		}
	}

	return c
}

func (l *lowerer) lowerValue(expr ast.Expr) ir.Value {
	switch expr := ast.Unparen(expr).(type) {
	case *ast.Ident:
		if v := l.vars[l.info.Uses[expr]]; v != nil {
			return ir.VarRef{Var: v}
		}

		return ir.Opaque{}

	case *ast.UnaryExpr:
		if expr.Op == token.AND {
			return ir.Convert{X: l.lowerValue(expr.X)}
		}

		return ir.Opaque{}

	case *ast.CallExpr:
		if tv, ok := l.info.Types[expr.Fun]; ok && tv.IsType() && len(expr.Args) == 1 {
			return ir.Convert{X: l.lowerValue(expr.Args[0])}
		}

		return ir.Opaque{}

	default:
		return ir.Opaque{}
	}
}

// result picks the exit value for a return statement: the first result that
// references a tracked variable, an opaque value otherwise. Multi-result
// returns transferring more than one resource collapse conservatively.
func (l *lowerer) result(results []ast.Expr) ir.Value {
	if len(results) == 0 {
		return nil
	}

	var first ir.Value

	for _, r := range results {
		val := l.lowerValue(r)
		if first == nil {
			first = val
		}

		if mentionsAny(val, l.tracked) {
			return val
		}
	}

	return first
}

func mentionsAny(val ir.Value, tracked []*TrackedVar) bool {
	for _, tv := range tracked {
		if ir.ValueMentions(val, tv.Var) {
			return true
		}
	}

	return false
}

func singleCall(rhs []ast.Expr) *ast.CallExpr {
	if len(rhs) != 1 {
		return nil
	}

	call, _ := ast.Unparen(rhs[0]).(*ast.CallExpr)

	return call
}
