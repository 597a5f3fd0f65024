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

package ir

import "go/token"

// Variable is a resource-owning variable tracked through an analysis.
// Identity is pointer identity.
type Variable struct {
	// Name is the source name, used in diagnostics only.
	Name string

	// Pos is the declaration position in the original source.
	Pos token.Pos
}

// Procedure is one analyzable unit: a function, method, constructor or
// closure body.
//
// A procedure is either block-bodied (Body non-nil) or expression-bodied
// (Body nil, Expr non-nil). Control-flow graph construction is defined for
// block-bodied procedures only; expression-bodied ones are handled by the
// syntactic fallback analyzer.
type Procedure struct {
	// Name is the source name of the procedure, used in diagnostics only.
	Name string

	// Body is the ordered statement body, nil for expression-bodied
	// procedures.
	Body *Block

	// Expr is the single operation of an expression-bodied procedure.
	Expr Stmt
}

// Statements returns the top-level statement list of the procedure,
// regardless of its body shape.
func (p *Procedure) Statements() []Stmt {
	switch {
	case p.Body != nil:
		return p.Body.Stmts

	case p.Expr != nil:
		return []Stmt{p.Expr}

	default:
		return nil
	}
}

// Block is an ordered statement list.
type Block struct {
	Stmts []Stmt
}

// Walk traverses the block's statements in source order, calling fn for each
// statement before descending into nested blocks. Traversal never descends
// into [Closure] bodies: a nested procedure is a separate analyzable unit.
// Walk stops early and reports false when fn returns false.
func (b *Block) Walk(fn func(Stmt) bool) bool {
	if b == nil {
		return true
	}

	for _, s := range b.Stmts {
		if !walkStmt(s, fn) {
			return false
		}
	}

	return true
}

func walkStmt(s Stmt, fn func(Stmt) bool) bool {
	if !fn(s) {
		return false
	}

	switch s := s.(type) {
	case *If:
		return s.Then.Walk(fn) && s.Else.Walk(fn)

	case *Loop:
		return s.Body.Walk(fn)

	case *Try:
		return s.Body.Walk(fn) && s.Catch.Walk(fn) && s.Finally.Walk(fn)

	default:
		return true
	}
}
