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

// Stmt is a statement or operation of a [Procedure] body.
//
// The set of implementations is closed: Acquire, Call, If, Loop, Try,
// Return, Throw, Break, Continue and Closure.
type Stmt interface {
	// Pos locates the statement in the original source.
	Pos() token.Pos

	stmt()
}

// Node carries the source position shared by all statement shapes. It is
// embedded in every [Stmt] implementation.
type Node struct {
	Position token.Pos
}

// Pos implements [Stmt].
func (n Node) Pos() token.Pos { return n.Position }

func (Node) stmt() {}

// At is a convenience constructor for the embedded position of a statement.
func At(pos token.Pos) Node { return Node{Position: pos} }

// Acquire is the declaration of a resource-owning variable.
type Acquire struct {
	Node

	// Var is the declared variable.
	Var *Variable

	// Scoped marks a scoped-acquisition construct: the release protocol is
	// guaranteed to run on every exit from the enclosing lexical scope,
	// including abnormal ones.
	Scoped bool

	// From is the creating operation, when known.
	From *Call
}

// Call is an operation that may invoke the release protocol, transfer the
// tracked variable to a callee, or do something entirely unrelated. The
// caller-injected classifier decides which calls are releases.
type Call struct {
	Node

	// Callee is the syntactic callee name. A symbol-resolution context may
	// refine it.
	Callee string

	// Recv is the receiver variable for method-shaped calls, nil otherwise.
	Recv *Variable

	// Args are the argument values.
	Args []Value

	// Params are the declared parameter names of the callee, when known.
	// Used by the interprocedural ownership heuristic only.
	Params []string
}

// Mentions reports whether any argument of the call references v.
func (c *Call) Mentions(v *Variable) bool {
	for _, a := range c.Args {
		if ValueMentions(a, v) {
			return true
		}
	}

	return false
}

// If is a two-way branch. Else may be nil.
type If struct {
	Node

	Then *Block
	Else *Block
}

// Loop is a loop-like region. The body may execute zero or more times.
type Loop struct {
	Node

	Body *Block
}

// Try is a protected region. Catch and Finally may be nil. The Finally block
// is guaranteed to execute before control leaves the region, regardless of
// how it is left.
type Try struct {
	Node

	Body    *Block
	Catch   *Block
	Finally *Block
}

// Return is a normal procedure exit. Result is nil for valueless returns.
type Return struct {
	Node

	Result Value
}

// Throw is an abnormal exit: control leaves the procedure without completing
// later statements.
type Throw struct {
	Node
}

// Break transfers control past the innermost enclosing [Loop].
type Break struct {
	Node
}

// Continue transfers control to the head of the innermost enclosing [Loop].
type Continue struct {
	Node
}

// Closure is an opaque nested procedure. Traversals never descend into it;
// its body, if needed, is analyzed as a separate [Procedure].
type Closure struct {
	Node
}
