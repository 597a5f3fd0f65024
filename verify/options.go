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

package verify

import "fillmore-labs.com/releaseguard/ir"

// Resolver is the optional symbol-resolution context. When present, the
// engine prefers syntactic exit-point collection and resolves call targets
// for the interprocedural heuristic.
type Resolver interface {
	// ResolveCallee maps a call operation to its resolved target name.
	ResolveCallee(call *ir.Call) (string, bool)
}

// Option configures a [New] engine.
type Option func(e *Engine)

// WithResolver supplies a symbol-resolution context.
func WithResolver(r Resolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithMaxPaths bounds the number of paths enumerated for evidence.
func WithMaxPaths(n int) Option {
	return func(e *Engine) { e.limits.MaxPaths = n }
}

// WithMaxDepth bounds the block count of a single enumerated path.
func WithMaxDepth(n int) Option {
	return func(e *Engine) { e.limits.MaxDepth = n }
}

// WithMaxBlockVisits bounds how often a single block may recur within one
// enumerated path before the branch is abandoned.
func WithMaxBlockVisits(n int) Option {
	return func(e *Engine) { e.limits.MaxBlockVisits = n }
}

// WithInterprocedural toggles the advisory interprocedural pass.
func WithInterprocedural(enabled bool) Option {
	return func(e *Engine) { e.interprocedural = enabled }
}
