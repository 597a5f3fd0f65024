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

// Package verify implements the resource-release verification engine.
//
// Given a procedure body (an [ir.Procedure]), a tracked resource-owning
// variable and a caller-injected release classifier, [Engine.Verify] decides
// whether the variable is guaranteed to be released on every execution path,
// accounting for branching, loops, abnormal exits, guaranteed-cleanup blocks,
// scoped-acquisition constructs and transfer of ownership to the caller.
//
// # Verdict sources
//
// Always-correct shortcuts are tried first: scoped acquisition, a release
// event inside a guaranteed-cleanup region, and ownership transfer on every
// explicit exit. Otherwise the verdict comes from a forward monotone
// worklist dataflow over the procedure's control-flow graph — never from
// path enumeration, which is exponential and only provides diagnostic
// evidence. When graph construction is unavailable for a body shape, a
// conservative statement-order fallback decides instead.
//
// # Concurrency
//
// Analyses of independent procedures are embarrassingly parallel. The only
// shared mutable state is the graph cache, guarded by a single lock;
// everything else is a pure function of the inputs. Cancellation is
// cooperative: the caller's context is checked at block and statement
// granularity.
package verify
