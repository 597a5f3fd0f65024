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

// Package ir defines the procedure representation consumed by the release
// verification engine.
//
// The engine is agnostic to the source syntax and to the resource kind: a
// frontend lowers one analyzable unit (function, method, closure) into a
// [Procedure] made of a small, closed set of statement shapes, and injects a
// classifier that decides which [Call] operations release a given
// [Variable]. Exit values are likewise a closed set of shapes
// ([VarRef], [Convert], [Await], [Cond], [Coalesce], [Switch], [Raise],
// [Opaque]) so that ownership-transfer resolution is a single recursive
// unwrap-and-classify function instead of type tests scattered through the
// engine.
//
// Procedures and all contained nodes are immutable during analysis.
// Variables are identified by pointer identity, never by name: two lexically
// identical names in different scopes are distinct variables.
package ir
