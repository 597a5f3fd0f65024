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

package annotate

import (
	"context"
	"strings"

	"fillmore-labs.com/releaseguard/ir"
)

// Advisory notes a call that may take ownership of the tracked variable.
// Advisories are heuristic and never gate the verdict.
type Advisory struct {
	// Call is the flagged operation.
	Call *ir.Call

	// Callee is the resolved or syntactic callee name.
	Callee string

	// Reason explains why the call was flagged.
	Reason string
}

// releaseKeywords are name fragments suggesting the callee invokes the
// release protocol on its argument.
var releaseKeywords = []string{
	"close", "dispose", "release", "free", "destroy", "shutdown", "cleanup",
}

// ownershipKeywords are parameter-name fragments suggesting the callee takes
// ownership of its argument.
var ownershipKeywords = []string{"own", "adopt", "consume"}

// Resolve maps a call operation to its resolved target name. A nil resolver
// falls back to the syntactic callee name.
type Resolve func(*ir.Call) (string, bool)

// Interprocedural flags every call that passes the tracked variable as an
// argument and whose name, or matching parameter name, heuristically
// suggests the callee releases or takes ownership of it.
func Interprocedural(ctx context.Context, p *ir.Procedure, v *ir.Variable, resolve Resolve) ([]Advisory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var advisories []Advisory

	body := &ir.Block{Stmts: p.Statements()}
	body.Walk(func(s ir.Stmt) bool {
		call, ok := s.(*ir.Call)
		if !ok || !call.Mentions(v) {
			return true
		}

		callee := call.Callee
		if resolve != nil {
			if name, ok := resolve(call); ok {
				callee = name
			}
		}

		if reason, ok := suggestsOwnership(call, callee, v); ok {
			advisories = append(advisories, Advisory{Call: call, Callee: callee, Reason: reason})
		}

		return true
	})

	return advisories, nil
}

func suggestsOwnership(call *ir.Call, callee string, v *ir.Variable) (string, bool) {
	if matchesAny(callee, releaseKeywords) {
		return "callee name suggests it releases its argument", true
	}

	for i, arg := range call.Args {
		if i >= len(call.Params) || !ir.ValueMentions(arg, v) {
			continue
		}

		param := call.Params[i]
		if matchesAny(param, ownershipKeywords) || matchesAny(param, releaseKeywords) {
			return "parameter name suggests the callee takes ownership", true
		}
	}

	return "", false
}

func matchesAny(name string, keywords []string) bool {
	name = strings.ToLower(name)

	for _, kw := range keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}

	return false
}
