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

// Package report converts negative verification verdicts into analysis
// diagnostics.
package report

import (
	"fmt"
	"go/token"

	"golang.org/x/tools/go/analysis"

	"fillmore-labs.com/releaseguard/verify"
)

// Verdict reports a diagnostic for tracked variable v when the verification
// concluded that a release is missing on some path. Positive and undecided
// verdicts are silent: an analyzer that cannot prove a leak says nothing.
func Verdict(p *analysis.Pass, v Tracked, verdict verify.Verdict) {
	if !verdict.Succeeded || verdict.ReleasedOnAllPaths {
		return
	}

	// Acquisition and release inside the same loop: every iteration that
	// acquires also releases. The paths the engine flags are the ones that
	// never enter the loop, and those never acquire either.
	if loop := verdict.Loop; loop != nil && loop.AcquiredInLoop && loop.ReleasedInLoop && !loop.Mismatch {
		return
	}

	diagnostic := analysis.Diagnostic{
		Pos:     v.Pos,
		End:     v.Pos + token.Pos(len(v.Name)),
		Message: fmt.Sprintf("Resource '%s' %s (rg:%s)", v.Name, trimmedReason(verdict, v.Name), tag(verdict.Pattern)),
		Related: related(verdict),
	}

	if verdict.Pattern == verify.PatternNone && v.Method != "" && v.AcquireEnd.IsValid() {
		fix := fmt.Sprintf("defer %s.%s()", v.Name, v.Method)

		diagnostic.SuggestedFixes = []analysis.SuggestedFix{{
			Message: fmt.Sprintf("Add '%s' after the acquisition", fix),
			TextEdits: []analysis.TextEdit{{
				Pos:     v.AcquireEnd,
				End:     v.AcquireEnd,
				NewText: []byte("\n" + fix),
			}},
		}}
	}

	p.Report(diagnostic)
}

// Tracked describes one reported resource variable.
type Tracked struct {
	// Name is the source name of the variable.
	Name string

	// Pos is its declaration position.
	Pos token.Pos

	// Method is the release-protocol method of the variable's type, for the
	// suggested fix.
	Method string

	// AcquireEnd is the end of the acquiring statement, the insertion point
	// for the suggested fix.
	AcquireEnd token.Pos
}

// trimmedReason strips the leading variable name from the verdict reason; the
// diagnostic message already names the variable.
func trimmedReason(verdict verify.Verdict, name string) string {
	reason := verdict.Reason
	if len(reason) > len(name) && reason[:len(name)] == name {
		return reason[len(name)+1:]
	}

	return reason
}

func tag(pattern verify.Pattern) string {
	switch pattern {
	case verify.PatternNone:
		return "mis" // missing release

	case verify.PatternIncomplete:
		return "inc" // incomplete release

	default:
		return "rel"
	}
}

func related(verdict verify.Verdict) []analysis.RelatedInformation {
	var info []analysis.RelatedInformation

	for _, path := range verdict.ProblematicPaths {
		if !path.End.IsValid() {
			continue
		}

		message := "This execution path ends without a release"
		if path.ThroughCleanup {
			message = "This execution path ends without a release, despite passing a cleanup block"
		}

		info = append(info, analysis.RelatedInformation{Pos: path.End, End: path.End, Message: message})
	}

	for _, advisory := range verdict.Interprocedural {
		if !advisory.Pos.IsValid() {
			continue
		}

		info = append(info, analysis.RelatedInformation{
			Pos:     advisory.Pos,
			End:     advisory.Pos,
			Message: fmt.Sprintf("Possible release or ownership transfer by '%s': %s", advisory.Callee, advisory.Reason),
		})
	}

	return info
}
