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

import (
	"context"
	"errors"
	"fmt"
	"go/token"

	"fillmore-labs.com/releaseguard/internal/annotate"
	"fillmore-labs.com/releaseguard/internal/cfg"
	"fillmore-labs.com/releaseguard/internal/dataflow"
	"fillmore-labs.com/releaseguard/internal/fallback"
	"fillmore-labs.com/releaseguard/internal/paths"
	"fillmore-labs.com/releaseguard/internal/transfer"
	"fillmore-labs.com/releaseguard/ir"
)

// Caller contract violations. These are programming errors in the caller,
// not analysis outcomes.
var (
	// ErrNilProcedure is returned for a nil procedure.
	ErrNilProcedure = errors.New("verify: nil procedure")

	// ErrNilVariable is returned for a nil tracked variable.
	ErrNilVariable = errors.New("verify: nil variable")

	// ErrNilClassifier is returned for a nil release classifier.
	ErrNilClassifier = errors.New("verify: nil classifier")
)

// Classifier reports whether a call operation invokes the release protocol
// on the tracked variable. Injected by the caller so the engine stays
// resource-kind-agnostic.
type Classifier func(call *ir.Call, v *ir.Variable) bool

// Engine verifies that a tracked resource-owning variable is released on
// every execution path of a procedure.
//
// An engine is safe for concurrent use: analyses of independent procedures
// share only the control-flow graph cache, which is internally locked.
type Engine struct {
	cache           *cfg.Cache
	limits          paths.Limits
	resolver        Resolver
	interprocedural bool
}

// New creates an [Engine] with the given options. The zero configuration
// uses the default enumeration limits and enables the advisory
// interprocedural pass.
func New(opts ...Option) *Engine {
	e := &Engine{
		cache:           cfg.NewCache(),
		limits:          paths.DefaultLimits(),
		interprocedural: true,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// ClearCache drops all cached control-flow graphs. Graphs are rebuilt on the
// next query; correctness is unaffected.
func (e *Engine) ClearCache() { e.cache.Clear() }

// Verify decides whether v is guaranteed to be released on every execution
// path of p, and assembles the supporting evidence.
//
// The fast, always-correct shortcuts (scoped acquisition, release in a
// guaranteed-cleanup block, ownership transfer) are checked before the
// dataflow fixed point. When graph construction is unavailable for p's body
// shape, the syntactic fallback analyzer decides instead.
//
// Errors are returned only for caller contract violations and context
// cancellation; an undecidable analysis is a [Verdict] with Succeeded false.
func (e *Engine) Verify(ctx context.Context, p *ir.Procedure, v *ir.Variable, isRelease Classifier) (Verdict, error) {
	switch {
	case p == nil:
		return Verdict{}, ErrNilProcedure

	case v == nil:
		return Verdict{}, ErrNilVariable

	case isRelease == nil:
		return Verdict{}, ErrNilClassifier
	}

	verdict, err := e.verify(ctx, p, v, isRelease)
	if err != nil {
		return Verdict{}, err
	}

	// The interprocedural pass consumes the finalized verdict: it attaches
	// advisory information and never flips the conclusion.
	if e.interprocedural {
		verdict.Interprocedural, err = e.advisories(ctx, p, v)
		if err != nil {
			return Verdict{}, err
		}
	}

	return verdict, nil
}

func (e *Engine) verify(ctx context.Context, p *ir.Procedure, v *ir.Variable, isRelease Classifier) (Verdict, error) {
	if fallback.Scoped(p, v) {
		return positive(PatternScopedAcquisition,
			"%s is acquired by a scoped construct that guarantees release on every exit", v.Name), nil
	}

	if fallback.CleanupRelease(p, v, fallback.IsRelease(isRelease)) {
		return positive(PatternGuaranteedCleanup,
			"%s is released in a guaranteed-cleanup block", v.Name), nil
	}

	g := e.cache.Graph(p)
	if g == nil {
		return e.syntactic(ctx, p, v, isRelease)
	}

	transferred, err := transfer.Transferred(ctx, p, v, g, e.resolver != nil)
	if err != nil {
		return Verdict{}, err
	}

	if transferred {
		return positive(PatternOwnershipTransfer,
			"ownership of %s is transferred to the caller on every exit", v.Name), nil
	}

	return e.dataflow(ctx, g, p, v, isRelease)
}

// dataflow runs the worklist fixed point and the loop annotator, then
// gathers path evidence for negative verdicts.
func (e *Engine) dataflow(ctx context.Context, g *cfg.Graph, p *ir.Procedure, v *ir.Variable, isRelease Classifier) (Verdict, error) {
	releaseBlocks := collectReleaseBlocks(g, v, isRelease)

	var verdict Verdict

	if len(releaseBlocks) == 0 {
		// No release event anywhere and no shortcut applied.
		verdict = negative(PatternNone, "%s is never released", v.Name)
	} else {
		released, err := dataflow.AllPathsReleased(ctx, g, releaseBlocks, func(ret *ir.Return) bool {
			return transfer.Transfers(ret, v)
		})
		if err != nil {
			return Verdict{}, err
		}

		if released {
			verdict = positive(PatternExplicitAllPaths, "%s is released before every exit", v.Name)
		} else {
			verdict = negative(PatternIncomplete, "%s is not released on every execution path", v.Name)
		}
	}

	loops, err := annotate.Loops(ctx, g, v, releaseBlocks)
	if err != nil {
		return Verdict{}, err
	}

	verdict.Loop = &LoopInfo{
		AcquiredInLoop: loops.AcquiredInLoop,
		ReleasedInLoop: loops.ReleasedInLoop,
		Mismatch:       loops.Mismatch,
	}

	// A loop-scope mismatch overrides an otherwise-positive conclusion: the
	// release may cover only some iterations.
	if verdict.ReleasedOnAllPaths && loops.Mismatch {
		verdict = negative(PatternIncomplete,
			"%s is released inside a loop that does not enclose its creation", v.Name)
		verdict.Loop = &LoopInfo{
			AcquiredInLoop: loops.AcquiredInLoop,
			ReleasedInLoop: loops.ReleasedInLoop,
			Mismatch:       true,
		}
	}

	if !verdict.ReleasedOnAllPaths {
		verdict.ProblematicPaths, err = e.evidence(ctx, g, v, releaseBlocks)
		if err != nil {
			return Verdict{}, err
		}
	}

	return verdict, nil
}

// syntactic degrades to the statement-order fallback when graph construction
// is unavailable.
func (e *Engine) syntactic(ctx context.Context, p *ir.Procedure, v *ir.Variable, isRelease Classifier) (Verdict, error) {
	outcome, err := fallback.Analyze(ctx, p, v, fallback.IsRelease(isRelease))
	if err != nil {
		return Verdict{}, err
	}

	switch outcome {
	case fallback.ScopedAcquisition:
		return positive(PatternScopedAcquisition,
			"%s is acquired by a scoped construct that guarantees release on every exit", v.Name), nil

	case fallback.GuaranteedCleanup:
		return positive(PatternGuaranteedCleanup,
			"%s is released in a guaranteed-cleanup block", v.Name), nil

	case fallback.OrderVerified:
		return positive(PatternExplicitAllPaths,
			"%s is released before every exit", v.Name), nil

	case fallback.NotReleased:
		return negative(PatternIncomplete, "%s is not released before every exit", v.Name), nil

	default: // fallback.Unknown
		return Verdict{
			Pattern: PatternNone,
			Reason:  fmt.Sprintf("control flow is too complex for statement-order analysis of %s", v.Name),
		}, nil
	}
}

// evidence enumerates bounded paths and keeps those that miss a release and
// do not end in an ownership-transferring exit.
func (e *Engine) evidence(ctx context.Context, g *cfg.Graph, v *ir.Variable, releaseBlocks map[*cfg.Block]bool) ([]Path, error) {
	enumerated, err := paths.Enumerate(ctx, g, e.limits)
	if err != nil {
		return nil, err
	}

	var problematic []Path

	for _, path := range enumerated {
		if pathReleases(path, releaseBlocks) || pathTransfers(path, v) {
			continue
		}

		problematic = append(problematic, Path{
			Blocks:         blockIndices(path.Blocks),
			End:            lastPos(path.Blocks),
			ThroughCleanup: len(path.Cleanups) > 0,
		})
	}

	return problematic, nil
}

func (e *Engine) advisories(ctx context.Context, p *ir.Procedure, v *ir.Variable) ([]Advisory, error) {
	var resolve annotate.Resolve
	if e.resolver != nil {
		resolve = e.resolver.ResolveCallee
	}

	notes, err := annotate.Interprocedural(ctx, p, v, resolve)
	if err != nil {
		return nil, err
	}

	advisories := make([]Advisory, 0, len(notes))
	for _, note := range notes {
		advisories = append(advisories, Advisory{
			Callee: note.Callee,
			Pos:    note.Call.Pos(),
			Reason: note.Reason,
		})
	}

	return advisories, nil
}

func collectReleaseBlocks(g *cfg.Graph, v *ir.Variable, isRelease Classifier) map[*cfg.Block]bool {
	releaseBlocks := make(map[*cfg.Block]bool)

	for _, b := range g.Blocks {
		for _, op := range b.Ops {
			if call, ok := op.(*ir.Call); ok && isRelease(call, v) {
				releaseBlocks[b] = true

				break
			}
		}
	}

	return releaseBlocks
}

func pathReleases(path paths.Path, releaseBlocks map[*cfg.Block]bool) bool {
	for _, b := range path.Blocks {
		if releaseBlocks[b] {
			return true
		}
	}

	return false
}

func pathTransfers(path paths.Path, v *ir.Variable) bool {
	if len(path.Blocks) == 0 {
		return false
	}

	last := path.Blocks[len(path.Blocks)-1]
	for _, op := range last.Ops {
		if ret, ok := op.(*ir.Return); ok && transfer.Transfers(ret, v) {
			return true
		}
	}

	return false
}

func blockIndices(blocks []*cfg.Block) []int {
	indices := make([]int, len(blocks))
	for i, b := range blocks {
		indices[i] = b.Index
	}

	return indices
}

func lastPos(blocks []*cfg.Block) token.Pos {
	for i := len(blocks) - 1; i >= 0; i-- {
		ops := blocks[i].Ops
		for j := len(ops) - 1; j >= 0; j-- {
			if pos := ops[j].Pos(); pos.IsValid() {
				return pos
			}
		}
	}

	return token.NoPos
}

func positive(pattern Pattern, format string, args ...any) Verdict {
	return Verdict{
		Succeeded:          true,
		ReleasedOnAllPaths: true,
		Pattern:            pattern,
		Reason:             fmt.Sprintf(format, args...),
	}
}

func negative(pattern Pattern, format string, args ...any) Verdict {
	return Verdict{
		Succeeded: true,
		Pattern:   pattern,
		Reason:    fmt.Sprintf(format, args...),
	}
}
