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

// Package run drives one analysis pass: it lowers every function declaration
// of the package, verifies each tracked resource variable and reports the
// negative verdicts.
package run

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"runtime/trace"

	"golang.org/x/tools/go/analysis"
	"golang.org/x/tools/go/analysis/passes/inspect"
	"golang.org/x/tools/go/ast/inspector"

	"fillmore-labs.com/releaseguard/internal/astutil"
	"fillmore-labs.com/releaseguard/internal/config"
	"fillmore-labs.com/releaseguard/internal/frontend"
	"fillmore-labs.com/releaseguard/internal/report"
	"fillmore-labs.com/releaseguard/verify"
)

// ErrResultMissing indicates a missing required analyzer result.
var ErrResultMissing = errors.New("analyzer result missing")

// Run performs the analysis for one package.
func (r *Options) Run(p *analysis.Pass) (any, error) {
	// Retrieves the [inspector.Inspector] from the pass results.
	in, ok := p.ResultOf[inspect.Analyzer].(*inspector.Inspector)
	if !ok {
		return nil, fmt.Errorf("releaseguard: %s %w", inspect.Analyzer.Name, ErrResultMissing)
	}

	ctx := context.Background()

	ctx, task := trace.NewTask(ctx, "ReleaseGuard")
	defer task.End()

	trace.Log(ctx, "package", p.Pkg.Path())

	methods := r.releaseMethods()

	// Loop over all files
	for f := range in.Root().Children() {
		file := f.Node().(*ast.File)

		currentFile := astutil.NewCurrentFile(p.Fset, file)
		if !currentFile.Valid() {
			astutil.InternalError(p, file, "File %s without valid info", file.Name.Name)

			continue
		}

		// Skip generated files
		if currentFile.Generated() && !r.Behavior.Enabled(config.IncludeGenerated) {
			continue
		}

		// Skip files with nolint comment
		if file.Doc != nil && astutil.CommentHasNoLint(file.Doc.List[len(file.Doc.List)-1]) {
			continue
		}

		if err := r.runFile(ctx, p, f, currentFile, methods); err != nil {
			return nil, err
		}
	}

	return nil, nil
}

func (r *Options) runFile(
	ctx context.Context, p *analysis.Pass, f inspector.Cursor, currentFile astutil.CurrentFile,
	methods frontend.ReleaseMethods,
) error {
	defer trace.StartRegion(ctx, "File").End()

	// Loop over all function and method declarations in this file
	for c := range f.Preorder((*ast.FuncDecl)(nil)) {
		fun := c.Node().(*ast.FuncDecl)

		if fun.Body == nil {
			continue
		}

		// Skip functions with nolint comment
		if fun.Doc != nil && astutil.CommentHasNoLint(fun.Doc.List[len(fun.Doc.List)-1]) {
			continue
		}

		lowered, ok := frontend.Lower(p.TypesInfo, fun, methods)
		if !ok || len(lowered.Tracked) == 0 {
			continue
		}

		// The graph cache is per function: every tracked variable of the
		// function reuses the same graph.
		engine := verify.New(
			verify.WithMaxPaths(r.MaxPaths),
			verify.WithMaxBlockVisits(r.MaxBlockVisits),
			verify.WithInterprocedural(r.Behavior.Enabled(config.Interprocedural)),
			verify.WithResolver(lowered.Resolver),
		)

		for _, tv := range lowered.Tracked {
			if tv.Escapes || currentFile.NoLintComment(tv.Var.Pos) {
				continue
			}

			verdict, err := engine.Verify(ctx, lowered.Proc, tv.Var, lowered.IsRelease)
			if err != nil {
				return err
			}

			report.Verdict(p, report.Tracked{
				Name:       tv.Var.Name,
				Pos:        tv.Var.Pos,
				Method:     tv.Method,
				AcquireEnd: tv.AcquireEnd,
			}, verdict)
		}
	}

	return nil
}

func (r *Options) releaseMethods() frontend.ReleaseMethods {
	if len(r.ReleaseMethods) == 0 {
		return frontend.DefaultReleaseMethods()
	}

	methods := make(frontend.ReleaseMethods, len(r.ReleaseMethods))
	for _, name := range r.ReleaseMethods {
		methods[name] = true
	}

	return methods
}
