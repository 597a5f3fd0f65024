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

package analyzer

import (
	"log/slog"
	"slices"

	"fillmore-labs.com/releaseguard/internal/config"
	"fillmore-labs.com/releaseguard/internal/run"
)

// Option configures specific behavior of a [New] releaseguard analyzer.
type Option interface {
	apply(r *run.Options)
	LogAttr() slog.Attr
}

// Options is a list of [Option] values that itself satisfies the [Option] interface.
type Options []Option

// LogValue implements [slog.LogValuer].
func (o Options) LogValue() slog.Value {
	as := make([]slog.Attr, 0, len(o))
	as = appendOptions(as, o)

	return slog.GroupValue(as...)
}

func appendOptions(as []slog.Attr, o Options) []slog.Attr {
	for _, opt := range o {
		switch opt := opt.(type) {
		case nil:
			as = append(as, slog.String("nil", "<nil>"))

		case Options:
			as = appendOptions(as, opt)

		default:
			as = append(as, opt.LogAttr())
		}
	}

	return as
}

func (o Options) apply(r *run.Options) {
	for _, opt := range o {
		if opt == nil {
			continue
		}

		opt.apply(r)
	}
}

// LogAttr is for logging with [slog.Logger.LogAttrs].
func (o Options) LogAttr() slog.Attr {
	return slog.Any("options", o)
}

// WithGenerated is an [Option] to configure diagnostics in generated files.
func WithGenerated(generated bool) Option { return generatedOption{generated: generated} }

type generatedOption struct{ generated bool }

func (o generatedOption) apply(r *run.Options) {
	r.Behavior.Set(config.IncludeGenerated, o.generated)
}

func (o generatedOption) LogAttr() slog.Attr {
	return slog.Bool("generated", o.generated)
}

// WithInterprocedural is an [Option] to configure the advisory
// interprocedural ownership pass.
func WithInterprocedural(interprocedural bool) Option {
	return interproceduralOption{interprocedural: interprocedural}
}

type interproceduralOption struct{ interprocedural bool }

func (o interproceduralOption) apply(r *run.Options) {
	r.Behavior.Set(config.Interprocedural, o.interprocedural)
}

func (o interproceduralOption) LogAttr() slog.Attr {
	return slog.Bool("interprocedural", o.interprocedural)
}

// WithMaxPaths is an [Option] to bound the number of execution paths
// enumerated as evidence for one diagnostic.
func WithMaxPaths(maxPaths int) Option { return maxPathsOption{maxPaths: maxPaths} }

type maxPathsOption struct{ maxPaths int }

func (o maxPathsOption) apply(r *run.Options) {
	r.MaxPaths = o.maxPaths
}

func (o maxPathsOption) LogAttr() slog.Attr {
	return slog.Int("max-paths", o.maxPaths)
}

// WithMaxBlockVisits is an [Option] to bound how often a block may recur
// within one enumerated path.
func WithMaxBlockVisits(maxBlockVisits int) Option {
	return maxBlockVisitsOption{maxBlockVisits: maxBlockVisits}
}

type maxBlockVisitsOption struct{ maxBlockVisits int }

func (o maxBlockVisitsOption) apply(r *run.Options) {
	r.MaxBlockVisits = o.maxBlockVisits
}

func (o maxBlockVisitsOption) LogAttr() slog.Attr {
	return slog.Int("max-block-visits", o.maxBlockVisits)
}

// WithReleaseMethods is an [Option] to override the release protocol method
// names. An empty list keeps the built-in protocol.
func WithReleaseMethods(methods []string) Option {
	return releaseMethodsOption{methods: slices.Clone(methods)}
}

type releaseMethodsOption struct{ methods []string }

func (o releaseMethodsOption) apply(r *run.Options) {
	r.ReleaseMethods = slices.Clone(o.methods)
}

func (o releaseMethodsOption) LogAttr() slog.Attr {
	return slog.Any("release-methods", o.methods)
}
