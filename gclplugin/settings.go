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

package gclplugin

import releaseguard "fillmore-labs.com/releaseguard/analyzer"

// Settings are the plugin settings decoded from the golangci-lint
// configuration.
type Settings struct {
	// Interprocedural attaches advisory notes about possible releases by callees.
	Interprocedural *bool `json:"interprocedural,omitzero"`
	// MaxPaths bounds the number of execution paths shown as evidence.
	MaxPaths *int `json:"max-paths,omitzero"`
	// MaxBlockVisits bounds recurrences of a block within one evidence path.
	MaxBlockVisits *int `json:"max-block-visits,omitzero"`
	// ReleaseMethods overrides the built-in release protocol method names.
	ReleaseMethods *[]string `json:"release-methods,omitzero"`
}

// Options converts the settings into analyzer options.
func (s Settings) Options() []releaseguard.Option {
	var opts []releaseguard.Option

	opts = appendOption(opts, s.Interprocedural, releaseguard.WithInterprocedural)
	opts = appendOption(opts, s.MaxPaths, releaseguard.WithMaxPaths)
	opts = appendOption(opts, s.MaxBlockVisits, releaseguard.WithMaxBlockVisits)
	opts = appendOption(opts, s.ReleaseMethods, releaseguard.WithReleaseMethods)

	return opts
}

func appendOption[T any](opts []releaseguard.Option, value *T, constructor func(T) releaseguard.Option) []releaseguard.Option {
	if value == nil {
		return opts
	}

	return append(opts, constructor(*value))
}
