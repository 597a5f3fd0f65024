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

package run

import "fillmore-labs.com/releaseguard/internal/config"

// Options holds the resolved configuration of one analysis run.
type Options struct {
	// Behavior holds behavioral options.
	Behavior config.BitMask[config.Config]

	// MaxPaths bounds the number of execution paths enumerated as evidence
	// for one diagnostic.
	MaxPaths int

	// MaxBlockVisits bounds how often a single block may recur within one
	// enumerated path.
	MaxBlockVisits int

	// ReleaseMethods overrides the release protocol method names. Empty means
	// the built-in protocol.
	ReleaseMethods []string
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		Behavior:       config.NewBitMask(config.Interprocedural),
		MaxPaths:       100,
		MaxBlockVisits: 3,
	}
}
