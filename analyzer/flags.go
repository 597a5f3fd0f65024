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
	"flag"

	"fillmore-labs.com/releaseguard/internal/config"
	"fillmore-labs.com/releaseguard/internal/run"
)

// registerFlags binds the run options to command line flag values.
// A nil flag set value defaults to the program's command line.
func registerFlags(flags *flag.FlagSet, r *run.Options) {
	if flags == nil {
		flags = flag.CommandLine
	}

	flags.Var(boolValue[config.Config, *config.BitMask[config.Config]]{flags: &r.Behavior, value: config.IncludeGenerated},
		"generated", "check generated files")
	flags.Var(boolValue[config.Config, *config.BitMask[config.Config]]{flags: &r.Behavior, value: config.Interprocedural},
		"interprocedural", "attach advisory notes about possible releases by callees")
	flags.Var(listValue{list: &r.ReleaseMethods},
		"release-methods", "comma-separated release method names overriding the built-in protocol")
	flags.IntVar(&r.MaxPaths, "max-paths", r.MaxPaths,
		"maximum number of execution paths shown as evidence")
	flags.IntVar(&r.MaxBlockVisits, "max-block-visits", r.MaxBlockVisits,
		"maximum recurrences of a block within one evidence path")
}
