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

import (
	"github.com/golangci/plugin-module-register/register"
	"golang.org/x/tools/go/analysis"

	releaseguard "fillmore-labs.com/releaseguard/analyzer"
)

func init() { register.Plugin("releaseguard", New) }

// New creates the releaseguard linter plugin from decoded settings.
func New(rawSettings any) (register.LinterPlugin, error) {
	settings, err := register.DecodeSettings[Settings](rawSettings)
	if err != nil {
		return nil, err
	}

	return Plugin{settings: settings}, nil
}

// Plugin is the releaseguard golangci-lint plugin.
type Plugin struct {
	settings Settings
}

// GetLoadMode implements [register.LinterPlugin].
func (Plugin) GetLoadMode() string {
	return register.LoadModeTypesInfo
}

// BuildAnalyzers implements [register.LinterPlugin].
func (p Plugin) BuildAnalyzers() ([]*analysis.Analyzer, error) {
	// golangci-lint has its own generated-file filter, so the analyzer's is
	// disabled to avoid skipping files twice.
	opts := append(p.settings.Options(), releaseguard.WithGenerated(true))
	a := releaseguard.New(opts...)

	return []*analysis.Analyzer{a}, nil
}
