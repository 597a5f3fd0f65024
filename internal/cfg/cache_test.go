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

package cfg_test

import (
	"sync"
	"testing"

	"fillmore-labs.com/releaseguard/internal/cfg"
	"fillmore-labs.com/releaseguard/ir"
)

func TestCacheReuse(t *testing.T) {
	t.Parallel()

	c := cfg.NewCache()
	p := body(&ir.Call{Callee: "a"})

	first := c.Graph(p)
	if first == nil {
		t.Fatal("expected a graph")
	}

	if second := c.Graph(p); second != first {
		t.Error("same procedure should yield the cached graph")
	}

	c.Clear()

	if third := c.Graph(p); third == first {
		t.Error("Clear should drop cached graphs")
	}
}

func TestCacheNilGraph(t *testing.T) {
	t.Parallel()

	c := cfg.NewCache()
	p := &ir.Procedure{Name: "f", Expr: &ir.Return{}}

	if g := c.Graph(p); g != nil {
		t.Error("expression-bodied procedures have no graph")
	}

	// The nil result is cached, too.
	if g := c.Graph(p); g != nil {
		t.Error("cached nil result changed")
	}
}

func TestCacheConcurrent(t *testing.T) {
	t.Parallel()

	c := cfg.NewCache()
	p := body(&ir.Call{Callee: "a"})

	const workers = 8

	graphs := make([]*cfg.Graph, workers)

	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			graphs[i] = c.Graph(p)
		}()
	}

	wg.Wait()

	for i := 1; i < workers; i++ {
		if graphs[i] != graphs[0] {
			t.Fatal("concurrent queries should observe one graph")
		}
	}
}
