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

package cfg

import (
	"sync"

	"fillmore-labs.com/releaseguard/ir"
)

// Cache memoizes control-flow graphs by procedure identity.
//
// It is the only shared mutable state of the engine and is safe for
// concurrent use. Failed constructions are cached too, so repeated queries
// for the same procedure are O(1) after the first build either way. The
// cache lives for the duration of an analysis session and is explicitly
// clearable.
type Cache struct {
	mu     sync.Mutex
	graphs map[*ir.Procedure]*Graph
}

// NewCache creates an empty graph cache.
func NewCache() *Cache {
	return &Cache{graphs: make(map[*ir.Procedure]*Graph)}
}

// Graph returns the control-flow graph for p, building and caching it on the
// first query. A nil result means construction is not defined for p's body
// shape; that outcome is cached as well.
func (c *Cache) Graph(p *ir.Procedure) *Graph {
	c.mu.Lock()
	defer c.mu.Unlock()

	if g, ok := c.graphs[p]; ok {
		return g
	}

	g := Build(p)
	c.graphs[p] = g

	return g
}

// Clear drops all cached graphs.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.graphs = make(map[*ir.Procedure]*Graph)
}
