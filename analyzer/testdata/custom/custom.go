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

package custom

type worker struct{}

func (w *worker) Stop() {}

func spawn() *worker { return &worker{} }

func poke(w *worker) {}

func missing() {
	w := spawn() // want `Resource 'w' is never released \(rg:mis\)`
	poke(w)
}

func stopped() {
	w := spawn()
	defer w.Stop()
	poke(w)
}

// closer types are invisible to a custom protocol.
type closer struct{}

func (c *closer) Close() {}

func open() *closer { return &closer{} }

func ignored() {
	c := open()
	_ = c
}
