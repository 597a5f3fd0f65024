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

package a

type closer struct{}

func (c *closer) Close() {}

func open() *closer { return &closer{} }

func use(c *closer) {}

func missing() {
	f := open() // want `Resource 'f' is never released \(rg:mis\)`
	use(f)
}

func incomplete(ok bool) {
	f := open() // want `Resource 'f' is not released on every execution path \(rg:inc\)`
	if ok {
		f.Close()
	}
}

func abnormal(ok bool) {
	f := open() // want `Resource 'f' is not released on every execution path \(rg:inc\)`
	if !ok {
		panic("unusable")
	}

	f.Close()
}

func deferred() {
	f := open()
	defer f.Close()
	use(f)
}

func always(ok bool) {
	f := open()
	if ok {
		f.Close()

		return
	}

	f.Close()
}

func handOff() *closer {
	f := open()

	return f
}

var sink *closer

func escapes() {
	f := open()
	sink = f
}

func perIteration(n int) {
	for range n {
		f := open()
		use(f)
		f.Close()
	}
}
