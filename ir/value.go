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

package ir

// Value is an exit-value shape, the operand of a [Return] or a [Call]
// argument. The set of implementations is closed so that ownership-transfer
// classification is a single recursive function.
type Value interface {
	value()
}

// VarRef is a direct reference to a variable.
type VarRef struct {
	Var *Variable
}

// Convert is a trivial wrapper around another value: a type conversion or
// parenthesization. Transparent for ownership-transfer classification.
type Convert struct {
	X Value
}

// Await is a suspension-point wrapper. The analysis never suspends; the
// wrapper is transparent, exactly like [Convert].
type Await struct {
	X Value
}

// Cond is a two-armed conditional (ternary) value.
type Cond struct {
	Then Value
	Else Value
}

// Coalesce is a null-coalescing value: Right is evaluated only when Left
// resolves to the null value.
type Coalesce struct {
	Left  Value
	Right Value
}

// Switch is a multi-arm switch expression.
type Switch struct {
	Arms []Value
}

// Raise is an arm that terminates abnormally instead of producing a value.
type Raise struct{}

// Opaque is any value the frontend cannot express in the shapes above.
type Opaque struct{}

func (VarRef) value()   {}
func (Convert) value()  {}
func (Await) value()    {}
func (Cond) value()     {}
func (Coalesce) value() {}
func (Switch) value()   {}
func (Raise) value()    {}
func (Opaque) value()   {}

// ValueMentions reports whether val contains a direct or wrapped reference
// to v.
func ValueMentions(val Value, v *Variable) bool {
	switch val := val.(type) {
	case VarRef:
		return val.Var == v

	case Convert:
		return ValueMentions(val.X, v)

	case Await:
		return ValueMentions(val.X, v)

	case Cond:
		return ValueMentions(val.Then, v) || ValueMentions(val.Else, v)

	case Coalesce:
		return ValueMentions(val.Left, v) || ValueMentions(val.Right, v)

	case Switch:
		for _, arm := range val.Arms {
			if ValueMentions(arm, v) {
				return true
			}
		}

		return false

	default:
		return false
	}
}
