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

package frontend

import (
	"go/ast"
	"go/types"
)

// FuncName identifies a function or method by package path, receiver type
// name and function name.
type FuncName struct {
	Path     string
	Receiver string
	Name     string
}

// String formats the name as "path.Name" or "(path.Receiver).Name".
func (f FuncName) String() string {
	if f.Receiver == "" {
		return f.Path + "." + f.Name
	}

	return "(" + f.Path + "." + f.Receiver + ")." + f.Name
}

// FuncNameOf derives the [FuncName] of a resolved function object, unwrapping
// pointer receivers and aliases.
func FuncNameOf(fun *types.Func) FuncName {
	name := FuncName{Name: fun.Name()}
	if pkg := fun.Pkg(); pkg != nil {
		name.Path = pkg.Path()
	}

	sig, ok := fun.Type().(*types.Signature)
	if !ok {
		return name
	}

	recv := sig.Recv()
	if recv == nil {
		return name
	}

	typ := types.Unalias(recv.Type())
	if ptr, ok := typ.(*types.Pointer); ok {
		typ = types.Unalias(ptr.Elem())
	}

	if named, ok := typ.(*types.Named); ok {
		name.Receiver = named.Obj().Name()
		if pkg := named.Obj().Pkg(); pkg != nil {
			name.Path = pkg.Path()
		}
	}

	return name
}

// _knownFuncs are functions that do not return.
var _knownFuncs = map[FuncName]struct{}{
	{Path: "log", Name: "Fatal"}:   {},
	{Path: "log", Name: "Fatalf"}:  {},
	{Path: "log", Name: "Fatalln"}: {},
	{Path: "log", Name: "Panic"}:   {},
	{Path: "log", Name: "Panicf"}:  {},
	{Path: "log", Name: "Panicln"}: {},

	{Path: "log", Receiver: "Logger", Name: "Fatal"}:   {},
	{Path: "log", Receiver: "Logger", Name: "Fatalf"}:  {},
	{Path: "log", Receiver: "Logger", Name: "Fatalln"}: {},
	{Path: "log", Receiver: "Logger", Name: "Panic"}:   {},
	{Path: "log", Receiver: "Logger", Name: "Panicf"}:  {},
	{Path: "log", Receiver: "Logger", Name: "Panicln"}: {},

	{Path: "os", Name: "Exit"}:        {},
	{Path: "syscall", Name: "Exit"}:   {},
	{Path: "runtime", Name: "Goexit"}: {},

	{Path: "testing", Receiver: "common", Name: "Fatal"}:   {},
	{Path: "testing", Receiver: "common", Name: "Fatalf"}:  {},
	{Path: "testing", Receiver: "common", Name: "FailNow"}: {},
	{Path: "testing", Receiver: "common", Name: "Skip"}:    {},
	{Path: "testing", Receiver: "common", Name: "Skipf"}:   {},
	{Path: "testing", Receiver: "common", Name: "SkipNow"}: {},

	{Path: "testing", Receiver: "TB", Name: "Fatal"}:   {},
	{Path: "testing", Receiver: "TB", Name: "Fatalf"}:  {},
	{Path: "testing", Receiver: "TB", Name: "FailNow"}: {},
	{Path: "testing", Receiver: "TB", Name: "Skip"}:    {},
	{Path: "testing", Receiver: "TB", Name: "Skipf"}:   {},
	{Path: "testing", Receiver: "TB", Name: "SkipNow"}: {},

	{Path: "go.uber.org/zap", Receiver: "Logger", Name: "Fatal"}:          {},
	{Path: "go.uber.org/zap", Receiver: "Logger", Name: "Panic"}:          {},
	{Path: "go.uber.org/zap", Receiver: "SugaredLogger", Name: "Fatal"}:   {},
	{Path: "go.uber.org/zap", Receiver: "SugaredLogger", Name: "Fatalf"}:  {},
	{Path: "go.uber.org/zap", Receiver: "SugaredLogger", Name: "Fatalln"}: {},
	{Path: "go.uber.org/zap", Receiver: "SugaredLogger", Name: "Fatalw"}:  {},
	{Path: "go.uber.org/zap", Receiver: "SugaredLogger", Name: "Panic"}:   {},
	{Path: "go.uber.org/zap", Receiver: "SugaredLogger", Name: "Panicf"}:  {},
	{Path: "go.uber.org/zap", Receiver: "SugaredLogger", Name: "Panicln"}: {},
	{Path: "go.uber.org/zap", Receiver: "SugaredLogger", Name: "Panicw"}:  {},

	{Path: "github.com/sirupsen/logrus", Receiver: "Entry", Name: "Panic"}:    {},
	{Path: "github.com/sirupsen/logrus", Receiver: "Entry", Name: "Panicf"}:   {},
	{Path: "github.com/sirupsen/logrus", Receiver: "Entry", Name: "Panicln"}:  {},
	{Path: "github.com/sirupsen/logrus", Receiver: "Logger", Name: "Exit"}:    {},
	{Path: "github.com/sirupsen/logrus", Receiver: "Logger", Name: "Panic"}:   {},
	{Path: "github.com/sirupsen/logrus", Receiver: "Logger", Name: "Panicf"}:  {},
	{Path: "github.com/sirupsen/logrus", Receiver: "Logger", Name: "Panicln"}: {},
}

// cantReturn determines if the given call expression invokes a function that
// cannot return. Such calls lower to abnormal exits.
func (l *lowerer) cantReturn(n *ast.CallExpr) bool {
	ex := n.Fun

unwrap:
	switch e := ex.(type) {
	case *ast.Ident:
		return cantReturnFunc(l.info, e)

	case *ast.SelectorExpr:
		return cantReturnFunc(l.info, e.Sel)

	case *ast.IndexExpr: // Generic function instantiation with a type parameter ("myFunc[T]").
		ex = e.X
		goto unwrap

	case *ast.IndexListExpr: // Generic function instantiation with multiple type parameters ("myFunc[T, U]").
		ex = e.X
		goto unwrap

	case *ast.ParenExpr:
		ex = e.X
		goto unwrap

	default: // Pointer dereference or another function reference.
		return false
	}
}

func cantReturnFunc(info *types.Info, id *ast.Ident) bool {
	fun, ok := info.Uses[id].(*types.Func)
	if !ok {
		return false
	}

	_, ok = _knownFuncs[FuncNameOf(fun)]

	return ok
}
