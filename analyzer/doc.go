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

// Package analyzer implements the releaseguard static analysis pass.
//
// # Overview
//
// ReleaseGuard verifies that resource-owning variables — values whose type
// carries a release protocol such as Close or Shutdown — are released on
// every execution path of the function that acquires them.
//
// # Example
//
// Reported:
//
//	func process(name string) error {
//	    f, err := os.Open(name)
//	    if err != nil {
//	        return err
//	    }
//	    if _, err := io.Copy(io.Discard, f); err != nil {
//	        return err // f leaks on this path
//	    }
//	    return f.Close()
//	}
//
// Accepted:
//
//	func process(name string) error {
//	    f, err := os.Open(name)
//	    if err != nil {
//	        return err
//	    }
//	    defer f.Close()
//	    _, err = io.Copy(io.Discard, f)
//	    return err
//	}
//
// # Verified patterns
//
// The analyzer accepts four release patterns:
//
//   - scoped acquisition: a deferred release immediately after the acquisition
//   - guaranteed cleanup: a release inside a deferred cleanup function
//   - ownership transfer: the resource is returned to the caller on every exit
//   - explicit release: a release call proven to precede every exit
//
// Functions whose control flow cannot be modeled, and variables whose
// resource escapes through aliasing, closures or containers, are skipped
// rather than misreported.
package analyzer
