// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build future_debug

package future

// debugAssertionsEnabled is true under the future_debug build tag.
// Gates the two debug-only checks spec.md §7 calls "misuse (debug)":
// Peek called before a blocking access observed availability, and Reset
// called while delay/selectClients are non-empty. Both are no-ops (and
// their preconditions are undefined behavior, not errors) in release
// builds — matching spec.md §4.1's "undefined in release if called
// before a successful blocking access."
const debugAssertionsEnabled = true
