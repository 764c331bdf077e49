// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !future_debug

package future

// debugAssertionsEnabled is false by default; misuse checks are compiled
// out of release builds.
const debugAssertionsEnabled = false
