// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build !linux || (!amd64 && !arm64)

package sys

// No number table for this platform; AllCases returns nothing and
// Enabled reports that no cases are available.
var syscallNumbers = map[string]uint64{}
