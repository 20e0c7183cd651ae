// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

//go:build !linux

package trial

import "fmt"

func MapResources(dir string) (*Resources, error) {
	return nil, fmt.Errorf("guard pages are not supported on this platform")
}

func (res *Resources) release() {
}

func (res *Resources) ReviveFDs() {
}
