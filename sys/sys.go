// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

// Package sys holds the syscall descriptor table: per-platform syscall
// numbers (plain data, selected by build tags) joined with the
// platform-independent argument kind rows from cases.go.
package sys

import (
	"fmt"
	"strings"

	"github.com/kstress/sysinval/trial"
)

// AllCases returns the descriptor rows available on this platform,
// in declaration order. IDs are not assigned yet (see Enabled).
func AllCases() []*trial.SyscallCase {
	var cases []*trial.SyscallCase
	for _, row := range caseRows {
		nr, ok := syscallNumbers[row.call]
		if !ok {
			continue // syscall not present on this platform
		}
		name := row.call
		if row.variant != "" {
			name += "$" + row.variant
		}
		cases = append(cases, &trial.SyscallCase{
			NR:    nr,
			Name:  name,
			NArgs: row.nargs,
			Kinds: row.kinds,
			Attrs: row.attrs,
		})
	}
	return cases
}

// Enabled filters the case table by enable/disable name lists (exact name,
// call name, or prefix with a '*' suffix) and by privilege, and assigns
// sequential IDs. Both the parent and the child derive the case list from
// the same config, so IDs agree across the process boundary.
func Enabled(enable, disable []string, privileged bool) ([]*trial.SyscallCase, error) {
	match := func(c *trial.SyscallCase, str string) bool {
		call, _, _ := strings.Cut(c.Name, "$")
		if str == call || str == c.Name {
			return true
		}
		if len(str) > 1 && str[len(str)-1] == '*' && strings.HasPrefix(c.Name, str[:len(str)-1]) {
			return true
		}
		return false
	}
	all := AllCases()
	selected := make(map[*trial.SyscallCase]bool)
	if len(enable) != 0 {
		for _, str := range enable {
			n := 0
			for _, c := range all {
				if match(c, str) {
					selected[c] = true
					n++
				}
			}
			if n == 0 {
				return nil, fmt.Errorf("unknown enabled syscall: %v", str)
			}
		}
	} else {
		for _, c := range all {
			selected[c] = true
		}
	}
	for _, str := range disable {
		n := 0
		for _, c := range all {
			if match(c, str) {
				delete(selected, c)
				n++
			}
		}
		if n == 0 {
			return nil, fmt.Errorf("unknown disabled syscall: %v", str)
		}
	}
	var cases []*trial.SyscallCase
	for _, c := range all {
		if !selected[c] {
			continue
		}
		if c.Attrs&trial.AttrNeedsRoot != 0 && !privileged {
			continue
		}
		c.ID = len(cases)
		cases = append(cases, c)
	}
	if len(cases) == 0 {
		return nil, fmt.Errorf("no syscall cases enabled on this platform")
	}
	return cases, nil
}

// UniqueOps returns the number of distinct syscall numbers in cases.
func UniqueOps(cases []*trial.SyscallCase) int {
	nrs := make(map[uint64]bool)
	for _, c := range cases {
		nrs[c.NR] = true
	}
	return len(nrs)
}
