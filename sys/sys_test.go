// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package sys

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kstress/sysinval/trial"
)

func TestAllCases(t *testing.T) {
	all := AllCases()
	if len(all) == 0 {
		t.Skip("no syscall cases on this platform")
	}
	seen := make(map[string]bool)
	for _, c := range all {
		assert.False(t, seen[c.Name], "duplicate case %v", c.Name)
		seen[c.Name] = true
		assert.GreaterOrEqual(t, c.NArgs, 0)
		assert.LessOrEqual(t, c.NArgs, 6)
		for i := c.NArgs; i < 6; i++ {
			assert.Equal(t, trial.KindNone, c.Kinds[i], "case %v has a kind beyond nargs", c.Name)
		}
		for i := 0; i < c.NArgs; i++ {
			assert.NotEqual(t, trial.KindNone, c.Kinds[i], "case %v slot %v has no kind", c.Name, i)
		}
	}
	assert.True(t, seen["read"])
	assert.True(t, seen["read$rand"])
}

func TestEnabled(t *testing.T) {
	if len(AllCases()) == 0 {
		t.Skip("no syscall cases on this platform")
	}
	t.Run("all", func(t *testing.T) {
		cases, err := Enabled(nil, nil, true)
		require.NoError(t, err)
		for i, c := range cases {
			assert.Equal(t, i, c.ID)
		}
	})
	t.Run("enableCall", func(t *testing.T) {
		// A bare call name selects all its variants.
		cases, err := Enabled([]string{"read"}, nil, true)
		require.NoError(t, err)
		var names []string
		for _, c := range cases {
			names = append(names, c.Name)
		}
		assert.Equal(t, []string{"read", "read$rand"}, names)
	})
	t.Run("enableVariant", func(t *testing.T) {
		cases, err := Enabled([]string{"read$rand"}, nil, true)
		require.NoError(t, err)
		require.Len(t, cases, 1)
		assert.Equal(t, "read$rand", cases[0].Name)
	})
	t.Run("glob", func(t *testing.T) {
		cases, err := Enabled([]string{"open*"}, nil, true)
		require.NoError(t, err)
		require.NotEmpty(t, cases)
		for _, c := range cases {
			assert.True(t, strings.HasPrefix(c.Name, "open"))
		}
	})
	t.Run("disable", func(t *testing.T) {
		cases, err := Enabled(nil, []string{"read"}, true)
		require.NoError(t, err)
		for _, c := range cases {
			assert.NotEqual(t, "read", c.Name)
			assert.NotEqual(t, "read$rand", c.Name)
		}
	})
	t.Run("unknownEnable", func(t *testing.T) {
		_, err := Enabled([]string{"no_such_call"}, nil, true)
		assert.Error(t, err)
	})
	t.Run("unknownDisable", func(t *testing.T) {
		_, err := Enabled(nil, []string{"no_such_call"}, true)
		assert.Error(t, err)
	})
	t.Run("unprivileged", func(t *testing.T) {
		privileged, err := Enabled(nil, nil, true)
		require.NoError(t, err)
		plain, err := Enabled(nil, nil, false)
		require.NoError(t, err)
		assert.Greater(t, len(privileged), len(plain))
		for _, c := range plain {
			assert.Zero(t, c.Attrs&trial.AttrNeedsRoot, "case %v needs root", c.Name)
		}
	})
	t.Run("nothingLeft", func(t *testing.T) {
		_, err := Enabled([]string{"read"}, []string{"read"}, true)
		assert.Error(t, err)
	})
}

func TestUniqueOps(t *testing.T) {
	cases := []*trial.SyscallCase{
		{NR: 0, Name: "read"},
		{NR: 0, Name: "read$rand"},
		{NR: 1, Name: "write"},
	}
	assert.Equal(t, 2, UniqueOps(cases))
	assert.Equal(t, 0, UniqueOps(nil))
}
