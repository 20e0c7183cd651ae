// Copyright 2025 sysinval project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

func TestLoadData(t *testing.T) {
	data := `
# A comment line.
{
	# Another comment.
	"name": "foo",
	"value": 42
}
`
	cfg := new(testConfig)
	require.NoError(t, LoadData([]byte(data), cfg))
	assert.Equal(t, &testConfig{Name: "foo", Value: 42}, cfg)
}

func TestLoadDataUnknownField(t *testing.T) {
	err := LoadData([]byte(`{"name": "foo", "vlaue": 1}`), new(testConfig))
	assert.Error(t, err)
}

func TestSaveLoadFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "test.cfg")
	saved := &testConfig{Name: "bar", Value: 7}
	require.NoError(t, SaveFile(file, saved))
	loaded := new(testConfig)
	require.NoError(t, LoadFile(file, loaded))
	assert.Equal(t, saved, loaded)
}

func TestLoadFileEmptyName(t *testing.T) {
	assert.Error(t, LoadFile("", new(testConfig)))
}
