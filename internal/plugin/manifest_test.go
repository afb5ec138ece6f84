// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 plugsh Contributors

package plugin

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifest_Valid(t *testing.T) {
	data := []byte(`name: echo
version: 0.1.0
executable: echo
`)

	m, err := ParseManifest(data)
	require.NoError(t, err)
	assert.Equal(t, "echo", m.Name)
	assert.Equal(t, "0.1.0", m.Version)
	assert.Equal(t, "echo", m.Executable)
}

func TestParseManifest_Empty(t *testing.T) {
	_, err := ParseManifest(nil)
	assert.Error(t, err)
}

func TestParseManifest_InvalidYAML(t *testing.T) {
	_, err := ParseManifest([]byte("name: [unclosed"))
	assert.Error(t, err)
}

func TestManifest_Validate(t *testing.T) {
	valid := Manifest{Name: "counter", Version: "1.2.3", Executable: "counter"}

	tests := []struct {
		name   string
		mutate func(*Manifest)
		wantOK bool
	}{
		{"valid", func(_ *Manifest) {}, true},
		{"single char name", func(m *Manifest) { m.Name = "x" }, true},
		{"hyphenated name", func(m *Manifest) { m.Name = "my-plugin" }, true},
		{"empty name", func(m *Manifest) { m.Name = "" }, false},
		{"uppercase name", func(m *Manifest) { m.Name = "Echo" }, false},
		{"trailing hyphen", func(m *Manifest) { m.Name = "echo-" }, false},
		{"missing version", func(m *Manifest) { m.Version = "" }, false},
		{"bad semver", func(m *Manifest) { m.Version = "not-a-version" }, false},
		{"missing executable", func(m *Manifest) { m.Executable = "" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := valid
			tt.mutate(&m)
			err := m.Validate()
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
