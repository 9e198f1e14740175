package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetCurrentVersion(t *testing.T) {
	assert.Equal(t, DevVersion, GetCurrentVersion("dev"))
	assert.Equal(t, DevVersion, GetCurrentVersion("demo"))
	assert.Equal(t, Version, GetCurrentVersion("prod"))
}

func TestIsVersionGreaterOrEqualThan(t *testing.T) {
	tests := []struct {
		version string
		target  string
		want    bool
	}{
		{"0.2.0", "0.1.0", true},
		{"0.1.0", "0.1.0", true},
		{"0.1.0", "0.2.0", false},
		{"1.0.0", "0.9.9", true},
		{"0.1.0-dev", "0.1.0", false},
	}

	for _, tt := range tests {
		t.Run(tt.version+" vs "+tt.target, func(t *testing.T) {
			assert.Equal(t, tt.want, IsVersionGreaterOrEqualThan(tt.version, tt.target))
		})
	}
}

func TestString(t *testing.T) {
	origCommit := GitCommit
	defer func() { GitCommit = origCommit }()

	GitCommit = "unknown"
	assert.Equal(t, Version, String())

	GitCommit = "0123456789abcdef"
	assert.Equal(t, Version+"-01234567", String())
	assert.Contains(t, StringFull(), "Commit=01234567")
}
