package discovery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyVersion(t *testing.T) {
	cases := []struct {
		version string
		want    int
	}{
		{"", 1},
		{"1.0.3", 1},
		{"1.6.0-beta", 1},
		{"2.1.0", 2},
		{"2.0.0", 2},
		{"0.9.0", 2},
		{"10.0.0", 2},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyVersion(tc.version), "version %q", tc.version)
	}
}
