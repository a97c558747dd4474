package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"ambrosia,grass,tree", []string{"ambrosia", "grass", "tree"}},
		{" tree , grass ", []string{"tree", "grass"}},
		{"grass,,", []string{"grass"}},
		{"", nil},
		{" , ", nil},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SplitList(tt.in), "input %q", tt.in)
	}
}
