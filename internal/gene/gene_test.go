package gene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name       string
		start, end int64
		wantErr    bool
	}{
		{"valid", 100, 200, false},
		{"length one", 100, 101, false},
		{"zero start", 0, 10, false},
		{"empty interval", 100, 100, true},
		{"inverted", 200, 100, true},
		{"negative start", -5, 100, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := New("G", "chr1", tt.start, tt.end, StrandForward)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidInterval)
				assert.Nil(t, g)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.end-tt.start, g.Length())
		})
	}
}

func TestGene_Contains(t *testing.T) {
	g := mustGene(t, "G", "chr1", 100, 200, StrandForward)

	assert.True(t, g.Contains(100), "start is inclusive")
	assert.True(t, g.Contains(199))
	assert.False(t, g.Contains(200), "end is exclusive")
	assert.False(t, g.Contains(99))
}

func TestParseStrand(t *testing.T) {
	assert.Equal(t, StrandReverse, ParseStrand("-"))
	assert.Equal(t, StrandForward, ParseStrand("+"))
	assert.Equal(t, StrandForward, ParseStrand("."))
	assert.Equal(t, StrandForward, ParseStrand(""))
}

func TestStrand_String(t *testing.T) {
	assert.Equal(t, "+", StrandForward.String())
	assert.Equal(t, "-", StrandReverse.String())
}

func TestNormalizeChrom(t *testing.T) {
	assert.Equal(t, "1", NormalizeChrom("chr1"))
	assert.Equal(t, "1", NormalizeChrom("1"))
	assert.Equal(t, "X", NormalizeChrom("chrX"))
	assert.Equal(t, "MT", NormalizeChrom("MT"))
}
