package steprun

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMemory(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "512MiB", want: 512},
		{input: "512 MiB", want: 512},
		{input: "512mib", want: 512},
		{input: "1GiB", want: 1024},
		{input: "2Gi", want: 2048},
		{input: "1GB", want: 1000 * 1000 * 1000 / (1024.0 * 1024.0)},
		{input: "10MiB", want: 10},
		{input: "1024", want: 1024},
		{input: "0.5GiB", want: 512},
		{input: "1048576B", want: 1},
		{input: "", wantErr: true},
		{input: "MiB", wantErr: true},
		{input: "12XB", wantErr: true},
		{input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMemory(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidMemory)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestMustParseMemory_PanicsOnInvalid(t *testing.T) {
	assert.Panics(t, func() { MustParseMemory("not-a-size") })
	assert.Equal(t, 512.0, MustParseMemory("512MiB"))
}
