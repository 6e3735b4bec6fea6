package slug

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Keten Suites", want: "keten-suites"},
		{in: "Şişli Çarşı Ağaç Öğüt", want: "sisli-carsi-agac-ogut"},
		{in: "İstanbul'da Kış", want: "istanbul-da-kis"},
		{in: "1+1 Premium", want: "1-plus-1-premium"},
		{in: "  --Hello,   World!--  ", want: "hello-world"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Make(tt.in)
			assert.Equal(t, tt.want, got)
			if got != "" {
				assert.True(t, Valid(got))
			}
		})
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("2-plus-1-family-duplex"))
	assert.False(t, Valid("Upper"))
	assert.False(t, Valid("double--dash"))
	assert.False(t, Valid("-leading"))
	assert.False(t, Valid(""))
}
