package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory_Valid(t *testing.T) {
	for _, want := range Categories() {
		got, err := ParseCategory(string(want))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestParseCategory_Invalid(t *testing.T) {
	for _, raw := range []string{"", "Shelter", "food-bank", "hospital", " clinic"} {
		_, err := ParseCategory(raw)
		require.Error(t, err, raw)
		assert.ErrorIs(t, err, ErrInvalidCategory)
	}
}
