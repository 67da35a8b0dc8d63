package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCounts_Canonical(t *testing.T) {
	got, err := marshalCounts(Counts{Enums: 1, Records: 2, Functions: 3, Objects: 4})
	require.NoError(t, err)
	assert.Equal(t, `{"enums":1,"functions":3,"objects":4,"records":2}`, got)

	back, err := unmarshalCounts(got)
	require.NoError(t, err)
	assert.Equal(t, Counts{Enums: 1, Records: 2, Functions: 3, Objects: 4}, back)
}

func TestUnmarshalCounts_Empty(t *testing.T) {
	for _, in := range []string{"", "{}"} {
		c, err := unmarshalCounts(in)
		require.NoError(t, err)
		assert.Equal(t, Counts{}, c)
	}
}

func TestUnmarshalCounts_Invalid(t *testing.T) {
	_, err := unmarshalCounts("{not json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unmarshal counts")
}
