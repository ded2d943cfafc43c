package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConstructSeedTemplate(t *testing.T) {
	got, err := ConstructSeedTemplate(31, 7)
	require.NoError(t, err)
	assert.Equal(t, "11111111111111111"+"01010101010101", got)
	assert.Len(t, got, 31)

	_, err = ConstructSeedTemplate(16, 5)
	require.Error(t, err)
}

func TestParseBinary(t *testing.T) {
	v, err := ParseBinary("1011")
	require.NoError(t, err)
	assert.Equal(t, uint64(11), v)

	_, err = ParseBinary("102")
	require.Error(t, err)
}

func TestSpacedSeedMask(t *testing.T) {
	m, err := SpacedSeedMask(4, 1)
	require.NoError(t, err)
	// template 1101 -> 11 11 00 11
	assert.Equal(t, uint64(0b11110011), m)

	m, err = SpacedSeedMask(31, 0)
	require.NoError(t, err)
	assert.Zero(t, m)
}
