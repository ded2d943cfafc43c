package jsonutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodePretty(t *testing.T) {
	var b bytes.Buffer
	require.NoError(t, EncodePretty(&b, map[string]int{"k": 35}))
	assert.Equal(t, "{\n  \"k\": 35\n}\n", b.String())

	assert.Error(t, EncodePretty(&b, func() {}))
}
