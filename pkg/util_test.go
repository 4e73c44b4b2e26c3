package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRandomString(t *testing.T) {
	s1, err := GenerateRandomString(35)
	require.NoError(t, err)
	require.NotEmpty(t, s1)

	s2, err := GenerateRandomString(35)
	require.NoError(t, err)
	assert.NotEqual(t, s1, s2)
}

func TestBytesToString(t *testing.T) {
	assert.Equal(t, "gymform", BytesToString([]byte("gymform")))
	assert.Equal(t, "", BytesToString(nil))
}

func TestRoundTo2Decimals(t *testing.T) {
	assert.Equal(t, 85.56, RoundTo2Decimals(85.5555))
	assert.Equal(t, 85.55, RoundTo2Decimals(85.554))
	assert.Equal(t, 0.0, RoundTo2Decimals(0))
	assert.Equal(t, 100.0, RoundTo2Decimals(99.999))
}
