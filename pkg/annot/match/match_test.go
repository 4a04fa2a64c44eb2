package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cognicore/annot/pkg/annot/internalerr"
)

func TestLiteralCaseSensitive(t *testing.T) {
	m, err := NewLiteral([]string{"scam"})
	require.NoError(t, err)

	assert.True(t, m.Match("This is a scam"))
	assert.False(t, m.Match("This is a SCAM"))
	assert.False(t, m.Match("nothing here"))
}

func TestLiteralMetacharactersAreLiteral(t *testing.T) {
	m, err := NewLiteral([]string{"a+b", "x.y"})
	require.NoError(t, err)

	assert.True(t, m.Match("calc a+b done"))
	assert.True(t, m.Match("x.y coordinates"))
	assert.False(t, m.Match("aab"))
	assert.False(t, m.Match("xzy"))
}

func TestLiteralMultipleValues(t *testing.T) {
	m, err := NewLiteral([]string{"foo", "bar"})
	require.NoError(t, err)

	assert.True(t, m.Match("has foo only"))
	assert.True(t, m.Match("has bar only"))
	assert.False(t, m.Match("has neither"))
}

func TestLiteralEmptyValuesRejected(t *testing.T) {
	_, err := NewLiteral(nil)
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}

func TestRegexMatch(t *testing.T) {
	m, err := NewRegex(`\d{3}-\d{3}-\d{4}`)
	require.NoError(t, err)

	assert.True(t, m.Match("call 555-123-4567 now"))
	assert.False(t, m.Match("call 555-1234 now"))
}

func TestRegexKeepsOwnCaseSensitivity(t *testing.T) {
	m, err := NewRegex(`(?i)scam`)
	require.NoError(t, err)
	assert.True(t, m.Match("This is a SCAM"))

	strict, err := NewRegex(`scam`)
	require.NoError(t, err)
	assert.False(t, strict.Match("This is a SCAM"))
}

func TestRegexInvalidPattern(t *testing.T) {
	_, err := NewRegex(`(`)
	assert.ErrorIs(t, err, internalerr.ErrInvalidConfig)
}
