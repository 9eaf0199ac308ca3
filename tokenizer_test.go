package urlpattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenizeFixedText(t *testing.T) {
	t.Parallel()

	tl, err := tokenize("/foo/bar", tokenizePolicyStrict)
	require.NoError(t, err)

	// One tokenChar per code point, plus the trailing tokenEnd.
	require.Len(t, tl, 9)
	assert.Equal(t, tokenChar, tl[0].tType)
	assert.Equal(t, tokenEnd, tl[8].tType)
}

func TestTokenizeNameAndWildcard(t *testing.T) {
	t.Parallel()

	tl, err := tokenize("/:id/*", tokenizePolicyStrict)
	require.NoError(t, err)

	var kinds []tokenType
	for _, tok := range tl {
		kinds = append(kinds, tok.tType)
	}

	assert.Contains(t, kinds, tokenName)
	assert.Contains(t, kinds, tokenAsterisk)
}

func TestTokenizeRegexpGroup(t *testing.T) {
	t.Parallel()

	tl, err := tokenize(`(\d+)`, tokenizePolicyStrict)
	require.NoError(t, err)

	require.Len(t, tl, 2)
	assert.Equal(t, tokenRegexp, tl[0].tType)
	assert.Equal(t, `\d+`, tl[0].value)
}

func TestTokenizeDanglingBackslashStrictFails(t *testing.T) {
	t.Parallel()

	_, err := tokenize(`\`, tokenizePolicyStrict)
	require.Error(t, err)
}

func TestTokenizeDanglingBackslashLenientProducesInvalidChar(t *testing.T) {
	t.Parallel()

	tl, err := tokenize(`\`, tokenizePolicyLenient)
	require.NoError(t, err)

	require.Len(t, tl, 2)
	assert.Equal(t, tokenInvalidChar, tl[0].tType)
}

func TestTokenizeEmptyNameStrictFails(t *testing.T) {
	t.Parallel()

	_, err := tokenize(":", tokenizePolicyStrict)
	require.Error(t, err)
}

func TestTokenizeUnbalancedRegexpGroupStrictFails(t *testing.T) {
	t.Parallel()

	_, err := tokenize(`(\d+`, tokenizePolicyStrict)
	require.Error(t, err)
}

func TestTokenizeNonASCIIInsideRegexpGroupLenientIsInvalidCharPerCodePoint(t *testing.T) {
	t.Parallel()

	tl, err := tokenize("(café)", tokenizePolicyLenient)
	require.NoError(t, err)

	invalid := 0
	for _, tok := range tl {
		if tok.tType == tokenInvalidChar {
			invalid++
		}
	}

	assert.Positive(t, invalid, "expected the malformed group to be re-tokenized one code point at a time")
}
