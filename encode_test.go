package urlpattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalizeProtocolLowercases(t *testing.T) {
	t.Parallel()

	got, err := canonicalizeProtocol("HTTPS")
	require.NoError(t, err)
	assert.Equal(t, "https", got)
}

func TestCanonicalizeProtocolRejectsInvalidScheme(t *testing.T) {
	t.Parallel()

	_, err := canonicalizeProtocol("1http")
	require.Error(t, err)
}

func TestCanonicalizeUsernamePercentEncodesReserved(t *testing.T) {
	t.Parallel()

	got, err := canonicalizeUsername("a b")
	require.NoError(t, err)
	assert.Equal(t, "a%20b", got)
}

func TestCanonicalizeHostnameAppliesIDNA(t *testing.T) {
	t.Parallel()

	got, err := canonicalizeHostname("café.com")
	require.NoError(t, err)
	assert.Equal(t, "xn--caf-dma.com", got)
}

func TestCanonicalizeHostnameIsIdempotent(t *testing.T) {
	t.Parallel()

	once, err := canonicalizeHostname("café.com")
	require.NoError(t, err)

	twice, err := canonicalizeHostname(once)
	require.NoError(t, err)

	assert.Equal(t, once, twice)
}

func TestCanonicalizeIPv6Hostname(t *testing.T) {
	t.Parallel()

	got, err := canonicalizeIPv6Hostname("[2001:DB8::1]")
	require.NoError(t, err)
	assert.Equal(t, "[2001:db8::1]", got)
}

func TestCanonicalizeIPv6HostnameRejectsBadChars(t *testing.T) {
	t.Parallel()

	_, err := canonicalizeIPv6Hostname("[2001:db8::zz]")
	require.ErrorIs(t, err, InvalidIPv6Hostname)
}

func TestCanonicalizePortSuppressesDefault(t *testing.T) {
	t.Parallel()

	got, err := canonicalizePort("443", "https")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCanonicalizePortKeepsNonDefault(t *testing.T) {
	t.Parallel()

	got, err := canonicalizePort("8443", "https")
	require.NoError(t, err)
	assert.Equal(t, "8443", got)
}

func TestCanonicalizePortRejectsOutOfRange(t *testing.T) {
	t.Parallel()

	_, err := canonicalizePort("99999", "https")
	require.ErrorIs(t, err, InvalidPortError)
}

func TestCanonicalizePathnameCollapsesDotSegments(t *testing.T) {
	t.Parallel()

	got, err := canonicalizePathname("/foo/./bar/../baz")
	require.NoError(t, err)
	assert.Equal(t, "/foo/baz", got)
}

func TestCanonicalizePathnameRecognizesPercentEncodedDotSegments(t *testing.T) {
	t.Parallel()

	got, err := canonicalizePathname("/foo/%2e%2e/bar")
	require.NoError(t, err)
	assert.Equal(t, "/bar", got)
}

func TestCanonicalizeOpaquePathnameOnlyEscapesControlBytes(t *testing.T) {
	t.Parallel()

	got, err := canonicalizeOpaquePathname("a b")
	require.NoError(t, err)
	assert.Equal(t, "a b", got)
}

func TestCanonicalizeSearchPercentEncodesReserved(t *testing.T) {
	t.Parallel()

	got, err := canonicalizeSearch("a'b")
	require.NoError(t, err)
	assert.Equal(t, "a%27b", got)
}

func TestCanonicalizeHashPercentEncodesReserved(t *testing.T) {
	t.Parallel()

	got, err := canonicalizeHash("a<b")
	require.NoError(t, err)
	assert.Equal(t, "a%3Cb", got)
}

func TestHostnamePatternIsIPv6Address(t *testing.T) {
	t.Parallel()

	assert.True(t, hostnamePatternIsIPv6Address("[::1]"))
	assert.True(t, hostnamePatternIsIPv6Address("{[::1]}"))
	assert.False(t, hostnamePatternIsIPv6Address("example.com"))
}
