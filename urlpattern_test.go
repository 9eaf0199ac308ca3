package urlpattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNamedGroups(t *testing.T) {
	t.Parallel()

	p, err := New("/:foo/:bar", nil, Options{})
	require.NoError(t, err)

	assert.True(t, p.Test("/test/route", ""))

	result := p.Exec("/test/route", "")
	require.NotNil(t, result)
	require.NotNil(t, result.Pathname.Groups["foo"])
	require.NotNil(t, result.Pathname.Groups["bar"])
	assert.Equal(t, "test", *result.Pathname.Groups["foo"])
	assert.Equal(t, "route", *result.Pathname.Groups["bar"])
}

func TestCustomRegexpGroup(t *testing.T) {
	t.Parallel()

	p, err := New(`/icon-:foo(\d+).png`, nil, Options{})
	require.NoError(t, err)

	assert.True(t, p.Test("/icon-123.png", ""))
	assert.False(t, p.Test("/icon-abc.png", ""))
}

func TestOptionalGroupIsUnbound(t *testing.T) {
	t.Parallel()

	p, err := New("/:foo/:bar?", nil, Options{})
	require.NoError(t, err)

	assert.True(t, p.Test("/test", ""))
	assert.True(t, p.Test("/test/route", ""))

	result := p.Exec("/test", "")
	require.NotNil(t, result)
	require.Contains(t, result.Pathname.Groups, "bar")
	assert.Nil(t, result.Pathname.Groups["bar"])
}

func TestHostnameOptionalSubdomainGroup(t *testing.T) {
	t.Parallel()

	hostname := "{*.}?example.com"
	p, err := NewFromURLPatternInit(&URLPatternInit{Hostname: &hostname}, Options{})
	require.NoError(t, err)

	sub := "https://sub.example.com/x"
	bare := "https://example.com/x"
	assert.True(t, p.Test(sub, ""))
	assert.True(t, p.Test(bare, ""))
}

func TestFullConstructorStringWithOptionalScheme(t *testing.T) {
	t.Parallel()

	p, err := New(`http{s}?://{*.}?example.com/:product/:endpoint`, nil, Options{})
	require.NoError(t, err)

	result := p.Exec("https://sub.example.com/foo/bar", "")
	require.NotNil(t, result)
	require.NotNil(t, result.Pathname.Groups["product"])
	require.NotNil(t, result.Pathname.Groups["endpoint"])
	assert.Equal(t, "foo", *result.Pathname.Groups["product"])
	assert.Equal(t, "bar", *result.Pathname.Groups["endpoint"])
}

func TestDotSegmentNormalization(t *testing.T) {
	t.Parallel()

	patternPath := "/foo/bar"
	p, err := NewFromURLPatternInit(&URLPatternInit{Pathname: &patternPath}, Options{})
	require.NoError(t, err)

	inputPath := "/foo/./bar"
	assert.True(t, p.TestInit(&URLPatternInit{Pathname: &inputPath}))
}

func TestIDNAHostname(t *testing.T) {
	t.Parallel()

	patternHostname := "xn--caf-dma.com"
	p, err := NewFromURLPatternInit(&URLPatternInit{Hostname: &patternHostname}, Options{})
	require.NoError(t, err)

	inputHostname := "café.com"
	assert.True(t, p.TestInit(&URLPatternInit{Hostname: &inputHostname}))
}

func TestDefaultPortSuppression(t *testing.T) {
	t.Parallel()

	port := ""
	p, err := NewFromURLPatternInit(&URLPatternInit{Port: &port}, Options{})
	require.NoError(t, err)

	protocol, inputPort := "http", "80"
	assert.True(t, p.TestInit(&URLPatternInit{Protocol: &protocol, Port: &inputPort}))
}

func TestDuplicateGroupNameFails(t *testing.T) {
	t.Parallel()

	pathname := "/:id/:id"
	_, err := NewFromURLPatternInit(&URLPatternInit{Pathname: &pathname}, Options{})
	require.Error(t, err)
}

func TestNonASCIIInsideRegexpGroupFails(t *testing.T) {
	t.Parallel()

	protocol := "(café)"
	_, err := NewFromURLPatternInit(&URLPatternInit{Protocol: &protocol}, Options{})
	require.Error(t, err)
}

func TestTestMirrorsExecPresence(t *testing.T) {
	t.Parallel()

	p, err := New("/:foo/:bar", nil, Options{})
	require.NoError(t, err)

	for _, input := range []string{"/test/route", "/nope", "/only-one"} {
		got := p.Test(input, "")
		result := p.Exec(input, "")
		assert.Equal(t, got, result != nil, "input %q", input)
	}
}

func TestCaptureCountMatchesGroupNameCount(t *testing.T) {
	t.Parallel()

	p, err := New("/:foo/:bar?/*", nil, Options{})
	require.NoError(t, err)

	assert.Equal(t, p.pathname.regularExpression.NumSubexp(), len(p.pathname.groupNameList))
}

func TestUnconstrainedComponentMatchesEmptyString(t *testing.T) {
	t.Parallel()

	p, err := New("/fixed", nil, Options{})
	require.NoError(t, err)

	assert.True(t, p.search.regularExpression.MatchString(""))
	assert.True(t, p.hash.regularExpression.MatchString(""))
}

func TestSpecialSchemeSuppressesDefaultPort(t *testing.T) {
	t.Parallel()

	p, err := New("https://example.com/*", nil, Options{})
	require.NoError(t, err)

	assert.True(t, p.Test("https://example.com:443/anything", ""))
}

func TestBaseURLResolution(t *testing.T) {
	t.Parallel()

	base := "https://example.com/"
	p, err := New("/about", &base, Options{})
	require.NoError(t, err)

	assert.True(t, p.Test("/about", "https://example.com/"))
	assert.False(t, p.Test("/missing", "https://example.com/"))
}

func TestHasRegexpGroups(t *testing.T) {
	t.Parallel()

	withRegexp, err := New(`/icon-:foo(\d+).png`, nil, Options{})
	require.NoError(t, err)
	assert.True(t, withRegexp.HasRegexpGroups())

	withoutRegexp, err := New("/:foo/:bar", nil, Options{})
	require.NoError(t, err)
	assert.False(t, withoutRegexp.HasRegexpGroups())
}

func TestIgnoreCaseOption(t *testing.T) {
	t.Parallel()

	p, err := New("/Products/:id", nil, Options{}.WithIgnoreCase(true))
	require.NoError(t, err)

	assert.True(t, p.IgnoreCase())
	assert.True(t, p.Test("/products/42", ""))
}

func TestIgnoreCaseDoesNotLeakIntoSearchOrHash(t *testing.T) {
	t.Parallel()

	pathname, search, hash := "/Products/:id", "Q=1", "Section"
	p, err := NewFromURLPatternInit(&URLPatternInit{
		Pathname: &pathname,
		Search:   &search,
		Hash:     &hash,
	}, Options{}.WithIgnoreCase(true))
	require.NoError(t, err)

	assert.True(t, p.search.regularExpression.MatchString("Q=1"))
	assert.False(t, p.search.regularExpression.MatchString("q=1"))
	assert.True(t, p.hash.regularExpression.MatchString("Section"))
	assert.False(t, p.hash.regularExpression.MatchString("section"))
}

func TestAbsentPortIsSuppressedForSpecialScheme(t *testing.T) {
	t.Parallel()

	protocol, hostname := "https", "example.com"
	p, err := NewFromURLPatternInit(&URLPatternInit{
		Protocol: &protocol,
		Hostname: &hostname,
	}, Options{})
	require.NoError(t, err)

	assert.Equal(t, "", p.Port())
	assert.True(t, p.port.regularExpression.MatchString(""))
	assert.False(t, p.port.regularExpression.MatchString("443"))
}
