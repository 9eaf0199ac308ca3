package urlpattern

import (
	"net/url"
	"strings"

	whatwgurl "github.com/dunglas/whatwg-url/url"
)

// https://urlpattern.spec.whatwg.org/#urlpattern-input (spec §4.6, URL resolver)
//
// resolvedURLComponents holds the eight components decomposed from a
// concrete input URL, optionally resolved against a base URL. Unlike the
// teacher's net/url-based Match, this goes through a real WHATWG URL
// parser/resolver so base-URL resolution actually has an effect (spec §9
// Open Question (a)).
type resolvedURLComponents struct {
	protocol string
	username string
	password string
	hostname string
	port     string
	pathname string
	search   string
	hash     string
}

// resolveURL parses input (resolving it against base when base is
// non-empty) and extracts the eight URL components from the result.
//
// An input given without a base URL that whatwg-url cannot parse (spec
// §9 Open Question (a): full WHATWG conformance is not chased here)
// falls back to a lenient net/url decomposition, the same leniency the
// teacher's own Match relied on to let a bare pathname like "/foo" match
// a pathname-only pattern without requiring a base URL.
func resolveURL(input, base string) (*resolvedURLComponents, error) {
	var (
		u   *whatwgurl.Url
		err error
	)

	if base == "" {
		u, err = whatwgurl.Parse(input)
	} else {
		u, err = whatwgurl.ParseRef(base, input)
	}

	if err == nil {
		return &resolvedURLComponents{
			protocol: strings.TrimSuffix(u.Protocol(), ":"),
			username: u.Username(),
			password: u.Password(),
			hostname: u.Hostname(),
			port:     u.Port(),
			pathname: u.Pathname(),
			search:   strings.TrimPrefix(u.Search(), "?"),
			hash:     strings.TrimPrefix(u.Hash(), "#"),
		}, nil
	}

	if base != "" {
		return nil, illegalPatternError(0, input)
	}

	return resolveURLLeniently(input)
}

// resolveURLLeniently decomposes a base-less, possibly-relative input
// using net/url, which (unlike a strict WHATWG parser) never rejects a
// relative reference for lacking a scheme or authority.
func resolveURLLeniently(input string) (*resolvedURLComponents, error) {
	u, err := url.Parse(input)
	if err != nil {
		return nil, illegalPatternError(0, input)
	}

	return &resolvedURLComponents{
		protocol: u.Scheme,
		username: u.User.Username(),
		password: passwordOf(u),
		hostname: u.Hostname(),
		port:     u.Port(),
		pathname: u.EscapedPath(),
		search:   u.RawQuery,
		hash:     u.EscapedFragment(),
	}, nil
}

func passwordOf(u *url.URL) string {
	password, _ := u.User.Password()

	return password
}
