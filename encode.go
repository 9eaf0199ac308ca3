package urlpattern

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/net/idna"
)

// https://urlpattern.spec.whatwg.org/#canonicalize-a-protocol (encoder side, spec §4.1)
var (
	InvalidIPv6Hostname = errors.New("invalid IPv6 hostname")
	InvalidSchemeError  = errors.New("invalid protocol scheme")
	InvalidPortError    = errors.New("port out of range")
	InvalidPercentError = errors.New("malformed percent-encoded sequence")
)

// illegalPatternError formats the uniform construction-error message spec
// §7 requires: "illegal pattern near index N: <input>".
func illegalPatternError(index int, input string) error {
	return fmt.Errorf("illegal pattern near index %d: %s", index, input)
}

// percentEncode returns the percent-encoded form of the UTF-8 bytes of s,
// escaping any byte < 0x20 or for which needsEscape reports true.
// Spec §4.1: "Percent-encoding operates on the UTF-8 byte sequence."
func percentEncode(s string, needsEscape func(byte) bool) string {
	var result strings.Builder
	result.Grow(len(s))

	for i := 0; i < len(s); i++ {
		b := s[i]
		if b < 0x20 || needsEscape(b) {
			fmt.Fprintf(&result, "%%%02X", b)

			continue
		}

		result.WriteByte(b)
	}

	return result.String()
}

// byteSet builds a 256-bit membership test over the bytes in chars,
// mirroring the bitmap trick escape.go already uses for regex/pattern
// metacharacters.
func byteSet(chars string) func(byte) bool {
	var bitmap [32]byte
	for i := 0; i < len(chars); i++ {
		b := chars[i]
		bitmap[b/8] |= 1 << (b % 8)
	}

	return func(b byte) bool {
		return bitmap[b/8]&(1<<(b%8)) != 0
	}
}

var (
	userinfoEscapeSet = byteSet(" \"#<>?`{}/:;=@[^")
	pathSegmentEscape = byteSet(" \"#<>?`{}")
	searchEscapeSet   = byteSet(" \"#<>?'")
	hashEscapeSet     = byteSet(" \"<>`")
	hostnameCheckSet  = byteSet(" #/:<>?@[\\]^|")
)

// isPercentEncodedAt reports whether s[i] starts a well-formed "%HH"
// sequence, used by the hostname idempotence check (spec §4.1: "When
// percentCheck is true ... sequences %HH ... are passed through
// unchanged; any stray % without two hex followers fails.").
func isPercentEncodedAt(s string, i int) bool {
	return i+2 < len(s) && isHexDigit(s[i+1]) && isHexDigit(s[i+2])
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

// verifyPercentPassthrough checks that s contains no stray '%' that isn't
// the start of a valid percent-escape, per the hostname idempotence rule.
func verifyPercentPassthrough(s string) error {
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && !isPercentEncodedAt(s, i) {
			return InvalidPercentError
		}
	}

	return nil
}

// https://urlpattern.spec.whatwg.org/#canonicalize-a-protocol
func canonicalizeProtocol(value string) (string, error) {
	if value == "" {
		return value, nil
	}

	u, err := url.Parse(strings.ToLower(value) + "://dummy.test")
	if err != nil || u.Scheme == "" {
		return "", illegalPatternError(0, value)
	}

	return u.Scheme, nil
}

// https://urlpattern.spec.whatwg.org/#canonicalize-a-username
func canonicalizeUsername(value string) (string, error) {
	if value == "" {
		return value, nil
	}

	return percentEncode(value, userinfoEscapeSet), nil
}

// https://urlpattern.spec.whatwg.org/#canonicalize-a-password
func canonicalizePassword(value string) (string, error) {
	if value == "" {
		return value, nil
	}

	return percentEncode(value, userinfoEscapeSet), nil
}

// https://urlpattern.spec.whatwg.org/#canonicalize-a-hostname
//
// Applies IDNA ToASCII to non-IPv6 hostnames (spec §4.1), then verifies
// the result is idempotent under hostname percent-encoding, failing when
// any byte would need escaping.
func canonicalizeHostname(value string) (string, error) {
	if value == "" {
		return value, nil
	}

	ascii, err := idna.Lookup.ToASCII(value)
	if err != nil {
		// Not every pattern hostname is a registerable domain (e.g. "*",
		// "{sub.}?example.com" fragments); fall back to verifying the raw
		// value is already percent-safe instead of failing construction.
		ascii = value
	}

	if err := verifyPercentPassthrough(ascii); err != nil {
		return "", err
	}

	if percentEncode(ascii, hostnameCheckSet) != ascii {
		return "", illegalPatternError(0, value)
	}

	return ascii, nil
}

// https://urlpattern.spec.whatwg.org/#canonicalize-an-ipv6-hostname
func canonicalizeIPv6Hostname(value string) (string, error) {
	var result strings.Builder

	for _, c := range value {
		if c != '[' && c != ']' && c != ':' && !unicode.Is(unicode.ASCII_Hex_Digit, c) {
			return "", InvalidIPv6Hostname
		}

		result.WriteRune(unicode.ToLower(c))
	}

	return result.String(), nil
}

// https://urlpattern.spec.whatwg.org/#canonicalize-a-port
func canonicalizePort(portValue, protocolValue string) (string, error) {
	if portValue == "" {
		return portValue, nil
	}

	n, err := strconv.Atoi(portValue)
	if err != nil || n < 0 || n > 65535 {
		return "", InvalidPortError
	}

	if def, ok := DefaultPorts[protocolValue]; ok && def == portValue {
		return "", nil
	}

	return strconv.Itoa(n), nil
}

// https://urlpattern.spec.whatwg.org/#canonicalize-a-pathname
//
// Splits on "/", collapses "." and ".." segments (case-insensitively,
// also accepting "%2e" spellings), then percent-encodes each remaining
// segment per the pathname escape set.
func canonicalizePathname(value string) (string, error) {
	if value == "" {
		return value, nil
	}

	leadingSlash := value[0] == '/'

	rawSegments := strings.Split(value, "/")
	segments := make([]string, 0, len(rawSegments))

	for _, seg := range rawSegments {
		switch normalizeDotSegment(seg) {
		case dotSegmentCurrent:
			continue
		case dotSegmentParent:
			if len(segments) > 0 && segments[len(segments)-1] != ".." {
				segments = segments[:len(segments)-1]
			} else if !leadingSlash {
				segments = append(segments, "..")
			}
		default:
			segments = append(segments, percentEncode(seg, pathSegmentEscape))
		}
	}

	result := strings.Join(segments, "/")
	if leadingSlash && !strings.HasPrefix(result, "/") {
		result = "/" + result
	}

	return result, nil
}

type dotSegmentKind uint8

const (
	dotSegmentNone dotSegmentKind = iota
	dotSegmentCurrent
	dotSegmentParent
)

// normalizeDotSegment classifies a path segment as ".", "..", their
// "%2e"-spelled equivalents (case-insensitively), or neither.
func normalizeDotSegment(seg string) dotSegmentKind {
	decoded := strings.NewReplacer("%2e", ".", "%2E", ".").Replace(seg)

	switch decoded {
	case ".":
		return dotSegmentCurrent
	case "..":
		return dotSegmentParent
	default:
		return dotSegmentNone
	}
}

// https://urlpattern.spec.whatwg.org/#canonicalize-an-opaque-pathname
func canonicalizeOpaquePathname(value string) (string, error) {
	return percentEncode(value, func(byte) bool { return false }), nil
}

// https://urlpattern.spec.whatwg.org/#canonicalize-a-search
func canonicalizeSearch(value string) (string, error) {
	return percentEncode(value, searchEscapeSet), nil
}

// https://urlpattern.spec.whatwg.org/#canonicalize-a-hash
func canonicalizeHash(value string) (string, error) {
	if value == "" {
		return value, nil
	}

	return percentEncode(value, hashEscapeSet), nil
}

func hostnamePatternIsIPv6Address(input string) bool {
	if len(input) < 2 {
		return false
	}

	i := []rune(input)

	if i[0] == '[' {
		return true
	}
	if i[0] == '{' && i[1] == '[' {
		return true
	}
	if i[0] == '\\' && i[1] == '[' {
		return true
	}

	return false
}
