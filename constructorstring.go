package urlpattern

import (
	"regexp"

	"golang.org/x/exp/utf8string"
)

// https://urlpattern.spec.whatwg.org/#url-pattern-strings
//
// constructorTypeParser runs the URL-shape state machine (spec §4.3) over
// a lenient token list, splitting a single URL-like pattern string into
// the eight component sub-patterns a URLPattern compiles independently.
type constructorTypeParser struct {
	input                         utf8string.String
	tokenList                     []token
	result                        URLPatternInit
	componentStart                int
	tokenIndex                    int
	tokenIncrement                int
	groupDepth                    int
	hostnameIPv6BracketDepth      int
	protocolMatchesASpecialScheme bool
	state                         state
}

// https://wicg.github.io/urlpattern/#constructor-string-parser-state
type state uint8

const (
	sInit state = iota
	protocol
	authority
	username
	password
	hostname
	port
	pathname
	search
	hash
	done
)

func newConstructorTypeParser(input string, tokenList []token) constructorTypeParser {
	return constructorTypeParser{
		input:          *utf8string.NewString(input),
		tokenList:      tokenList,
		result:         URLPatternInit{},
		tokenIncrement: 1,
		state:          sInit,
	}
}

// https://wicg.github.io/urlpattern/#constructor-string-parsing
func parseConstructorString(input string) (*URLPatternInit, error) {
	tl, err := tokenize(input, tokenizePolicyLenient)
	if err != nil {
		return nil, err
	}

	p := newConstructorTypeParser(input, tl)

	tlLen := len(p.tokenList)

	for p.tokenIndex < tlLen {
		p.tokenIncrement = 1

		if p.tokenList[p.tokenIndex].tType == tokenEnd {
			if p.state == sInit {
				p.rewind()

				if p.isHashPrefix() {
					p.changeState(hash, 1)
				} else if p.isSearchPrefix() {
					p.changeState(search, 1)
				} else {
					p.changeState(pathname, 0)
				}

				p.tokenIndex += p.tokenIncrement

				continue
			}

			if p.state == authority {
				p.rewindAndSetState(hostname)
				p.tokenIndex += p.tokenIncrement

				continue
			}

			p.changeState(done, 0)

			break
		}

		if p.isGroupOpen() {
			p.groupDepth++
			p.tokenIndex += p.tokenIncrement

			continue
		}

		if p.groupDepth > 0 {
			if p.isGroupClose() {
				p.groupDepth--
			} else {
				p.tokenIndex += p.tokenIncrement

				continue
			}
		}

		switch p.state {
		case sInit:
			p.stateInit()
		case protocol:
			p.stateProtocol()
		case authority:
			p.stateAuthority()
		case username:
			p.stateUsername()
		case password:
			p.statePassword()
		case hostname:
			p.stateHostname()
		case port:
			p.statePort()
		case pathname:
			p.statePathname()
		case search:
			p.stateSearch()
		case hash:
			// Hash absorbs everything to the end; nothing to do here.
		}

		p.tokenIndex += p.tokenIncrement
	}

	// spec §4.3: a protocol that matches a special scheme forces an
	// initial pathname of "/" when nothing later in the constructor
	// string ever populated one (e.g. "http{s}?://example.com" with no
	// trailing path). stateInit already set Pathname to "", so an empty
	// value counts as unpopulated.
	if p.protocolMatchesASpecialScheme && (p.result.Pathname == nil || *p.result.Pathname == "") {
		defaultPathname := "/"
		p.result.Pathname = &defaultPathname
	}

	return &p.result, nil
}

// stateInit implements spec §4.3 rule 1: a top-level ':' commits the
// whole string to being protocol-first and every other component
// defaults to "" until overwritten by a later state.
func (p *constructorTypeParser) stateInit() {
	if !p.isProtocolSuffix() {
		return
	}

	empty := ""
	p.result.Username = &empty
	p.result.Password = &empty
	p.result.Hostname = &empty
	p.result.Port = &empty
	p.result.Pathname = &empty
	p.result.Search = &empty
	p.result.Hash = &empty

	p.rewindAndSetState(protocol)
}

// stateProtocol implements spec §4.3 rule 2.
func (p *constructorTypeParser) stateProtocol() {
	if !p.isProtocolSuffix() {
		return
	}

	p.protocolMatchesASpecialScheme = p.protocolComponentMayBeSpecial()

	nextState := pathname
	skip := 1

	if p.nextIsAuthoritySlashes() {
		nextState = authority
		skip = 3
	} else if p.protocolMatchesASpecialScheme {
		nextState = authority
		skip = 1
	}

	p.changeState(nextState, skip)
}

// stateAuthority implements spec §4.3 rule 3.
func (p *constructorTypeParser) stateAuthority() {
	if p.isIdentityTerminator() {
		p.rewindAndSetState(username)

		return
	}

	if p.isPathnameStart() || p.isSearchPrefix() || p.isHashPrefix() {
		p.rewindAndSetState(hostname)
	}
}

// stateUsername implements spec §4.3 rule 4.
func (p *constructorTypeParser) stateUsername() {
	if p.isPasswordPrefix() {
		p.changeState(password, 1)
	} else if p.isIdentityTerminator() {
		p.changeState(hostname, 1)
	}
}

// statePassword implements spec §4.3 rule 5.
func (p *constructorTypeParser) statePassword() {
	if p.isIdentityTerminator() {
		p.changeState(hostname, 1)
	}
}

// stateHostname implements spec §4.3 rule 6.
func (p *constructorTypeParser) stateHostname() {
	if p.isIPv6Open() {
		p.hostnameIPv6BracketDepth++
	} else if p.isIPv6Close() {
		p.hostnameIPv6BracketDepth--
	} else if p.isPortPrefix() && p.hostnameIPv6BracketDepth == 0 {
		p.changeState(port, 1)
	} else if p.isPathnameStart() {
		p.changeState(pathname, 0)
	} else if p.isSearchPrefix() {
		p.changeState(search, 1)
	} else if p.isHashPrefix() {
		p.changeState(hash, 1)
	}
}

// statePort implements spec §4.3 rule 7.
func (p *constructorTypeParser) statePort() {
	if p.isPathnameStart() {
		p.changeState(pathname, 0)
	} else if p.isSearchPrefix() {
		p.changeState(search, 1)
	} else if p.isHashPrefix() {
		p.changeState(hash, 1)
	}
}

// statePathname implements spec §4.3 rule 8.
func (p *constructorTypeParser) statePathname() {
	if p.isSearchPrefix() {
		p.changeState(search, 1)
	} else if p.isHashPrefix() {
		p.changeState(hash, 1)
	}
}

// stateSearch implements spec §4.3 rule 9 (the Search half; Hash absorbs
// to the end of input and needs no per-token handling).
func (p *constructorTypeParser) stateSearch() {
	if p.isHashPrefix() {
		p.changeState(hash, 1)
	}
}

// protocolComponentMayBeSpecial transiently compiles the protocol
// sub-pattern collected so far and tests it against the special scheme
// table, mirroring component.protocolComponentMatchesSpecialScheme but
// usable before the final URLPattern exists.
func (p *constructorTypeParser) protocolComponentMayBeSpecial() bool {
	patternStr := *p.makeComponentString()

	pl, err := parsePatternString(patternStr, options{}, func(s string) (string, error) { return s, nil })
	if err != nil {
		return false
	}

	reStr, _, _, err := pl.generateRegularExpressionAndNameList(options{})
	if err != nil {
		return false
	}

	re, err := regexp.Compile(reStr)
	if err != nil {
		return false
	}

	for _, scheme := range specialSchemeList {
		if re.MatchString(scheme) {
			return true
		}
	}

	return false
}

func (p *constructorTypeParser) rewind() {
	p.tokenIndex = p.componentStart
	p.tokenIncrement = 0
}

func (p *constructorTypeParser) rewindAndSetState(s state) {
	p.rewind()
	p.state = s
}

func (p *constructorTypeParser) isProtocolSuffix() bool {
	return p.isNonSpecialPatternChar(p.tokenIndex, ":")
}

func (p *constructorTypeParser) nextIsAuthoritySlashes() bool {
	return p.isNonSpecialPatternChar(p.tokenIndex+1, "/") && p.isNonSpecialPatternChar(p.tokenIndex+2, "/")
}

func (p *constructorTypeParser) isIdentityTerminator() bool {
	return p.isNonSpecialPatternChar(p.tokenIndex, "@")
}

func (p *constructorTypeParser) isPasswordPrefix() bool {
	return p.isNonSpecialPatternChar(p.tokenIndex, ":")
}

func (p *constructorTypeParser) isPortPrefix() bool {
	return p.isNonSpecialPatternChar(p.tokenIndex, ":")
}

func (p *constructorTypeParser) isPathnameStart() bool {
	return p.isNonSpecialPatternChar(p.tokenIndex, "/")
}

func (p *constructorTypeParser) isIPv6Open() bool {
	return p.isNonSpecialPatternChar(p.tokenIndex, "[")
}

func (p *constructorTypeParser) isIPv6Close() bool {
	return p.isNonSpecialPatternChar(p.tokenIndex, "]")
}

func (p *constructorTypeParser) isHashPrefix() bool {
	return p.isNonSpecialPatternChar(p.tokenIndex, "#")
}

func (p *constructorTypeParser) isSearchPrefix() bool {
	if p.isNonSpecialPatternChar(p.tokenIndex, "?") {
		return true
	}

	if p.tokenList[p.tokenIndex].value != "?" {
		return false
	}

	previousIndex := p.tokenIndex - 1
	if previousIndex < 0 {
		return true
	}

	previousToken := p.getSafeToken(previousIndex)
	switch previousToken.tType {
	case tokenName:
		return false

	case tokenRegexp:
		return false

	case tokenClose:
		return false

	case tokenAsterisk:
		return false
	}

	return true
}

func (p *constructorTypeParser) isGroupOpen() bool {
	return p.tokenList[p.tokenIndex].tType == tokenOpen
}

func (p *constructorTypeParser) isGroupClose() bool {
	return p.tokenList[p.tokenIndex].tType == tokenClose
}

func (p *constructorTypeParser) isNonSpecialPatternChar(index int, value string) bool {
	token := p.getSafeToken(index)
	if token.value != value {
		return false
	}

	return token.tType == tokenChar || token.tType == tokenEscapedChar || token.tType == tokenInvalidChar
}

func (p *constructorTypeParser) getSafeToken(index int) token {
	length := len(p.tokenList)

	if index < length {
		return p.tokenList[index]
	}

	return p.tokenList[length-1]
}

func (p *constructorTypeParser) changeState(newState state, skip int) {
	switch p.state {
	case protocol:
		p.result.Protocol = p.makeComponentString()
	case username:
		p.result.Username = p.makeComponentString()
	case password:
		p.result.Password = p.makeComponentString()
	case hostname:
		p.result.Hostname = p.makeComponentString()
	case port:
		p.result.Port = p.makeComponentString()
	case pathname:
		p.result.Pathname = p.makeComponentString()
	case search:
		p.result.Search = p.makeComponentString()
	case hash:
		p.result.Hash = p.makeComponentString()
	}

	p.state = newState
	p.tokenIndex = p.tokenIndex + skip
	p.componentStart = p.tokenIndex
	p.tokenIncrement = 0
}

func (p *constructorTypeParser) makeComponentString() *string {
	tok := p.tokenList[p.tokenIndex]
	componentStartToken := p.getSafeToken(p.componentStart)
	componentStartInputIndex := componentStartToken.index
	endIndex := tok.index

	s := p.input.Slice(componentStartInputIndex, endIndex)

	return &s
}
