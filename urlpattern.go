package urlpattern

import (
	"errors"
	"regexp"
	"strings"
)

var NoBaseURLError = errors.New("relative URL and no baseURL provided")

// https://urlpattern.spec.whatwg.org/#dictdef-urlpatterninit
//
// URLPatternInit is a sparse component map: either a pattern-construction
// input (one sub-pattern string per populated field) or a concrete-URL
// input (each populated field is encoded as part of merging). BaseURL
// resolves relative fields the same way a base URL resolves a relative
// URLPattern string.
type URLPatternInit struct {
	Protocol *string
	Username *string
	Password *string
	Hostname *string
	Port     *string
	Pathname *string
	Search   *string
	Hash     *string
	BaseURL  *string
}

// component is a compiled matcher for one of the eight URL components.
//
// https://urlpattern.spec.whatwg.org/#component
type component struct {
	patternString     string
	regularExpression *regexp.Regexp
	groupNameList     []string
	hasRegexpGroups   bool
}

// protocolComponentMatchesSpecialScheme reports whether this compiled
// component (used only for the protocol component) matches any of the
// six special schemes (spec §3 invariants, §6 special-scheme table).
func (c *component) protocolComponentMatchesSpecialScheme() bool {
	for _, scheme := range specialSchemeList {
		if c.regularExpression.MatchString(scheme) {
			return true
		}
	}

	return false
}

// compileComponent runs the pattern parser and compiler (spec §4.4, §4.5)
// for one component's sub-pattern, producing an immutable CompiledComponent.
func compileComponent(input string, encode encodingCallback, opts options) (*component, error) {
	parts, err := parsePatternString(input, opts, encode)
	if err != nil {
		return nil, err
	}

	regexpValue, nameList, hasRegexpGroups, err := parts.generateRegularExpressionAndNameList(opts)
	if err != nil {
		return nil, err
	}

	re, err := regexp.Compile(regexpValue)
	if err != nil {
		return nil, err
	}

	patternString, err := parts.generatePatternString(opts)
	if err != nil {
		return nil, err
	}

	return &component{
		patternString:     patternString,
		regularExpression: re,
		groupNameList:     nameList,
		hasRegexpGroups:   hasRegexpGroups,
	}, nil
}

// URLPattern is an immutable, eight-component URL matcher.
//
// https://urlpattern.spec.whatwg.org/#urlpattern
type URLPattern struct {
	protocol *component
	username *component
	password *component
	hostname *component
	port     *component
	pathname *component
	search   *component
	hash     *component
	options  Options
}

// New constructs a URLPattern from a URL-shaped pattern string, optionally
// resolved against baseURL.
//
// https://urlpattern.spec.whatwg.org/#url-pattern-create
func New(input string, baseURL *string, opt Options) (*URLPattern, error) {
	init, err := parseConstructorString(input)
	if err != nil {
		return nil, err
	}

	noBaseURL := baseURL == nil || *baseURL == ""
	noProtocol := init.Protocol == nil || *init.Protocol == ""
	relativePathname := init.Pathname != nil && !isAbsolutePathname(*init.Pathname)

	if noBaseURL && noProtocol && relativePathname {
		return nil, NoBaseURLError
	}

	if baseURL != nil {
		init.BaseURL = baseURL
	}

	return NewFromURLPatternInit(init, opt)
}

// NewFromURLPatternInit constructs a URLPattern from a component map.
//
// https://urlpattern.spec.whatwg.org/#url-pattern-create
func NewFromURLPatternInit(init *URLPatternInit, opt Options) (*URLPattern, error) {
	processedInit, err := processURLPatternInit(init, "pattern", nil, nil, nil, nil, nil, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	star := "*"
	defaultToStar(&processedInit.Protocol, star)
	defaultToStar(&processedInit.Username, star)
	defaultToStar(&processedInit.Password, star)
	defaultToStar(&processedInit.Hostname, star)
	defaultToStar(&processedInit.Pathname, star)
	defaultToStar(&processedInit.Search, star)
	defaultToStar(&processedInit.Hash, star)

	// spec §3: "If the protocol evaluates to a special scheme, and the
	// port sub-pattern equals that scheme's default port or is absent,
	// the effective port sub-pattern is ''." Port's absence must be
	// checked before defaultToStar papers over it with "*".
	portIsAbsent := processedInit.Port == nil

	for _, s := range specialSchemeList {
		if *processedInit.Protocol != s {
			continue
		}

		if portIsAbsent || *processedInit.Port == DefaultPorts[s] {
			empty := ""
			processedInit.Port = &empty
		}

		break
	}

	defaultToStar(&processedInit.Port, star)

	pattern := &URLPattern{options: opt}
	defaultOptions := options{}

	pattern.protocol, err = compileComponent(*processedInit.Protocol, canonicalizeProtocol, defaultOptions)
	if err != nil {
		return nil, err
	}

	pattern.username, err = compileComponent(*processedInit.Username, canonicalizeUsername, defaultOptions)
	if err != nil {
		return nil, err
	}

	pattern.password, err = compileComponent(*processedInit.Password, canonicalizePassword, defaultOptions)
	if err != nil {
		return nil, err
	}

	hostnameOptions := options{delimiterCodePoint: '.'}

	if hostnamePatternIsIPv6Address(*processedInit.Hostname) {
		pattern.hostname, err = compileComponent(*processedInit.Hostname, canonicalizeIPv6Hostname, hostnameOptions)
	} else {
		pattern.hostname, err = compileComponent(*processedInit.Hostname, canonicalizeHostname, hostnameOptions)
	}
	if err != nil {
		return nil, err
	}

	portEncode := func(s string) (string, error) { return canonicalizePort(s, *processedInit.Protocol) }

	pattern.port, err = compileComponent(*processedInit.Port, portEncode, defaultOptions)
	if err != nil {
		return nil, err
	}

	// spec §3: ignoreCase only ever affects the pathname component; every
	// other component is always compiled case-sensitively.
	opaquePathnameOptions := options{ignoreCase: opt.ignoreCase}
	pathnameOptions := options{delimiterCodePoint: '/', prefixCodePoint: '/', ignoreCase: opt.ignoreCase}

	if pattern.protocol.protocolComponentMatchesSpecialScheme() {
		pattern.pathname, err = compileComponent(*processedInit.Pathname, canonicalizePathname, pathnameOptions)
	} else {
		pattern.pathname, err = compileComponent(*processedInit.Pathname, canonicalizeOpaquePathname, opaquePathnameOptions)
	}
	if err != nil {
		return nil, err
	}

	pattern.search, err = compileComponent(*processedInit.Search, canonicalizeSearch, defaultOptions)
	if err != nil {
		return nil, err
	}

	pattern.hash, err = compileComponent(*processedInit.Hash, canonicalizeHash, defaultOptions)
	if err != nil {
		return nil, err
	}

	return pattern, nil
}

func defaultToStar(field **string, star string) {
	if *field == nil {
		*field = &star
	}
}

// componentFor returns the compiled component for kind, used to keep
// Exec/Test iteration in spec §5's fixed order without an eight-way
// switch at every call site.
func (u *URLPattern) componentFor(kind ComponentKind) *component {
	switch kind {
	case Protocol:
		return u.protocol
	case Username:
		return u.username
	case Password:
		return u.password
	case Hostname:
		return u.hostname
	case Port:
		return u.port
	case Pathname:
		return u.pathname
	case Search:
		return u.search
	case Hash:
		return u.hash
	default:
		return nil
	}
}

// Protocol returns the protocol component's informational canonical
// pattern string.
func (u *URLPattern) Protocol() string { return u.protocol.patternString }

// Username returns the username component's informational canonical
// pattern string.
func (u *URLPattern) Username() string { return u.username.patternString }

// Password returns the password component's informational canonical
// pattern string.
func (u *URLPattern) Password() string { return u.password.patternString }

// Hostname returns the hostname component's informational canonical
// pattern string.
func (u *URLPattern) Hostname() string { return u.hostname.patternString }

// Port returns the port component's informational canonical pattern string.
func (u *URLPattern) Port() string { return u.port.patternString }

// Pathname returns the pathname component's informational canonical
// pattern string.
func (u *URLPattern) Pathname() string { return u.pathname.patternString }

// Search returns the search component's informational canonical pattern
// string.
func (u *URLPattern) Search() string { return u.search.patternString }

// Hash returns the hash component's informational canonical pattern
// string.
func (u *URLPattern) Hash() string { return u.hash.patternString }

// IgnoreCase reports whether this pattern's pathname matching folds case.
func (u *URLPattern) IgnoreCase() bool {
	return u.options.IgnoreCase()
}

// HasRegexpGroups reports whether any component used a custom regexp
// group (as opposed to only named/wildcard segments).
//
// https://urlpattern.spec.whatwg.org/#url-pattern-has-regexp-groups
func (u *URLPattern) HasRegexpGroups() bool {
	for _, kind := range componentOrder {
		if u.componentFor(kind).hasRegexpGroups {
			return true
		}
	}

	return false
}

// URLPatternComponentResult carries one component's matched input and its
// named capture groups.
//
// https://urlpattern.spec.whatwg.org/#dictdef-urlpatterncomponentresult
type URLPatternComponentResult struct {
	Input  string
	Groups map[string]*string
}

// URLPatternResult is the outcome of a successful Exec/ExecInit call.
//
// https://urlpattern.spec.whatwg.org/#dictdef-urlpatternresult
type URLPatternResult struct {
	Inputs     []string
	InitInputs []*URLPatternInit

	Protocol URLPatternComponentResult
	Username URLPatternComponentResult
	Password URLPatternComponentResult
	Hostname URLPatternComponentResult
	Port     URLPatternComponentResult
	Pathname URLPatternComponentResult
	Search   URLPatternComponentResult
	Hash     URLPatternComponentResult
}

// https://urlpattern.spec.whatwg.org/#create-a-component-match-result
//
// A capture's value is nil when the group did not participate in the
// match: FindStringSubmatchIndex reports a non-participating group as a
// -1 start index, which a plain FindStringSubmatch can't distinguish
// from a group that matched the empty string.
func createComponentMatchResult(c *component, input string, execIndex []int) URLPatternComponentResult {
	result := URLPatternComponentResult{Input: input, Groups: make(map[string]*string, len(c.groupNameList))}

	for i, name := range c.groupNameList {
		start, end := execIndex[2*(i+1)], execIndex[2*(i+1)+1]
		if start < 0 {
			result.Groups[name] = nil

			continue
		}

		value := input[start:end]
		result.Groups[name] = &value
	}

	return result
}

// Exec matches input (optionally resolved against baseURL) against every
// component and returns the bound groups, or nil on no match.
//
// https://urlpattern.spec.whatwg.org/#url-pattern-match
func (u *URLPattern) Exec(input, baseURL string) *URLPatternResult {
	resolved, err := resolveURL(input, baseURL)
	if err != nil {
		return nil
	}

	inputs := []string{input}
	if baseURL != "" {
		inputs = append(inputs, baseURL)
	}

	return u.match(inputs, nil, resolved)
}

// Test is Exec's boolean-only counterpart.
func (u *URLPattern) Test(input, baseURL string) bool {
	return u.Exec(input, baseURL) != nil
}

// ExecInit matches a component-map input against every component.
func (u *URLPattern) ExecInit(init *URLPatternInit) *URLPatternResult {
	resolved, err := u.resolveInit(init)
	if err != nil {
		return nil
	}

	return u.match(nil, []*URLPatternInit{init}, resolved)
}

// TestInit is ExecInit's boolean-only counterpart.
func (u *URLPattern) TestInit(init *URLPatternInit) bool {
	return u.ExecInit(init) != nil
}

// resolveInit runs processURLPatternInit (spec §4.7) over a component-map
// input, treating it as a URL (so components are encoded the same way a
// concrete URL string would be) and synthesizing the default port when the
// input has no port at all.
func (u *URLPattern) resolveInit(init *URLPatternInit) (*resolvedURLComponents, error) {
	processed, err := processURLPatternInit(init, "url", nil, nil, nil, nil, nil, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	get := func(s *string) string {
		if s == nil {
			return ""
		}

		return *s
	}

	protocol := strings.TrimSuffix(get(processed.Protocol), ":")
	search := strings.TrimPrefix(get(processed.Search), "?")
	hash := strings.TrimPrefix(get(processed.Hash), "#")
	port := get(processed.Port)

	if processed.Port == nil {
		if def, ok := DefaultPorts[protocol]; ok {
			port = def
		}
	}

	return &resolvedURLComponents{
		protocol: protocol,
		username: get(processed.Username),
		password: get(processed.Password),
		hostname: get(processed.Hostname),
		port:     port,
		pathname: get(processed.Pathname),
		search:   search,
		hash:     hash,
	}, nil
}

// match implements spec §4.7: run every compiled component's regex
// against the resolved components, in the fixed evaluation order, and
// assemble a result only if every component matches.
func (u *URLPattern) match(inputs []string, initInputs []*URLPatternInit, resolved *resolvedURLComponents) *URLPatternResult {
	values := map[ComponentKind]string{
		Protocol: resolved.protocol,
		Username: resolved.username,
		Password: resolved.password,
		Hostname: resolved.hostname,
		Port:     resolved.port,
		Pathname: resolved.pathname,
		Search:   resolved.search,
		Hash:     resolved.hash,
	}

	execIndexes := make(map[ComponentKind][]int, 8)

	for _, kind := range componentOrder {
		c := u.componentFor(kind)
		execIndexes[kind] = c.regularExpression.FindStringSubmatchIndex(values[kind])

		if execIndexes[kind] == nil {
			return nil
		}
	}

	result := &URLPatternResult{Inputs: inputs, InitInputs: initInputs}
	result.Protocol = createComponentMatchResult(u.protocol, values[Protocol], execIndexes[Protocol])
	result.Username = createComponentMatchResult(u.username, values[Username], execIndexes[Username])
	result.Password = createComponentMatchResult(u.password, values[Password], execIndexes[Password])
	result.Hostname = createComponentMatchResult(u.hostname, values[Hostname], execIndexes[Hostname])
	result.Port = createComponentMatchResult(u.port, values[Port], execIndexes[Port])
	result.Pathname = createComponentMatchResult(u.pathname, values[Pathname], execIndexes[Pathname])
	result.Search = createComponentMatchResult(u.search, values[Search], execIndexes[Search])
	result.Hash = createComponentMatchResult(u.hash, values[Hash], execIndexes[Hash])

	return result
}

// New is a convenience constructor on URLPatternInit mirroring the
// teacher's own test usage (init.New(options)).
func (init *URLPatternInit) New(opt Options) (*URLPattern, error) {
	return NewFromURLPatternInit(init, opt)
}
