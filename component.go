package urlpattern

// ComponentKind identifies one of the eight URL components a URLPattern
// compiles and matches independently.
//
// https://urlpattern.spec.whatwg.org/#component
type ComponentKind uint8

const (
	Protocol ComponentKind = iota
	Username
	Password
	Hostname
	Port
	Pathname
	Search
	Hash
	// BaseURL is only ever used as a key into a component-map input; a
	// URLPattern never compiles a component for it.
	BaseURL
)

func (k ComponentKind) String() string {
	switch k {
	case Protocol:
		return "protocol"
	case Username:
		return "username"
	case Password:
		return "password"
	case Hostname:
		return "hostname"
	case Port:
		return "port"
	case Pathname:
		return "pathname"
	case Search:
		return "search"
	case Hash:
		return "hash"
	case BaseURL:
		return "baseURL"
	default:
		return "unknown"
	}
}

// componentOrder fixes the evaluation order spec §5 requires: protocol,
// username, password, hostname, port, pathname, search, hash.
var componentOrder = [8]ComponentKind{Protocol, Username, Password, Hostname, Port, Pathname, Search, Hash}

// https://urlpattern.spec.whatwg.org/#url-pattern-options
type options struct {
	// delimiterCodePoint and prefixCodePoint MUST be ASCII code points.
	delimiterCodePoint byte
	prefixCodePoint    byte
	ignoreCase         bool
}

// Options configures construction of a URLPattern. The zero value matches
// case-sensitively everywhere except that it never affects any component
// other than pathname (spec §3).
type Options struct {
	ignoreCase bool
}

// IgnoreCase reports whether pathname matching folds case.
func (o Options) IgnoreCase() bool {
	return o.ignoreCase
}

// WithIgnoreCase returns a copy of o with ignoreCase set to v.
func (o Options) WithIgnoreCase(v bool) Options {
	o.ignoreCase = v

	return o
}

// https://url.spec.whatwg.org/#special-scheme
var specialSchemeList = []string{"ftp", "file", "http", "https", "ws", "wss"}

// DefaultPorts maps every special scheme to its default port, "" for
// schemes (like file) that have none. Exported so callers can extend
// special-casing without forking the package, mirroring the teacher's
// own rationale for exporting this table.
var DefaultPorts = map[string]string{
	"file":  "",
	"http":  "80",
	"https": "443",
	"ws":    "80",
	"wss":   "443",
	"ftp":   "21",
}

func isSpecialScheme(scheme string) bool {
	for _, s := range specialSchemeList {
		if scheme == s {
			return true
		}
	}

	return false
}
