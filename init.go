package urlpattern

import (
	"strings"
)

// https://urlpattern.spec.whatwg.org/#process-a-urlpatterninit
//
// processURLPatternInit merges init's populated fields over the eight
// components given as starting values (every current caller,
// NewFromURLPatternInit and URLPattern.resolveInit, passes nil for all
// eight; components from init.BaseURL are filled in here), running each
// through the matching canonicalize function for "url" type, or left
// verbatim for "pattern" type (spec §4.1: canonicalization only applies
// when merging a concrete URL, not a pattern string).
func processURLPatternInit(init *URLPatternInit, iType string, protocol, username, password, hostname, port, pathname, search, hash *string) (*URLPatternInit, error) {
	result := URLPatternInit{
		Protocol: protocol,
		Username: username,
		Password: password,
		Hostname: hostname,
		Port:     port,
		Pathname: pathname,
		Search:   search,
		Hash:     hash,
	}

	if init.Protocol != nil {
		if err := processFieldForInit(iType, *init.Protocol, canonicalizeProtocol, &result.Protocol); err != nil {
			return nil, err
		}
	}

	var baseURLComponents *resolvedURLComponents

	if init.BaseURL != nil {
		if result.Protocol == nil {
			b, err := resolveURL(*init.BaseURL, "")
			if err != nil {
				return nil, err
			}

			baseURLComponents = b
			protocolValue := b.protocol
			result.Protocol = &protocolValue
		}

		if iType != "pattern" {
			if baseURLComponents == nil {
				b, err := resolveURL(*init.BaseURL, "")
				if err != nil {
					return nil, err
				}

				baseURLComponents = b
			}

			if result.Username == nil {
				result.Username = &baseURLComponents.username
			}

			if result.Password == nil {
				result.Password = &baseURLComponents.password
			}

			if result.Hostname == nil {
				result.Hostname = &baseURLComponents.hostname
			}

			if result.Port == nil {
				result.Port = &baseURLComponents.port
			}

			if result.Pathname == nil {
				result.Pathname = &baseURLComponents.pathname
			}
		}
	}

	if init.Username != nil {
		if err := processFieldForInit(iType, *init.Username, canonicalizeUsername, &result.Username); err != nil {
			return nil, err
		}
	}

	if init.Password != nil {
		if err := processFieldForInit(iType, *init.Password, canonicalizePassword, &result.Password); err != nil {
			return nil, err
		}
	}

	if init.Hostname != nil {
		encode := canonicalizeHostname
		if hostnamePatternIsIPv6Address(*init.Hostname) {
			encode = canonicalizeIPv6Hostname
		}

		if err := processFieldForInit(iType, *init.Hostname, encode, &result.Hostname); err != nil {
			return nil, err
		}
	}

	if init.Port != nil {
		protocolValue := ""
		if result.Protocol != nil {
			protocolValue = *result.Protocol
		}

		encode := func(s string) (string, error) { return canonicalizePort(s, protocolValue) }
		if err := processFieldForInit(iType, *init.Port, encode, &result.Port); err != nil {
			return nil, err
		}
	}

	if init.Pathname != nil {
		pathname := *init.Pathname

		if result.Protocol != nil && !isSpecialScheme(*result.Protocol) {
			if err := processFieldForInit(iType, pathname, canonicalizeOpaquePathname, &result.Pathname); err != nil {
				return nil, err
			}
		} else {
			if baseURLComponents != nil && !isAbsolutePathname(pathname) {
				basePathname := baseURLComponents.pathname
				if idx := strings.LastIndex(basePathname, "/"); idx != -1 {
					pathname = basePathname[:idx+1] + pathname
				}
			}

			if err := processFieldForInit(iType, pathname, canonicalizePathname, &result.Pathname); err != nil {
				return nil, err
			}
		}
	}

	if init.Search != nil {
		if err := processFieldForInit(iType, *init.Search, canonicalizeSearch, &result.Search); err != nil {
			return nil, err
		}
	}

	if init.Hash != nil {
		if err := processFieldForInit(iType, *init.Hash, canonicalizeHash, &result.Hash); err != nil {
			return nil, err
		}
	}

	return &result, nil
}

// processFieldForInit runs value through encode (for "url" type) before
// storing it in *dst; "pattern" type stores value unchanged, mirroring
// the spec's "If type is not 'pattern' ... set ... to the result of
// running the associated canonicalization algorithm."
func processFieldForInit(iType, value string, encode encodingCallback, dst **string) error {
	if iType == "pattern" {
		*dst = &value

		return nil
	}

	encoded, err := encode(value)
	if err != nil {
		return err
	}

	*dst = &encoded

	return nil
}

// isAbsolutePathname reports whether pathname starts with a path
// separator, meaning it replaces rather than extends a base URL's
// directory when a baseURL field is present (spec §4.1).
func isAbsolutePathname(pathname string) bool {
	return pathname != "" && pathname[0] == '/'
}

