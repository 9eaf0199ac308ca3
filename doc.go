// Package urlpattern implements the WICG URLPattern standard: a
// path-to-regexp-inspired pattern syntax for matching URLs component by
// component (protocol, username, password, hostname, port, pathname,
// search, hash).
//
// The specification is available at https://urlpattern.spec.whatwg.org/.
package urlpattern
