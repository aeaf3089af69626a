// Package domain extracts a normalized domain from a raw URL. It is the
// "URL parser" collaborator named in SPEC_FULL.md §4.5 and §6: the
// hit-counter core never sees anything but the validated string this
// package produces.
package domain

import (
	"errors"
	"net/url"
	"strings"
)

// ErrMalformedURL is returned when rawURL cannot be parsed into a usable
// host, or its host is empty after normalization.
var ErrMalformedURL = errors.New("domain: malformed URL")

// Parse extracts, lower-cases, and normalizes the host component of
// rawURL. It accepts both fully-qualified URLs ("https://Example.com/path")
// and bare host/path forms ("example.com/path"), strips a trailing dot and
// a leading "www.", and rejects inputs with no usable host.
func Parse(rawURL string) (string, error) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return "", ErrMalformedURL
	}

	candidate := raw
	if !strings.Contains(raw, "://") {
		// url.Parse treats a bare "host/path" string as a relative
		// reference with an empty Host, so a scheme is prepended before
		// parsing and stripped again by reading only u.Hostname() below.
		candidate = "http://" + raw
	}

	u, err := url.Parse(candidate)
	if err != nil {
		return "", ErrMalformedURL
	}

	host := u.Hostname()
	host = strings.ToLower(host)
	host = strings.TrimSuffix(host, ".")
	host = strings.TrimPrefix(host, "www.")

	if host == "" {
		return "", ErrMalformedURL
	}
	return host, nil
}
