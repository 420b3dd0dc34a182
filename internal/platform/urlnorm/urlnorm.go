// Package urlnorm fixes the canonical form of product URLs.
// Deduplication in the catalog is keyed by the canonical form,
// so the normalization rule must stay deterministic.
package urlnorm

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/souktrack/souktrack/internal/platform"
)

// trackingParams are query parameters stripped from canonical URLs.
// They identify marketing campaigns, not products.
var trackingParams = map[string]struct{}{
	"gclid":  {},
	"fbclid": {},
	"igshid": {},
	"mc_cid": {},
	"mc_eid": {},
	"ref":    {},
}

// Canonicalize returns the canonical form of rawURL:
// lowercased scheme and host, default ports and fragments removed,
// trailing slash stripped (except the root path), tracking parameters
// dropped and remaining query parameters re-encoded with sorted keys.
// It returns platform.ErrInvalidURL for malformed URLs and for schemes
// other than http and https.
func Canonicalize(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("%w: %s", platform.ErrInvalidURL, err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("%w: unsupported scheme %q", platform.ErrInvalidURL, parsed.Scheme)
	}
	if parsed.Host == "" {
		return "", fmt.Errorf("%w: missing host", platform.ErrInvalidURL)
	}

	parsed.Scheme = scheme
	parsed.Host = canonicalHost(parsed.Host, scheme)
	parsed.Fragment = ""
	parsed.RawQuery = canonicalQuery(parsed.Query())

	if parsed.Path != "/" {
		parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	}

	return parsed.String(), nil
}

// Host returns the host part of the canonical form of rawURL.
func Host(rawURL string) (string, error) {
	canonical, err := Canonicalize(rawURL)
	if err != nil {
		return "", err
	}

	parsed, err := url.Parse(canonical)
	if err != nil {
		return "", fmt.Errorf("%w: %s", platform.ErrInvalidURL, err)
	}

	return parsed.Host, nil
}

func canonicalHost(host, scheme string) string {
	host = strings.ToLower(host)
	switch scheme {
	case "http":
		host = strings.TrimSuffix(host, ":80")
	case "https":
		host = strings.TrimSuffix(host, ":443")
	}
	return host
}

func canonicalQuery(query url.Values) string {
	keys := make([]string, 0, len(query))
	for key := range query {
		if _, isTracking := trackingParams[key]; isTracking || strings.HasPrefix(key, "utm_") {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	canonical := url.Values{}
	for _, key := range keys {
		for _, value := range query[key] {
			canonical.Add(key, value)
		}
	}

	return canonical.Encode()
}
