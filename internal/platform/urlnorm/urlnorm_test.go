package urlnorm_test

import (
	"testing"

	"github.com/souktrack/souktrack/internal/platform"
	"github.com/souktrack/souktrack/internal/platform/urlnorm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnitCanonicalize(t *testing.T) {
	tests := map[string]struct {
		rawURL  string
		want    string
		wantErr error
	}{
		"already canonical": {
			rawURL: "https://factory-moon.com/product/abaya",
			want:   "https://factory-moon.com/product/abaya",
		},
		"uppercase scheme and host": {
			rawURL: "HTTPS://Factory-Moon.COM/Product/Abaya",
			want:   "https://factory-moon.com/Product/Abaya",
		},
		"default https port stripped": {
			rawURL: "https://regine-sa.com:443/items/12",
			want:   "https://regine-sa.com/items/12",
		},
		"default http port stripped": {
			rawURL: "http://regine-sa.com:80/items/12",
			want:   "http://regine-sa.com/items/12",
		},
		"non-default port kept": {
			rawURL: "https://regine-sa.com:8443/items/12",
			want:   "https://regine-sa.com:8443/items/12",
		},
		"trailing slash stripped": {
			rawURL: "https://darenfactory.com/p/991/",
			want:   "https://darenfactory.com/p/991",
		},
		"root path kept": {
			rawURL: "https://darenfactory.com/",
			want:   "https://darenfactory.com/",
		},
		"fragment stripped": {
			rawURL: "https://darenfactory.com/p/991#reviews",
			want:   "https://darenfactory.com/p/991",
		},
		"tracking params stripped": {
			rawURL: "https://factory-moon.com/p/5?utm_source=mail&utm_campaign=eid&gclid=abc&fbclid=xyz&ref=home",
			want:   "https://factory-moon.com/p/5",
		},
		"remaining params sorted": {
			rawURL: "https://factory-moon.com/p/5?size=m&color=black&utm_medium=cpc",
			want:   "https://factory-moon.com/p/5?color=black&size=m",
		},
		"surrounding whitespace trimmed": {
			rawURL: "  https://factory-moon.com/p/5  ",
			want:   "https://factory-moon.com/p/5",
		},
		"unsupported scheme": {
			rawURL:  "ftp://factory-moon.com/p/5",
			wantErr: platform.ErrInvalidURL,
		},
		"missing host": {
			rawURL:  "https:///p/5",
			wantErr: platform.ErrInvalidURL,
		},
		"not a url": {
			rawURL:  "://",
			wantErr: platform.ErrInvalidURL,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := urlnorm.Canonicalize(tt.rawURL)

			require.ErrorIs(t, err, tt.wantErr, "should return correct error")
			assert.Equal(t, tt.want, got, "should return canonical url")
		})
	}
}

func TestUnitCanonicalizeIsIdempotent(t *testing.T) {
	rawURL := "HTTPS://Factory-Moon.COM:443/p/5/?utm_source=mail&size=m#top"

	once, err := urlnorm.Canonicalize(rawURL)
	require.NoError(t, err, "first pass shouldn't fail")

	twice, err := urlnorm.Canonicalize(once)
	require.NoError(t, err, "second pass shouldn't fail")

	assert.Equal(t, once, twice, "canonical form should be a fixed point")
}

func TestUnitHost(t *testing.T) {
	host, err := urlnorm.Host("HTTPS://Factory-Moon.COM/p/5")

	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, "factory-moon.com", host, "should return lowercased host")
}
