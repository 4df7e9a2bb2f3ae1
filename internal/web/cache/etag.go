package cache

import (
	"net/http"
	"strings"
)

// Canonical documents are content-addressed, so conditional requests only
// need ETag semantics; Last-Modified would just restate the hash with less
// precision.

// ParseIfNoneMatch parses the If-None-Match header value into its list of
// entity tags
func ParseIfNoneMatch(header string) []string {
	header = strings.TrimSpace(header)
	if header == "" {
		return nil
	}
	if header == "*" {
		return []string{"*"}
	}

	var etags []string
	for i := 0; i < len(header); {
		for i < len(header) && (header[i] == ' ' || header[i] == ',') {
			i++
		}
		if i >= len(header) {
			break
		}

		weak := false
		if i+2 <= len(header) && header[i:i+2] == "W/" {
			weak = true
			i += 2
		}

		if i < len(header) && header[i] == '"' {
			start := i
			i++
			for i < len(header) && header[i] != '"' {
				i++
			}
			if i < len(header) {
				i++
				etag := header[start:i]
				if weak {
					etag = "W/" + etag
				}
				etags = append(etags, etag)
			}
		} else {
			// Skip a malformed token rather than mis-parsing the rest
			for i < len(header) && header[i] != ',' {
				i++
			}
		}
	}

	return etags
}

// MatchesETag checks if the given ETag matches any of the provided ETags
// using weak comparison
func MatchesETag(etag string, etags []string) bool {
	if len(etags) == 0 {
		return false
	}
	if len(etags) == 1 && etags[0] == "*" {
		return true
	}

	for _, candidate := range etags {
		if stripWeak(candidate) == stripWeak(etag) {
			return true
		}
	}
	return false
}

// CheckConditionalRequest answers an If-None-Match request with 304 Not
// Modified when the client already holds the current document. Returns true
// if the response has been written.
func CheckConditionalRequest(w http.ResponseWriter, r *http.Request, etag string) bool {
	ifNoneMatch := r.Header.Get("If-None-Match")
	if ifNoneMatch == "" {
		return false
	}
	if MatchesETag(etag, ParseIfNoneMatch(ifNoneMatch)) {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

// SetCacheHeaders sets the cache validation headers on the response
func SetCacheHeaders(w http.ResponseWriter, etag, cacheControl string) {
	if etag != "" {
		w.Header().Set("ETag", etag)
	}
	if cacheControl != "" {
		w.Header().Set("Cache-Control", cacheControl)
	}
}

func stripWeak(etag string) string {
	return strings.TrimPrefix(etag, "W/")
}
