package resolver

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Rejection reasons reported on Invalid targets.
const (
	ReasonNotAbsolute = "path must start with /"
	ReasonNullByte    = "null byte"
	ReasonTooLong     = "path too long"
	ReasonEncoding    = "malformed percent-encoding"
	ReasonBackslash   = "backslash"
	ReasonTraversal   = "traversal"
	ReasonDotSegment  = "dot segment"
	ReasonSegment     = "segment too long"
	ReasonEscape      = "symlink escape"
	ReasonLoop        = "symlink loop"
)

// NormalizeBasePath validates a configured base path and returns it with a
// leading slash and no trailing slash. The root ("" or "/") normalizes to "".
func NormalizeBasePath(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || trimmed == "/" {
		return "", nil
	}

	if strings.Contains(trimmed, "://") || strings.ContainsAny(trimmed, "?#\\\x00") {
		return "", fmt.Errorf("%w: %q must be a URL path without scheme, query, or fragment", ErrInvalidBasePath, raw)
	}

	if !strings.HasPrefix(trimmed, "/") {
		trimmed = "/" + trimmed
	}

	for _, seg := range strings.Split(strings.Trim(trimmed, "/"), "/") {
		if seg == "." || seg == ".." {
			return "", fmt.Errorf("%w: %q must not contain '.' or '..' segments", ErrInvalidBasePath, raw)
		}
	}

	cleaned := path.Clean(trimmed)
	if cleaned == "/" || cleaned == "." {
		return "", nil
	}
	return cleaned, nil
}

// request is a validated, decoded request path relative to the serve root.
type request struct {
	// rel is the slash-separated path below the root, without leading or
	// trailing slashes. The root itself is "".
	rel string
	// trailing records whether the decoded path ended with a slash.
	trailing bool
}

// parse validates and decodes a raw request path. It returns a non-empty
// reason when the path must be rejected, and ok=false when the path lies
// outside basePath.
func parse(raw, basePath string) (req request, reason string, ok bool) {
	if len(raw) > MaxPathLength {
		return req, ReasonTooLong, false
	}
	if strings.IndexByte(raw, 0) >= 0 {
		return req, ReasonNullByte, false
	}
	if !strings.HasPrefix(raw, "/") {
		return req, ReasonNotAbsolute, false
	}

	// Decode once. A second pass would turn %252e into '.', so the decoded
	// value is never unescaped again.
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return req, ReasonEncoding, false
	}
	if reason := checkSegments(decoded); reason != "" {
		return req, reason, false
	}

	rest := decoded
	if basePath != "" {
		switch {
		case decoded == basePath:
			rest = ""
		case strings.HasPrefix(decoded, basePath+"/"):
			rest = decoded[len(basePath):]
		default:
			return req, "", false
		}
	}

	segs := make([]string, 0, strings.Count(rest, "/")+1)
	for _, seg := range strings.Split(rest, "/") {
		if seg == "" {
			continue
		}
		if seg == ".." {
			return req, ReasonTraversal, false
		}
		segs = append(segs, seg)
	}

	req.rel = strings.Join(segs, "/")
	req.trailing = strings.HasSuffix(rest, "/")
	return req, "", true
}

func checkSegments(decoded string) string {
	if strings.IndexByte(decoded, 0) >= 0 {
		return ReasonNullByte
	}
	if strings.IndexByte(decoded, '\\') >= 0 {
		return ReasonBackslash
	}
	for _, seg := range strings.Split(decoded, "/") {
		switch {
		case seg == "..":
			return ReasonTraversal
		case seg == ".":
			return ReasonDotSegment
		case len(seg) > MaxSegmentLength:
			return ReasonSegment
		}
	}
	return ""
}

// location builds the escaped trailing-slash URL for a directory below basePath.
func location(basePath, rel string) string {
	p := basePath + "/"
	if rel != "" {
		p += rel + "/"
	}
	return (&url.URL{Path: p}).EscapedPath()
}
