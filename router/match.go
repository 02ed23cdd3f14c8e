package router

import "strings"

// Params holds the values bound to a pattern's ":name" segments.
type Params map[string]string

// NormalizePath ensures a single leading slash and strips one trailing slash
// unless the path is exactly "/".
func NormalizePath(path string) string {
	if path != "/" && strings.HasSuffix(path, "/") {
		path = path[:len(path)-1]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// Match reports whether path structurally matches pattern and returns the
// bound parameters. Both are split on "/" with empty segments discarded; the
// segment counts must be equal. A pattern segment starting with ":" matches
// any path segment and binds it under the name without the colon. Every other
// segment must match exactly, case-sensitively.
func Match(pattern, path string) (Params, bool) {
	patternParts := splitSegments(pattern)
	pathParts := splitSegments(path)
	if len(patternParts) != len(pathParts) {
		return nil, false
	}

	params := Params{}
	for i, part := range patternParts {
		if strings.HasPrefix(part, ":") {
			params[part[1:]] = pathParts[i]
			continue
		}
		if part != pathParts[i] {
			return nil, false
		}
	}
	return params, true
}

// splitSegments splits on "/" and drops empty segments.
func splitSegments(p string) []string {
	raw := strings.Split(p, "/")
	out := raw[:0]
	for _, s := range raw {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
