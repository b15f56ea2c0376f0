package routing

import "strings"

// PathPattern is an allowlist path with {param} segments, e.g.
// /causes/{cause_id}/edit. A parameter matches exactly one non-empty
// segment; there is no wildcard or suffix form.
type PathPattern struct {
	raw      string
	segments []string
}

func parsePathPattern(raw string) (PathPattern, bool) {
	if !strings.Contains(raw, "{") {
		return PathPattern{}, false
	}
	if raw == "" || raw[0] != '/' {
		return PathPattern{}, false
	}

	segments := splitPathSegments(raw)
	for _, seg := range segments {
		if seg == "" {
			return PathPattern{}, false
		}
		if !strings.ContainsAny(seg, "{}") {
			continue
		}
		if !isParamSegment(seg) {
			return PathPattern{}, false
		}
	}
	return PathPattern{raw: raw, segments: segments}, true
}

func (p PathPattern) Match(path string) bool {
	if p.raw == "" {
		return false
	}
	got := splitPathSegments(path)
	if len(got) != len(p.segments) {
		return false
	}
	for i, want := range p.segments {
		if got[i] == "" {
			return false
		}
		if isParamSegment(want) {
			continue
		}
		if got[i] != want {
			return false
		}
	}
	return true
}

func splitPathSegments(path string) []string {
	path = strings.TrimPrefix(strings.TrimSpace(path), "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func isParamSegment(s string) bool {
	return len(s) > 2 && strings.HasPrefix(s, "{") && strings.HasSuffix(s, "}")
}
