package vfs

import (
	"strings"
)

// Path is an immutable, hierarchical file address. It has two forms:
//
//   - absolute:          /home/admin/report.csv
//   - scheme-qualified:  s3://bucket/archive/report.csv
//
// Absolute paths address tree-backed providers; scheme-qualified paths
// address connection-backed stores. A parsed Path always has at least one
// segment. Derivation methods (Parent, Child) return new values and never
// mutate the receiver.
//
// Relative components are not part of the address space: "." and ".."
// segments are rejected at parse time rather than resolved.
type Path struct {
	scheme   string
	segments []string
}

// Parse parses s into a Path. Input must be an absolute path starting with
// "/" or a scheme-qualified address of the form "scheme://rest"; anything
// else, including the bare roots "/" and "scheme://", fails with
// *InvalidPathError.
func Parse(s string) (Path, error) {
	if idx := strings.Index(s, "://"); idx >= 0 {
		scheme := s[:idx]
		if !validScheme(scheme) {
			return Path{}, &InvalidPathError{Input: s, Reason: "invalid scheme"}
		}
		segs, err := splitSegments(s, s[idx+3:])
		if err != nil {
			return Path{}, err
		}
		return Path{scheme: scheme, segments: segs}, nil
	}

	if !strings.HasPrefix(s, "/") {
		return Path{}, &InvalidPathError{Input: s, Reason: "path must be absolute or scheme-qualified"}
	}
	segs, err := splitSegments(s, s)
	if err != nil {
		return Path{}, err
	}
	return Path{segments: segs}, nil
}

// ParseRequired is Parse with an explicit guard against empty or blank
// input, for call sites where the path is mandatory.
func ParseRequired(s string) (Path, error) {
	if strings.TrimSpace(s) == "" {
		return Path{}, &InvalidPathError{Input: s, Reason: "path is required"}
	}
	return Parse(s)
}

// MustParse parses s and panics on failure. Intended for constants and
// tests.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

func splitSegments(input, rest string) ([]string, error) {
	var segs []string
	for _, seg := range strings.Split(rest, "/") {
		if seg == "" {
			continue
		}
		if seg == "." || seg == ".." {
			return nil, &InvalidPathError{Input: input, Reason: "relative segments are not allowed"}
		}
		segs = append(segs, seg)
	}
	if len(segs) == 0 {
		return nil, &InvalidPathError{Input: input, Reason: "path has no segments"}
	}
	return segs, nil
}

func validScheme(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// Scheme returns the scheme of a scheme-qualified path, or "" for an
// absolute path.
func (p Path) Scheme() string { return p.scheme }

// FirstSegment returns the first segment, the discriminant used for
// provider ownership of absolute paths (connection-backed providers
// discriminate on Scheme instead).
func (p Path) FirstSegment() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[0]
}

// Name returns the last segment.
func (p Path) Name() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// Segments returns a copy of the path's segments.
func (p Path) Segments() []string {
	return append([]string(nil), p.segments...)
}

// Depth returns the number of segments.
func (p Path) Depth() int { return len(p.segments) }

// IsZero reports whether p is the zero value rather than a parsed path.
func (p Path) IsZero() bool { return len(p.segments) == 0 }

// Parent returns the parent path, or false for a single-segment path
// (provider roots have no addressable parent).
func (p Path) Parent() (Path, bool) {
	if len(p.segments) < 2 {
		return Path{}, false
	}
	return Path{
		scheme:   p.scheme,
		segments: append([]string(nil), p.segments[:len(p.segments)-1]...),
	}, true
}

// Child returns the path of a direct child. The name must be a single
// non-empty segment.
func (p Path) Child(name string) (Path, error) {
	if err := ValidateName(name); err != nil {
		return Path{}, err
	}
	segs := make([]string, 0, len(p.segments)+1)
	segs = append(segs, p.segments...)
	segs = append(segs, name)
	return Path{scheme: p.scheme, segments: segs}, nil
}

// Equals reports structural equality.
func (p Path) Equals(other Path) bool {
	if p.scheme != other.scheme || len(p.segments) != len(other.segments) {
		return false
	}
	for i, seg := range p.segments {
		if other.segments[i] != seg {
			return false
		}
	}
	return true
}

// IsAncestorOf reports whether p is a strict ancestor of other.
func (p Path) IsAncestorOf(other Path) bool {
	if p.scheme != other.scheme || len(p.segments) >= len(other.segments) {
		return false
	}
	for i, seg := range p.segments {
		if other.segments[i] != seg {
			return false
		}
	}
	return true
}

// String renders the canonical form. Parse(p.String()) yields a path equal
// to p for any parsed path.
func (p Path) String() string {
	if p.scheme != "" {
		return p.scheme + "://" + strings.Join(p.segments, "/")
	}
	return "/" + strings.Join(p.segments, "/")
}

// Key returns a string usable as a map key. Identical to String; named
// separately so call sites signal intent.
func (p Path) Key() string { return p.String() }

// ValidateName checks that name is usable as a single path segment, as
// required by Child and by rename operations.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &InvalidPathError{Input: name, Reason: "name is required"}
	}
	if strings.Contains(name, "/") {
		return &InvalidPathError{Input: name, Reason: "name must be a single segment"}
	}
	if name == "." || name == ".." {
		return &InvalidPathError{Input: name, Reason: "relative segments are not allowed"}
	}
	return nil
}
