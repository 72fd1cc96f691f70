// Package path implements the symbolic, tree-structured object identifiers
// used throughout the engine: Store keys, Block/Port/Graph identities, and
// the subject of every client command.
package path

import (
	"regexp"
	"strings"

	"github.com/sigflow/engine/pkg/sigerr"
)

// segmentPattern mirrors the teacher's manifest identifier validation:
// an ASCII identifier starting with a letter or underscore.
var segmentPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Path is a `/`-delimited absolute identifier rooted at "/".
type Path struct {
	segments []string
}

// Root is the path "/".
var Root = Path{}

// Parse validates and parses an absolute path string.
func Parse(s string) (Path, error) {
	if s == "" || s[0] != '/' {
		return Path{}, sigerr.New(sigerr.KindBadPath, s, "path must be absolute")
	}
	if s == "/" {
		return Root, nil
	}
	parts := strings.Split(s[1:], "/")
	segs := make([]string, 0, len(parts))
	for _, p := range parts {
		if !segmentPattern.MatchString(p) {
			return Path{}, sigerr.New(sigerr.KindBadPath, s, "invalid segment: "+p)
		}
		segs = append(segs, p)
	}
	return Path{segments: segs}, nil
}

// MustParse parses a path, panicking on error. Intended for literals in
// tests and demo wiring, never for client input.
func MustParse(s string) Path {
	p, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return p
}

// Child returns the path of a child segment below p.
func (p Path) Child(segment string) (Path, error) {
	if !segmentPattern.MatchString(segment) {
		return Path{}, sigerr.New(sigerr.KindBadPath, segment, "invalid segment")
	}
	segs := make([]string, len(p.segments)+1)
	copy(segs, p.segments)
	segs[len(p.segments)] = segment
	return Path{segments: segs}, nil
}

// Parent returns the path's parent and true, or Root and false if p is Root.
func (p Path) Parent() (Path, bool) {
	if len(p.segments) == 0 {
		return Root, false
	}
	return Path{segments: p.segments[:len(p.segments)-1]}, true
}

// Base returns the last segment, or "" for Root.
func (p Path) Base() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// IsRoot reports whether p is the root path.
func (p Path) IsRoot() bool {
	return len(p.segments) == 0
}

// HasPrefix reports whether p is equal to or a descendant of prefix; used
// to detach/rename an entire subtree atomically.
func (p Path) HasPrefix(prefix Path) bool {
	if len(prefix.segments) > len(p.segments) {
		return false
	}
	for i, s := range prefix.segments {
		if p.segments[i] != s {
			return false
		}
	}
	return true
}

// WithPrefix rewrites the prefix of p from oldPrefix to newPrefix; used by
// Move to rename an entire subtree. p must have oldPrefix as a prefix.
func (p Path) WithPrefix(oldPrefix, newPrefix Path) Path {
	rest := p.segments[len(oldPrefix.segments):]
	segs := make([]string, 0, len(newPrefix.segments)+len(rest))
	segs = append(segs, newPrefix.segments...)
	segs = append(segs, rest...)
	return Path{segments: segs}
}

// String renders the canonical "/a/b/c" form.
func (p Path) String() string {
	if len(p.segments) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.segments, "/")
}

// Equal reports structural equality.
func (p Path) Equal(o Path) bool {
	return p.String() == o.String()
}
