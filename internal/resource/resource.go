// Package resource holds the shared drawing assets components pull
// from their ViewContext: font faces and named fill patterns.
package resource

import (
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"

	"github.com/tesseraos/tessera/internal/display"
)

// DefaultFaceName is the face every Set carries.
const DefaultFaceName = "default"

// Set is a named collection of faces and patterns. A nil Set still
// answers Face lookups with the built-in face so drawing code never
// needs a guard.
type Set struct {
	faces    map[string]font.Face
	patterns map[string]display.Pattern
}

// NewSet returns a Set preloaded with the built-in face and the
// standard dither and line patterns.
func NewSet() *Set {
	s := &Set{
		faces:    make(map[string]font.Face),
		patterns: make(map[string]display.Pattern),
	}
	s.faces[DefaultFaceName] = basicfont.Face7x13

	s.patterns["checker"] = *display.PatternChecker
	s.patterns["dither25"] = *display.PatternDither25
	s.patterns["dither50"] = *display.PatternDither50
	s.patterns["dither75"] = *display.PatternDither75
	s.patterns["hlines"] = *display.PatternHLines
	s.patterns["vlines"] = *display.PatternVLines
	return s
}

// Face returns the named face, falling back to the default face for
// unknown names.
func (s *Set) Face(name string) font.Face {
	if s != nil {
		if f, ok := s.faces[name]; ok {
			return f
		}
		if f, ok := s.faces[DefaultFaceName]; ok {
			return f
		}
	}
	return basicfont.Face7x13
}

// DefaultFace returns the face used when no name is given.
func (s *Set) DefaultFace() font.Face {
	return s.Face(DefaultFaceName)
}

// RegisterFace adds or replaces a named face.
func (s *Set) RegisterFace(name string, f font.Face) {
	if s == nil || name == "" || f == nil {
		return
	}
	s.faces[name] = f
}

// Pattern returns a named fill pattern.
func (s *Set) Pattern(name string) (display.Pattern, bool) {
	if s == nil {
		return display.Pattern{}, false
	}
	p, ok := s.patterns[name]
	return p, ok
}

// RegisterPattern adds or replaces a named pattern.
func (s *Set) RegisterPattern(name string, p display.Pattern) {
	if s == nil || name == "" {
		return
	}
	s.patterns[name] = p
}
