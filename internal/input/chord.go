package input

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

// Chord parse errors.
var (
	ErrEmptyChord   = errors.New("empty chord specification")
	ErrInvalidChord = errors.New("invalid chord specification")
)

// Chord is a key-plus-modifiers pattern, the unit of keyboard
// configuration. Character chords carry the character in Rune with
// Key set to KeyRune.
type Chord struct {
	Key  Key
	Rune rune
	Mod  Mod
}

// ParseChord parses a chord specification like "q", "ctrl+q",
// "ctrl+alt+left" or "f1". The final segment names the key; every
// earlier segment must be a modifier.
func ParseChord(spec string) (Chord, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return Chord{}, ErrEmptyChord
	}

	parts := strings.Split(spec, "+")
	var mods Mod
	for _, p := range parts[:len(parts)-1] {
		mod, ok := modNameMap[strings.ToLower(strings.TrimSpace(p))]
		if !ok {
			return Chord{}, fmt.Errorf("%w: unknown modifier %q", ErrInvalidChord, p)
		}
		mods = mods.With(mod)
	}

	keyPart := strings.TrimSpace(parts[len(parts)-1])
	if keyPart == "" {
		return Chord{}, ErrInvalidChord
	}

	if k := KeyFromName(keyPart); k != KeyNone {
		return Chord{Key: k, Mod: mods}, nil
	}
	if keyPart == "space" || keyPart == "Space" {
		return Chord{Key: KeyRune, Rune: ' ', Mod: mods}, nil
	}

	runes := []rune(keyPart)
	if len(runes) != 1 {
		return Chord{}, fmt.Errorf("%w: unknown key %q", ErrInvalidChord, keyPart)
	}
	r := runes[0]
	if unicode.IsUpper(r) {
		mods = mods.With(ModShift)
		r = unicode.ToLower(r)
	}
	return Chord{Key: KeyRune, Rune: r, Mod: mods}, nil
}

// MustParseChord parses a chord and panics on error. For known-valid
// specs in defaults and tests.
func MustParseChord(spec string) Chord {
	c, err := ParseChord(spec)
	if err != nil {
		panic("invalid chord specification " + spec + ": " + err.Error())
	}
	return c
}

// Matches reports whether a key press matches the chord. Runes
// compare case-insensitively; case travels in the modifier mask. The
// zero chord is unbound and matches nothing.
func (c Chord) Matches(key Key, r rune, mod Mod) bool {
	if c.IsZero() {
		return false
	}
	if c.Mod != mod {
		return false
	}
	if c.Key != KeyRune {
		return c.Key == key
	}
	if key != KeyRune {
		return false
	}
	return c.Rune == unicode.ToLower(r)
}

// String returns the canonical spec form, parseable by ParseChord.
func (c Chord) String() string {
	var parts []string
	if c.Mod.Has(ModCtrl) {
		parts = append(parts, "ctrl")
	}
	if c.Mod.Has(ModAlt) {
		parts = append(parts, "alt")
	}
	if c.Mod.Has(ModShift) {
		parts = append(parts, "shift")
	}
	if c.Key == KeyRune {
		if c.Rune == ' ' {
			parts = append(parts, "space")
		} else {
			parts = append(parts, string(c.Rune))
		}
	} else {
		parts = append(parts, strings.ToLower(c.Key.String()))
	}
	return strings.Join(parts, "+")
}

// IsZero reports whether the chord is unset.
func (c Chord) IsZero() bool {
	return c == Chord{}
}
