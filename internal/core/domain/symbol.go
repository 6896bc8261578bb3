package domain

import (
	"cmp"
	"unique"
)

// Symbol is an interned identifier. Element ids and process keys repeat across every
// version of a definition that is kept in memory, so they are stored once per process.
type Symbol struct {
	h unique.Handle[string]
}

// Intern returns the Symbol for s.
func Intern(s string) Symbol {
	return Symbol{h: unique.Make(s)}
}

// IsZero reports whether the Symbol was never assigned.
func (s Symbol) IsZero() bool {
	var zero unique.Handle[string]
	return s.h == zero
}

// String returns the underlying string value.
func (s Symbol) String() string {
	if s.IsZero() {
		return ""
	}
	return s.h.Value()
}

// Compare orders symbols by their string value.
func (s Symbol) Compare(other Symbol) int {
	return cmp.Compare(s.String(), other.String())
}

// MarshalText implements encoding.TextMarshaler.
func (s Symbol) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Symbol) UnmarshalText(text []byte) error {
	if len(text) == 0 {
		*s = Symbol{}
		return nil
	}
	s.h = unique.Make(string(text))
	return nil
}

func internAll(values []string) []Symbol {
	if len(values) == 0 {
		return nil
	}
	out := make([]Symbol, len(values))
	for i, v := range values {
		out[i] = Intern(v)
	}
	return out
}
