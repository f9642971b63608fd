package names

import (
	"errors"
	"fmt"
	"strings"
)

// Rel is a relative name.
//
// It differs from a Host in that it MAY contain dots, but is not itself
// fully-qualified, and hence does not end in a trailing dot.
type Rel string

// ParseRel parses n as a relative name.
func ParseRel(n string) (Rel, error) {
	v := Rel(n)
	return v, v.Validate()
}

// MustParseRel parses n as a relative name.
// It panics if n is invalid.
func MustParseRel(n string) Rel {
	v, err := ParseRel(n)
	if err != nil {
		panic(err)
	}
	return v
}

// IsQualified returns false.
func (n Rel) IsQualified() bool {
	return false
}

// Qualify returns n, qualified against f.
func (n Rel) Qualify(f FQDN) FQDN {
	return FQDN(n.String() + "." + f.String())
}

// Labels returns the DNS labels that form this name.
// It panics if the name is not valid.
func (n Rel) Labels() []Label {
	s := n.String()
	var labels []Label

	for {
		i := strings.Index(s, ".")
		if i == -1 {
			return append(labels, Label(s))
		}

		labels = append(labels, Label(s[:i]))
		s = s[i+1:]
	}
}

// Join returns a name produced by concatenating this name with s.
func (n Rel) Join(s Name) Name {
	return MustParse(n.String() + "." + s.String())
}

// Validate returns nil if the name is valid.
func (n Rel) Validate() error {
	if n == "" {
		return errors.New("relative name must not be empty")
	}

	s := string(n)

	if strings.HasPrefix(s, ".") {
		return fmt.Errorf("relative name %q is invalid, unexpected leading dot", s)
	}

	if strings.HasSuffix(s, ".") {
		return fmt.Errorf("relative name %q is invalid, unexpected trailing dot", s)
	}

	return nil
}

// String returns a representation of the name as used by DNS systems.
// It panics if the name is not valid.
func (n Rel) String() string {
	if err := n.Validate(); err != nil {
		panic(err)
	}

	return string(n)
}
