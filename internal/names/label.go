package names

import (
	"errors"
	"fmt"
	"strings"
)

// Label is the part of a DNS name contained within dots; it never contains a
// dot itself.
type Label string

// ParseLabel parses n as a single DNS label.
func ParseLabel(n string) (Label, error) {
	v := Label(n)
	return v, v.Validate()
}

// MustParseLabel parses n as a single DNS label.
// It panics if n is invalid.
func MustParseLabel(n string) Label {
	v, err := ParseLabel(n)
	if err != nil {
		panic(err)
	}
	return v
}

// IsQualified returns false.
func (n Label) IsQualified() bool {
	return false
}

// Qualify returns a fully-qualified domain name produced by "qualifying"
// this name with f.
func (n Label) Qualify(f FQDN) FQDN {
	return FQDN(n.String() + "." + f.String())
}

// Labels returns the DNS labels that form this name.
func (n Label) Labels() []Label {
	return []Label{n}
}

// Join returns a name produced by concatenating this label with s.
func (n Label) Join(s Name) Name {
	return MustParse(n.String() + "." + s.String())
}

// Validate returns nil if the label is valid.
func (n Label) Validate() error {
	if n == "" {
		return errors.New("label must not be empty")
	}

	if len(n) > 63 {
		return fmt.Errorf("label %q is invalid, exceeds 63 octets", string(n))
	}

	if strings.Contains(string(n), ".") {
		return fmt.Errorf("label %q is invalid, contains unexpected dots", string(n))
	}

	return nil
}

// String returns a representation of the name as used by DNS systems.
// It panics if the name is not valid.
func (n Label) String() string {
	if err := n.Validate(); err != nil {
		panic(err)
	}

	return string(n)
}
