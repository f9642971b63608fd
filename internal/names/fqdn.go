package names

import (
	"errors"
	"fmt"
	"strings"
)

// FQDN is a fully-qualified internet domain name; it always ends in a
// trailing dot.
type FQDN string

// ParseFQDN parses n as a fully-qualified domain name.
func ParseFQDN(n string) (FQDN, error) {
	v := FQDN(n)
	return v, v.Validate()
}

// MustParseFQDN parses n as a fully-qualified domain name.
// It panics if n is invalid.
func MustParseFQDN(n string) FQDN {
	v, err := ParseFQDN(n)
	if err != nil {
		panic(err)
	}
	return v
}

// IsQualified returns true.
func (n FQDN) IsQualified() bool {
	return true
}

// Qualify returns n unchanged.
func (n FQDN) Qualify(FQDN) FQDN {
	return n
}

// Labels returns the DNS labels that form this name, not including the
// trailing root label.
// It panics if the name is not valid.
func (n FQDN) Labels() []Label {
	s := strings.TrimSuffix(n.String(), ".")
	if s == "" {
		return nil
	}

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

// IsWithin returns true if n is equal to, or a descendant of, domain.
func (n FQDN) IsWithin(domain FQDN) bool {
	if n == domain {
		return true
	}

	return strings.HasSuffix(n.String(), "."+domain.String())
}

// Validate returns nil if the name is valid.
func (n FQDN) Validate() error {
	if n == "" {
		return errors.New("fully-qualified name must not be empty")
	}

	if n[0] == '.' {
		return fmt.Errorf("fully-qualified name %q is invalid, unexpected leading dot", string(n))
	}

	if n[len(n)-1] != '.' {
		return fmt.Errorf("fully-qualified name %q is invalid, missing trailing dot", string(n))
	}

	if len(n) > 255 {
		return fmt.Errorf("fully-qualified name %q is invalid, exceeds 255 octets", string(n))
	}

	return nil
}

// String returns a representation of the name as used by DNS systems.
// It panics if the name is not valid.
func (n FQDN) String() string {
	if err := n.Validate(); err != nil {
		panic(err)
	}

	return string(n)
}
