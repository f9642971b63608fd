package names

import (
	"errors"
	"fmt"
	"strings"
)

// UDN is an unqualified (relative) domain name that may contain multiple DNS
// labels, such as "_http._tcp".
type UDN string

// ParseUDN parses n as an unqualified domain name.
func ParseUDN(n string) (UDN, error) {
	v := UDN(n)
	return v, v.Validate()
}

// IsQualified returns false.
func (n UDN) IsQualified() bool {
	return false
}

// Qualify returns a fully-qualified domain name produced by "qualifying"
// this name with f.
func (n UDN) Qualify(f FQDN) FQDN {
	return FQDN(n.String() + "." + f.String())
}

// Labels returns the DNS labels that form this name.
// It panics if the name is not valid.
func (n UDN) Labels() []Label {
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
func (n UDN) Join(s Name) Name {
	return MustParse(n.String() + "." + s.String())
}

// Validate returns nil if the name is valid.
func (n UDN) Validate() error {
	if n == "" {
		return errors.New("unqualified domain name must not be empty")
	}

	if n[0] == '.' {
		return fmt.Errorf("unqualified domain name %q is invalid, unexpected leading dot", string(n))
	}

	if n[len(n)-1] == '.' {
		return fmt.Errorf("unqualified domain name %q is invalid, unexpected trailing dot", string(n))
	}

	return nil
}

// String returns a representation of the name as used by DNS systems.
// It panics if the name is not valid.
func (n UDN) String() string {
	if err := n.Validate(); err != nil {
		panic(err)
	}

	return string(n)
}
