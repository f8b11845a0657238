package scanner

import (
	"errors"
	"regexp"
)

// ErrInvalidDomain indicates the scan target is not a hostname or IPv4
// address.
var ErrInvalidDomain = errors.New("invalid domain")

var (
	domainPattern = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)
	ipv4Pattern   = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)
)

// ValidateDomain checks that the target looks like a hostname or IPv4
// address. This is a syntax gate, not a substitute for argv isolation: the
// runner never hands the value to a shell regardless.
func ValidateDomain(domain string) error {
	if domainPattern.MatchString(domain) || ipv4Pattern.MatchString(domain) {
		return nil
	}
	return ErrInvalidDomain
}
