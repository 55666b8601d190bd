// Package email inspects signup email addresses. Addresses arrive from the
// community platform already validated; this package only answers structural
// questions the fraud checks care about.
package email

import "strings"

// LocalPart returns the part before the last '@', or "" when the address has
// no domain part.
func LocalPart(address string) string {
	at := strings.LastIndex(address, "@")
	if at <= 0 {
		return ""
	}
	return address[:at]
}

// HasPlusAlias reports whether the address uses plus-addressing
// (user+tag@domain). A '+' in the domain part does not count.
func HasPlusAlias(address string) bool {
	return strings.Contains(LocalPart(address), "+")
}
