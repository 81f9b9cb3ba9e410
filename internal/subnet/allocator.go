// Package subnet assigns sequential /24 blocks under a fixed two-octet base prefix.
package subnet

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultBase is the base prefix used when none is configured.
const DefaultBase = "172.16"

// MaxOctet is the highest third octet that still yields a usable /24.
// The allocator does not enforce it.
const MaxOctet = 254

// Allocator computes the next free /24 for a base prefix such as "172.16".
type Allocator struct {
	base    string
	pattern *regexp.Regexp
}

// NewAllocator validates base ("A.B", each octet 0-255) and returns an Allocator for it.
func NewAllocator(base string) (*Allocator, error) {
	base = strings.TrimSpace(base)
	parts := strings.Split(base, ".")
	if len(parts) != 2 {
		return nil, fmt.Errorf("invalid subnet base %q: expected two octets", base)
	}
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > 255 || strconv.Itoa(n) != p {
			return nil, fmt.Errorf("invalid subnet base %q: bad octet %q", base, p)
		}
	}

	return &Allocator{
		base:    base,
		pattern: regexp.MustCompile(regexp.QuoteMeta(base+".") + `(\d+)` + regexp.QuoteMeta(".0/24")),
	}, nil
}

// Base returns the two-octet base prefix.
func (a *Allocator) Base() string {
	return a.base
}

// Format renders the /24 for the given third octet.
func (a *Allocator) Format(octet int) string {
	return fmt.Sprintf("%s.%d.0/24", a.base, octet)
}

// Octet extracts the third octet of subnet. Anything that does not match the
// base pattern, or does not fit in an int, counts as 0.
func (a *Allocator) Octet(subnet string) int {
	m := a.pattern.FindStringSubmatch(subnet)
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}

// Next returns the /24 following the highest third octet among existing.
// An empty collection yields <base>.1.0/24.
func (a *Allocator) Next(existing []string) string {
	if len(existing) == 0 {
		return a.Format(1)
	}

	highest := 0
	for _, s := range existing {
		highest = max(highest, a.Octet(s))
	}
	return a.Format(highest + 1)
}

// Exhausted reports whether subnet was allocated past MaxOctet.
func (a *Allocator) Exhausted(subnet string) bool {
	return a.Octet(subnet) > MaxOctet
}
