package portal

import (
	"net/netip"

	"github.com/rs/zerolog"
)

// Target selects the address a login or logout applies to: either one the caller
// supplied or one discovered from the status page.
type Target struct {
	addr     netip.Addr
	discover bool
}

// ExplicitTarget returns a Target for a caller-supplied address.
func ExplicitTarget(addr netip.Addr) Target {
	return Target{addr: addr}
}

// DiscoverTarget returns a Target resolved through DetermineLocalIP.
func DiscoverTarget() Target {
	return Target{discover: true}
}

// TargetFromFlag returns ExplicitTarget(addr) when addr is valid and
// DiscoverTarget otherwise.
func TargetFromFlag(addr netip.Addr) Target {
	if addr.IsValid() {
		return ExplicitTarget(addr)
	}
	return DiscoverTarget()
}

// Discover reports whether the address has to be discovered.
func (t Target) Discover() bool {
	return t.discover
}

// String implements fmt.Stringer.
func (t Target) String() string {
	if t.discover {
		return "discover"
	}
	return t.addr.String()
}

// Credentials identify a Lock-And-Key user.
type Credentials struct {
	Username string
	Password string
}

// String renders the username only.
func (c Credentials) String() string {
	return c.Username
}

// MarshalZerologObject implements zerolog.LogObjectMarshaler. The password is
// never written.
func (c Credentials) MarshalZerologObject(e *zerolog.Event) {
	e.Str("username", c.Username)
}
