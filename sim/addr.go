package sim

import "fmt"

// Addr is a logical (host, port) pair. Hosts are opaque labels; nothing in
// the simulation resolves or routes them, they only have to match between
// Listen and Connect.
type Addr struct {
	Host string
	Port int
}

// Network implements net.Addr.
func (a Addr) Network() string { return "sim" }

func (a Addr) String() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}
