package netio

// listenerOptions mirrors the source's TcpListener::builder() fields:
// addr/port/backlog plus the two optional socket knobs.
type listenerOptions struct {
	addr    string
	port    uint16
	backlog int32
	ttl     *uint32
	onlyV6  *bool
}

// ListenerOption configures NewTcpListener.
type ListenerOption func(*listenerOptions)

// WithAddr sets the bind address (default "0.0.0.0").
func WithAddr(addr string) ListenerOption { return func(o *listenerOptions) { o.addr = addr } }

// WithPort sets the bind port (default 0, i.e. OS-chosen).
func WithPort(port uint16) ListenerOption { return func(o *listenerOptions) { o.port = port } }

// WithBacklog sets the listen backlog (default 128).
func WithBacklog(n int32) ListenerOption { return func(o *listenerOptions) { o.backlog = n } }

// WithTTL sets IP_TTL/IPV6_UNICAST_HOPS on the listening socket.
func WithTTL(ttl uint32) ListenerOption {
	return func(o *listenerOptions) { o.ttl = &ttl }
}

// WithOnlyV6 forces (true) or disables (false) IPV6_V6ONLY on a v6 socket.
// Unset (the default) leaves the OS default in place.
func WithOnlyV6(only bool) ListenerOption {
	return func(o *listenerOptions) { o.onlyV6 = &only }
}

func resolveListenerOptions(opts []ListenerOption) *listenerOptions {
	o := &listenerOptions{addr: "0.0.0.0", backlog: 128}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
