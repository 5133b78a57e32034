package realtime

// Client is the interface for any type of live connection. It abstracts
// the underlying transport, allowing the registry and hub to manage
// different client types uniformly.
type Client interface {
	// GetUserID returns the authenticated user this connection belongs to.
	GetUserID() uint
	// GetRole returns the role the identity service attached to the user
	// at handshake time.
	GetRole() string
	// GetConnectionID returns the unique id of this connection. One user
	// may hold several connections, one per device.
	GetConnectionID() string

	// GetSendChannel returns the channel to which the registry delivers
	// events intended for this specific connection. It is a send-only
	// channel.
	GetSendChannel() chan<- Event

	// Run starts the client's read and write pumps, which handle incoming
	// and outgoing frames.
	Run()
	// Close shuts down the client. It is safe to call more than once.
	Close()
}
