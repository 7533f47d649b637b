package client

import (
	"time"

	"rawhttp/application/http"
)

type Options struct {
	Send    SendOptions
	Receive ReceiveOptions
	Timeout TimeoutOptions

	// OnStateChange is called on every state an exchange enters, in order.
	OnStateChange func(State)
}

type SendOptions struct {
	Encode http.EncodeOptions
}

type ReceiveOptions struct {
	// ReadBufferSize is the size of a single read from the connection.
	// Zero means [DefaultReadBufferSize].
	ReadBufferSize uint

	// MaxResponseBytes caps how much of a response is kept.
	// A longer response fails the exchange. Zero means no limit.
	MaxResponseBytes uint
}

const DefaultReadBufferSize = 1024

type TimeoutOptions struct {
	// ReadTimeout bounds a whole exchange after the connection is established.
	// Zero means the exchange may block until the server closes the connection.
	ReadTimeout time.Duration
}
