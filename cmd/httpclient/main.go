// Command httpclient sends a single GET or POST over a raw TCP connection
// and prints the response.
package main

import (
	"os"

	"rawhttp/transport"
	"rawhttp/transport/tcp"
)

func main() {
	dial := func(opts tcp.DialerOptions) transport.ConnDialer { return tcp.NewDialer(opts) }

	if err := newRootCmd(os.Stdout, os.Stderr, dial).Execute(); err != nil {
		os.Exit(1)
	}
}
