package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"rawhttp/application/http"
	"rawhttp/application/http/client"
	"rawhttp/application/http/status"
	"rawhttp/transport"
	"rawhttp/transport/tcp"

	"github.com/benbjohnson/clock"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

const usageLine = "httpclient [GET/POST] [URL]"

var errUsage = errors.New("invalid usage")

type rootFlags struct {
	data           []string
	timeout        time.Duration
	connectTimeout time.Duration
	maxBytes       uint
	verbose        bool
	noColor        bool
}

// newRootCmd wires the client to dial, which gets the dialer options taken from flags.
func newRootCmd(stdout, stderr io.Writer, dial func(tcp.DialerOptions) transport.ConnDialer) *cobra.Command {
	var flags rootFlags

	cmd := &cobra.Command{
		Use:   usageLine,
		Short: "Send one HTTP/1.1 request over a raw TCP connection",
		Long: `httpclient writes a single GET or POST request on a fresh TCP connection,
reads until the server closes it and prints the status line, headers and body.

Examples:
  httpclient http://example.com/
  httpclient GET http://example.com/search?q=go
  httpclient POST http://example.com/form --data name=gopher --data lang=go`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(cmd, args, flags, dial)
			switch {
			case errors.Is(err, errUsage):
				fmt.Fprintln(stderr, usageLine)
			case err != nil:
				fmt.Fprintln(stderr, "Error:", err)
			}
			return err
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	cmd.Flags().StringArrayVarP(&flags.data, "data", "d", nil, "Form field sent by POST as key=value, may be repeated")
	cmd.Flags().DurationVar(&flags.timeout, "timeout", 0, "Time allowed for the exchange once connected (0 = wait for the server)")
	cmd.Flags().DurationVar(&flags.connectTimeout, "connect-timeout", 10*time.Second, "Time allowed to establish the connection")
	cmd.Flags().UintVar(&flags.maxBytes, "max-bytes", 0, "Largest response accepted in bytes (0 = no limit)")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Log the exchange to stderr")
	cmd.Flags().BoolVar(&flags.noColor, "no-color", false, "Disable colored output")

	return cmd
}

func run(cmd *cobra.Command, args []string, flags rootFlags, dial func(tcp.DialerOptions) transport.ConnDialer) error {
	method, rawURL, err := parseArgs(args)
	if err != nil {
		return err
	}

	form, err := parseData(flags.data)
	if err != nil {
		return err
	}

	level := slog.LevelWarn
	if flags.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	c := client.New(
		dial(tcp.DialerOptions{Timeout: flags.connectTimeout}),
		logger,
		clock.New(),
		client.Options{
			Receive: client.ReceiveOptions{MaxResponseBytes: flags.maxBytes},
			Timeout: client.TimeoutOptions{ReadTimeout: flags.timeout},
		},
	)

	res, err := c.Command(cmd.Context(), method, rawURL, form)
	if err != nil {
		return err
	}

	printResponse(cmd.OutOrStdout(), res, !flags.noColor)
	return nil
}

// parseArgs accepts [METHOD] URL. A lone URL is fetched with GET.
func parseArgs(args []string) (method, rawURL string, err error) {
	switch len(args) {
	case 1:
		return client.MethodGet, args[0], nil
	case 2:
		method = strings.ToUpper(args[0])
		if method != client.MethodGet && method != client.MethodPost {
			return "", "", errUsage
		}
		return method, args[1], nil
	default:
		return "", "", errUsage
	}
}

func parseData(data []string) (http.Form, error) {
	var form http.Form
	for _, d := range data {
		key, value, ok := strings.Cut(d, "=")
		if !ok || key == "" {
			return nil, errors.Errorf("form field %q is not key=value", d)
		}
		form.Add(key, value)
	}
	return form, nil
}

func printResponse(w io.Writer, res *client.Response, colored bool) {
	statusLine, rest, _ := strings.Cut(res.String(), "\n")

	c := statusColor(res.StatusCode)
	if !colored {
		c.DisableColor()
	}

	fmt.Fprintln(w, c.Sprint(statusLine))
	fmt.Fprintln(w, rest)
}

func statusColor(code int) *color.Color {
	switch status.Class(code) {
	case 2:
		return color.New(color.FgGreen, color.Bold)
	case 3:
		return color.New(color.FgCyan, color.Bold)
	case 4:
		return color.New(color.FgYellow, color.Bold)
	case 5:
		return color.New(color.FgRed, color.Bold)
	default:
		return color.New(color.Bold)
	}
}
