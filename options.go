// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package junos

import "time"

// Client configuration options using the functional options pattern

// Username sets the username for SSH authentication
//
// When not set, the name of the current OS user is used.
func Username(username string) func(*Client) {
	return func(c *Client) {
		c.username = username
	}
}

// Password sets the password for SSH authentication
//
// When no password is set the client falls back to key-based
// authentication (a configured key file, or the SSH agent).
func Password(password string) func(*Client) {
	return func(c *Client) {
		c.password = password
	}
}

// KeyFile sets a private key file path for SSH authentication
//
// The key is read and parsed when the session is established. If the file
// cannot be read or parsed, the connection attempt fails.
func KeyFile(path string) func(*Client) {
	return func(c *Client) {
		c.keyFile = path
	}
}

// Port sets the NETCONF port (default: 830)
func Port(port int) func(*Client) {
	return func(c *Client) {
		c.Port = port
	}
}

// ConnectTimeout sets the session establishment timeout (default: 30s)
func ConnectTimeout(duration time.Duration) func(*Client) {
	return func(c *Client) {
		c.ConnectTimeout = duration
	}
}

// WithLogger configures a custom logger for the client
//
// By default, the client uses NoOpLogger which discards all log messages.
// Use this option to enable logging with DefaultLogger, FileLogger or a
// custom implementation.
//
// Example:
//
//	logger, err := junos.NewFileLogger("/var/log/junoscfg.log", junos.LogLevelDebug)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Close()
//
//	client, _ := junos.NewClient("192.168.1.1",
//	    junos.Username("admin"),
//	    junos.Password("secret"),
//	    junos.WithLogger(logger))
func WithLogger(logger Logger) func(*Client) {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Request modifiers for individual operations

// Format returns a request modifier selecting the configuration rendering.
//
// Valid formats: text (default), xml. Exactly one rendering is produced
// per retrieval.
//
// Example:
//
//	res, err := client.GetConfig(ctx, junos.Format(junos.FormatXML))
func Format(format string) func(*Req) {
	return func(req *Req) {
		if format != "" {
			req.Format = format
		}
	}
}

// Filter returns a request modifier restricting the retrieval to a
// configuration subtree, given as a slash-delimited path.
//
// Example:
//
//	// Fetch only the routing-instances subtree of a group
//	res, err := client.GetConfig(ctx,
//	    junos.Filter("groups/routeinst/routing-instances/ISP-1"))
func Filter(path string) func(*Req) {
	return func(req *Req) {
		req.Filter = path
	}
}

// Option returns a request modifier adding one extra RPC attribute to the
// get-configuration request. Attributes are passed through to the device
// unvalidated.
//
// Example:
//
//	res, err := client.GetConfig(ctx,
//	    junos.Option("database", "committed"),
//	    junos.Option("inherit", "inherit"))
func Option(key, value string) func(*Req) {
	return func(req *Req) {
		if req.Options == nil {
			req.Options = map[string]string{}
		}
		req.Options[key] = value
	}
}

// Options returns a request modifier merging a whole attribute mapping
// into the get-configuration request.
func Options(options map[string]string) func(*Req) {
	return func(req *Req) {
		if req.Options == nil {
			req.Options = map[string]string{}
		}
		for k, v := range options {
			req.Options[k] = v
		}
	}
}

// Timeout returns a request modifier that bounds the RPC wait.
//
// A zero duration means no override; the transport default applies. The
// timeout governs only the RPC, not session establishment (see
// ConnectTimeout).
//
// Example:
//
//	res, err := client.GetConfig(ctx, junos.Timeout(60*time.Second))
func Timeout(duration time.Duration) func(*Req) {
	return func(req *Req) {
		req.Timeout = duration
	}
}

// DryRun returns a request modifier controlling check mode for SaveConfig.
//
// In dry-run mode every step up to and including the diff computation runs
// normally, but the destination file is never modified.
func DryRun(enabled bool) func(*Req) {
	return func(req *Req) {
		req.DryRun = enabled
	}
}

// WithDiff returns a request modifier enabling the diff payload in
// SaveConfig results. The payload carries the before/after text with the
// destination path and host as labels.
func WithDiff(enabled bool) func(*Req) {
	return func(req *Req) {
		req.ReportDiff = enabled
	}
}
