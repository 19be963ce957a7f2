// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package junos

import (
	"fmt"
	"net"
	"os"
	"os/user"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Juniper/go-netconf/netconf"
	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/agent"
)

// Default client configuration values
const (
	DefaultPort           = 830
	DefaultConnectTimeout = 30 * time.Second
)

// session is the device session capability used by operations: execute one
// RPC, release the transport. The concrete NETCONF session is pluggable
// behind this interface.
type session interface {
	Exec(methods ...netconf.RPCMethod) (*netconf.RPCReply, error)
	Close() error
}

// Client represents a NETCONF client connection to a Junos device
type Client struct {
	// NETCONF session (lazy, established on first RPC)
	session session

	// Mutex to synchronize session establishment and release
	mu sync.Mutex

	// Connection parameters
	Host     string
	Port     int
	username string // unexported for security
	password string // unexported for security
	keyFile  string

	// Timeout for session establishment
	ConnectTimeout time.Duration

	// Logging configuration
	logger Logger

	// dial establishes the session; replaceable in tests
	dial func(*Client) (session, error)
}

// NewClient creates a new Junos client with the specified host and options
//
// The client validates its configuration but does NOT establish a
// connection; the session is opened on the first RPC call. There is no
// retry logic: a failed connection attempt is reported immediately.
//
// Example:
//
//	client, err := junos.NewClient(
//	    "192.168.1.1",
//	    junos.Username("admin"),
//	    junos.Password("secret"),
//	    junos.Port(830),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
// Returns a configured Client or an error if validation fails.
func NewClient(host string, opts ...func(*Client)) (*Client, error) {
	client := &Client{
		Host:           host,
		Port:           DefaultPort,
		ConnectTimeout: DefaultConnectTimeout,
		logger:         &NoOpLogger{},
		dial:           dialSSH,
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.username == "" {
		client.username = currentUsername()
	}

	if err := client.validateConfig(); err != nil {
		return nil, err
	}

	client.logger.Info("junos client created",
		"host", client.Host,
		"port", client.Port,
		"user", client.username,
		"connection", "lazy")

	return client, nil
}

// Close releases the NETCONF session.
//
// Safe to call multiple times; subsequent calls are no-ops. Operations
// guarantee that Close is reached on every exit path, so a defer on Close
// is sufficient to release the device session.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session == nil {
		return nil
	}

	s := c.session
	c.session = nil

	if err := s.Close(); err != nil {
		c.logger.Warn("netconf session close returned error",
			"host", c.Host,
			"error", err.Error())
		return err
	}

	c.logger.Info("netconf session closed", "host", c.Host)
	return nil
}

// validateConfig validates client configuration before any network activity
//
// Validates:
//   - Host is present (hard requirement)
//   - Port range (1-65535)
//   - ConnectTimeout is positive
//
// Returns a *DeviceError with KindMissingParameter if validation fails.
func (c *Client) validateConfig() error {
	if strings.TrimSpace(c.Host) == "" {
		return &DeviceError{
			Kind:    KindMissingParameter,
			Op:      "new client",
			Message: "host is required",
		}
	}
	if c.Port < 1 || c.Port > 65535 {
		return &DeviceError{
			Kind:    KindMissingParameter,
			Op:      "new client",
			Message: fmt.Sprintf("invalid port: %d (must be 1-65535)", c.Port),
		}
	}
	if c.ConnectTimeout <= 0 {
		return &DeviceError{
			Kind:    KindMissingParameter,
			Op:      "new client",
			Message: fmt.Sprintf("connect timeout must be positive, got: %v", c.ConnectTimeout),
		}
	}
	return nil
}

// ensureConnected establishes the session if not already connected (lazy
// connection). Single attempt, fail fast: connection failures are fatal
// and reported with KindConnection; retry policy belongs to the caller's
// orchestrator.
func (c *Client) ensureConnected() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.session != nil {
		return nil
	}

	c.logger.Debug("establishing netconf session",
		"address", c.address(),
		"user", c.username)

	s, err := c.dial(c)
	if err != nil {
		c.logger.Error("netconf session establishment failed",
			"address", c.address(),
			"error", err.Error())
		return &DeviceError{
			Kind:    KindConnection,
			Op:      "connect",
			Host:    c.address(),
			Message: "unable to open netconf session",
			Err:     err,
		}
	}

	c.session = s

	c.logger.Info("netconf session established",
		"address", c.address(),
		"user", c.username)

	return nil
}

// address returns the host:port dial target, leaving an explicit port in
// Host untouched and bracketing bare IPv6 addresses.
func (c *Client) address() string {
	host := strings.TrimSuffix(strings.TrimSpace(c.Host), ":")
	if _, _, err := net.SplitHostPort(host); err == nil {
		return host
	}
	port := strconv.Itoa(c.Port)
	if ip := net.ParseIP(host); ip != nil && ip.To4() == nil {
		return "[" + host + "]:" + port
	}
	return host + ":" + port
}

// dialSSH opens a NETCONF-over-SSH session using the client's parameters
func dialSSH(c *Client) (session, error) {
	auth, err := c.authMethods()
	if err != nil {
		return nil, err
	}
	sshConfig := &ssh.ClientConfig{
		User:            c.username,
		Auth:            auth,
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec // Device host keys are not managed here
		Timeout:         c.ConnectTimeout,
	}
	return netconf.DialSSH(c.address(), sshConfig)
}

// authMethods resolves the SSH authentication methods in order of
// precedence: password, private key file, SSH agent.
func (c *Client) authMethods() ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if c.password != "" {
		methods = append(methods, ssh.Password(c.password))
	}

	if c.keyFile != "" {
		data, err := os.ReadFile(c.keyFile)
		if err != nil {
			return nil, fmt.Errorf("read private key %s: %w", c.keyFile, err)
		}
		signer, err := ssh.ParsePrivateKey(data)
		if err != nil {
			return nil, fmt.Errorf("parse private key %s: %w", c.keyFile, err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	if len(methods) == 0 {
		if sock := os.Getenv("SSH_AUTH_SOCK"); sock != "" {
			conn, err := net.Dial("unix", sock)
			if err != nil {
				return nil, fmt.Errorf("connect to ssh agent: %w", err)
			}
			methods = append(methods, ssh.PublicKeysCallback(agent.NewClient(conn).Signers))
		}
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf("no authentication method available: configure a password, key file, or SSH agent")
	}
	return methods, nil
}

// currentUsername returns the name of the current OS user, falling back to
// the USER environment variable.
func currentUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return os.Getenv("USER")
}
