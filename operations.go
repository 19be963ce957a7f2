// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package junos

import (
	"context"
	"fmt"
	"time"

	"github.com/Juniper/go-netconf/netconf"
)

// GetConfig retrieves the device configuration with a single
// get-configuration RPC.
//
// The session is established lazily on the first call. Exactly one RPC is
// issued per invocation and no retry is attempted: connection failures are
// reported as KindConnection, protocol-level rejections (including
// malformed filter paths) as KindRPC. A Timeout modifier greater than zero
// bounds the RPC wait.
//
// Example:
//
//	res, err := client.GetConfig(ctx,
//	    junos.Format(junos.FormatXML),
//	    junos.Filter("interfaces"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.XMLString())
func (c *Client) GetConfig(ctx context.Context, mods ...func(*Req)) (ConfigRes, error) {
	req := newReq(mods...)

	if err := ValidateFormat(req.Format); err != nil {
		return ConfigRes{}, &DeviceError{
			Kind:    KindMissingParameter,
			Op:      "get configuration",
			Message: err.Error(),
		}
	}

	if err := checkContextCancellation(ctx); err != nil {
		return ConfigRes{}, err
	}

	if err := c.ensureConnected(); err != nil {
		return ConfigRes{}, err
	}

	payload, err := req.rpcString()
	if err != nil {
		return ConfigRes{}, &DeviceError{
			Kind:    KindUnexpected,
			Op:      "get configuration",
			Message: "unable to render rpc payload",
			Err:     err,
		}
	}

	c.logger.Debug("get-configuration request",
		"host", c.Host,
		"format", req.Format,
		"filter", req.Filter,
		"options", len(req.Options),
		"timeout", req.Timeout.String())

	reply, err := c.exec(ctx, req.Timeout, netconf.RawMethod(payload))
	if err != nil {
		c.logger.Error("get-configuration failed",
			"host", c.Host,
			"error", err.Error())
		return ConfigRes{}, &DeviceError{
			Kind:    KindRPC,
			Op:      "get configuration",
			Host:    c.address(),
			Message: "rpc failed",
			Err:     err,
		}
	}

	if details := rpcErrorDetails(reply); len(details) > 0 {
		c.logger.Error("get-configuration rejected",
			"host", c.Host,
			"errors", len(details))
		return ConfigRes{}, &DeviceError{
			Kind:    KindRPC,
			Op:      "get configuration",
			Host:    c.address(),
			Message: "device rejected the request",
			Details: details,
		}
	}

	res, err := parseConfigRes(reply, req.Format)
	if err != nil {
		return ConfigRes{}, err
	}

	c.logger.Debug("get-configuration response",
		"host", c.Host,
		"format", res.Format,
		"bytes", len(res.Render()))

	return res, nil
}

// SaveConfig retrieves the device configuration and writes it to dest,
// reporting whether the content changed.
//
// Prior content of dest is read first (a missing file counts as empty),
// the fresh rendering is compared byte-for-byte, and the file is rewritten
// only when the content differs and dry-run mode (DryRun modifier) is not
// requested. Text renderings have non-ASCII characters replaced with "??"
// before comparison and storage. With WithDiff enabled, a changed result
// carries a before/after diff payload labeled with the destination path
// and the device host.
//
// The device session is closed on every exit path, exactly once.
//
// Example:
//
//	res, err := client.SaveConfig(ctx, "/var/backups/router1.conf",
//	    junos.Format(junos.FormatText),
//	    junos.WithDiff(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println("changed:", res.Changed)
func (c *Client) SaveConfig(ctx context.Context, dest string, mods ...func(*Req)) (SaveRes, error) {
	defer c.Close() //nolint:errcheck // Release is guaranteed; close errors are logged by Close

	if dest == "" {
		return SaveRes{}, &DeviceError{
			Kind:    KindMissingParameter,
			Op:      "save configuration",
			Message: "destination path is required",
		}
	}

	res, err := c.GetConfig(ctx, mods...)
	if err != nil {
		return SaveRes{}, err
	}

	req := newReq(mods...)
	content := res.Render()
	if req.Format != FormatXML {
		content = scrubNonASCII(content)
	}

	save, err := compareAndWrite(dest, content, req.DryRun)
	if err != nil {
		return SaveRes{}, err
	}

	if save.Changed && req.ReportDiff {
		save.Diff = &Diff{
			Before:      save.before,
			After:       content,
			BeforeLabel: dest,
			AfterLabel:  c.Host,
		}
	}

	c.logger.Info("configuration saved",
		"host", c.Host,
		"dest", dest,
		"changed", save.Changed,
		"dry_run", req.DryRun)

	return save, nil
}

// exec issues one RPC on the established session, bounded by the request
// timeout when one is set. The underlying transport has no deadline
// support, so a timed-out call is abandoned; the pending read is torn down
// when the session closes.
func (c *Client) exec(ctx context.Context, timeout time.Duration, method netconf.RPCMethod) (*netconf.RPCReply, error) {
	c.mu.Lock()
	s := c.session
	c.mu.Unlock()
	if s == nil {
		return nil, fmt.Errorf("session not established")
	}

	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	type result struct {
		reply *netconf.RPCReply
		err   error
	}
	done := make(chan result, 1)
	go func() {
		reply, err := s.Exec(method)
		done <- result{reply, err}
	}()

	select {
	case r := <-done:
		return r.reply, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// rpcErrorDetails extracts error-severity rpc-error elements from a reply
func rpcErrorDetails(reply *netconf.RPCReply) []RPCErrorDetail {
	if reply == nil || len(reply.Errors) == 0 {
		return nil
	}
	details := make([]RPCErrorDetail, 0, len(reply.Errors))
	for _, e := range reply.Errors {
		if e.Severity != "" && e.Severity != "error" {
			continue
		}
		details = append(details, RPCErrorDetail{
			Severity: e.Severity,
			Tag:      e.Tag,
			Message:  e.Message,
		})
	}
	return details
}

// checkContextCancellation returns the context error, if any, before work
// is started on its behalf.
func checkContextCancellation(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
