// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package junos

import (
	"sort"
	"time"

	"github.com/beevik/etree"
)

// Req carries the modifiers of a single configuration retrieval
//
// The zero value is completed by newReq with the documented defaults
// (format "text", empty options). Format and Options are kept as two
// distinct fields: Format selects the local rendering while Options are
// opaque RPC attributes, and the two are merged only when the RPC payload
// is rendered. On a key collision Format wins.
//
// Example:
//
//	res, err := client.GetConfig(ctx,
//	    junos.Format(junos.FormatXML),
//	    junos.Filter("interfaces"),
//	    junos.Timeout(30*time.Second))
type Req struct {
	// Format selects the configuration rendering
	// Valid values: text (default), xml
	Format string

	// Options holds extra get-configuration attributes (e.g. database,
	// inherit) passed through to the device unvalidated
	Options map[string]string

	// Filter is a slash-delimited subtree path, empty meaning no filter
	Filter string

	// Timeout is the per-request bound for the RPC
	// Zero means no override; the transport default applies
	Timeout time.Duration

	// DryRun suppresses the destination file write in SaveConfig
	DryRun bool

	// ReportDiff includes a diff payload in SaveConfig results
	ReportDiff bool
}

// newReq builds a Req with defaults and applies the given modifiers
func newReq(mods ...func(*Req)) Req {
	req := Req{
		Format:  FormatText,
		Options: map[string]string{},
	}
	for _, mod := range mods {
		mod(&req)
	}
	return req
}

// rpcString renders the get-configuration RPC payload.
//
// Options are rendered as attributes in sorted key order so the payload is
// deterministic; the format attribute is set last so it always reflects
// Req.Format. The filter tree, when present, is the single child element.
func (r Req) rpcString() (string, error) {
	doc := etree.NewDocument()
	rpc := doc.CreateElement("get-configuration")

	keys := make([]string, 0, len(r.Options))
	for k := range r.Options {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		rpc.CreateAttr(k, r.Options[k])
	}
	rpc.CreateAttr("format", r.Format)

	if filter := BuildFilter(r.Filter); filter != nil {
		rpc.AddChild(filter)
	}

	return doc.WriteToString()
}
