// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

// Package junos provides a simple API for retrieving and backing up the
// configuration of Junos network devices over NETCONF.
//
// The library wraps a NETCONF-over-SSH session and exposes a single
// configuration-retrieval operation plus a save operation that compares the
// fetched configuration against a local file and rewrites it only when the
// content changed.
//
// # Quick Start
//
// Create a client and fetch the running configuration:
//
//	client, err := junos.NewClient(
//	    "192.168.1.1",
//	    junos.Username("admin"),
//	    junos.Password("secret"),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	ctx := context.Background()
//	res, err := client.GetConfig(ctx, junos.Format(junos.FormatText))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(res.Text())
//
// # Subtree Filters
//
// A slash-delimited path restricts the retrieval to a configuration
// subtree. The path is converted into a nested filter element rooted at
// "configuration":
//
//	// Requests <configuration><interfaces/></configuration>
//	res, err := client.GetConfig(ctx,
//	    junos.Format(junos.FormatXML),
//	    junos.Filter("interfaces"))
//
// # Saving to a File
//
// SaveConfig fetches the configuration, compares it byte-for-byte against
// the destination file (a missing file counts as empty prior content) and
// overwrites the file only when the content changed. The session is closed
// on every exit path.
//
//	res, err := client.SaveConfig(ctx, "/var/backups/router1.conf",
//	    junos.Filter("interfaces"),
//	    junos.WithDiff(true))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if res.Changed {
//	    fmt.Println(res.Diff.Unified())
//	}
//
// Dry-run mode performs everything up to and including the diff but never
// touches the destination file:
//
//	res, err := client.SaveConfig(ctx, dest, junos.DryRun(true))
//
// # Error Handling
//
// All failures are reported as *DeviceError values with a closed kind
// enumeration: KindMissingParameter (local validation), KindConnection
// (session establishment), KindRPC (protocol-level rejection, including
// malformed filters) and KindUnexpected (everything else). There is no
// retry logic; a failed attempt is reported immediately and retry policy
// is left to the orchestrator.
//
// # References
//
//   - NETCONF: https://datatracker.ietf.org/doc/html/rfc6241
//   - go-netconf: https://github.com/Juniper/go-netconf
//   - etree: https://github.com/beevik/etree
package junos
