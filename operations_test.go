// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package junos

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Juniper/go-netconf/netconf"
	"github.com/stretchr/testify/require"
)

// fakeSession implements the session interface and records the RPC
// payloads it receives
type fakeSession struct {
	payloads []string
	reply    *netconf.RPCReply
	err      error
	delay    time.Duration
	closed   int
}

func (f *fakeSession) Exec(methods ...netconf.RPCMethod) (*netconf.RPCReply, error) {
	for _, m := range methods {
		f.payloads = append(f.payloads, m.MarshalMethod())
	}
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	return f.reply, f.err
}

func (f *fakeSession) Close() error {
	f.closed++
	return nil
}

// newTestClient returns a client whose dial hook yields the fake session
func newTestClient(t *testing.T, fs *fakeSession) *Client {
	t.Helper()
	client, err := NewClient("router1.example.com",
		Username("admin"),
		Password("secret"))
	require.NoError(t, err)
	client.dial = func(*Client) (session, error) { return fs, nil }
	return client
}

func textReply(body string) *netconf.RPCReply {
	return &netconf.RPCReply{
		Data: "<configuration-information><configuration-text>" + body + "</configuration-text></configuration-information>",
	}
}

func xmlReply(body string) *netconf.RPCReply {
	return &netconf.RPCReply{Data: body}
}

const sampleText = "system {\n    host-name router1;\n}\n"

const sampleXML = "<configuration><interfaces><interface><name>ge-0/0/0</name></interface></interfaces></configuration>"

func TestGetConfigText(t *testing.T) {
	fs := &fakeSession{reply: textReply(sampleText)}
	client := newTestClient(t, fs)

	res, err := client.GetConfig(context.Background())
	require.NoError(t, err)
	require.Equal(t, FormatText, res.Format)
	require.Contains(t, res.Text(), "host-name router1;")
	require.Empty(t, res.XMLString())
	require.Equal(t, res.Text(), res.Render())

	require.Len(t, fs.payloads, 1)
	require.Contains(t, fs.payloads[0], `format="text"`)
	require.NotContains(t, fs.payloads[0], "<configuration>")
}

func TestGetConfigXMLWithFilter(t *testing.T) {
	fs := &fakeSession{reply: xmlReply(sampleXML)}
	client := newTestClient(t, fs)

	res, err := client.GetConfig(context.Background(),
		Format(FormatXML),
		Filter("interfaces"))
	require.NoError(t, err)
	require.Equal(t, FormatXML, res.Format)
	require.Contains(t, res.XMLString(), "<interfaces>")
	require.Contains(t, res.XMLString(), "ge-0/0/0")
	require.Empty(t, res.Text())

	// The request carried the subtree filter
	require.Len(t, fs.payloads, 1)
	require.Contains(t, fs.payloads[0], "<configuration><interfaces/></configuration>")
	require.Contains(t, fs.payloads[0], `format="xml"`)
}

func TestGetConfigOptionsMergedIntoRequest(t *testing.T) {
	fs := &fakeSession{reply: textReply(sampleText)}
	client := newTestClient(t, fs)

	_, err := client.GetConfig(context.Background(),
		Option("database", "committed"))
	require.NoError(t, err)

	require.Len(t, fs.payloads, 1)
	require.Contains(t, fs.payloads[0], `database="committed"`)
	require.Contains(t, fs.payloads[0], `format="text"`)
}

func TestGetConfigInvalidFormat(t *testing.T) {
	dialed := false
	client, err := NewClient("router1", Username("admin"), Password("secret"))
	require.NoError(t, err)
	client.dial = func(*Client) (session, error) {
		dialed = true
		return nil, fmt.Errorf("unreachable")
	}

	_, err = client.GetConfig(context.Background(), Format("json"))
	require.Error(t, err)
	require.True(t, IsMissingParameter(err))
	require.False(t, dialed, "validation must happen before any network activity")
}

func TestGetConfigConnectionFailure(t *testing.T) {
	client, err := NewClient("badhost.example.com", Username("admin"), Password("secret"))
	require.NoError(t, err)
	client.dial = func(*Client) (session, error) {
		return nil, fmt.Errorf("dial tcp: no route to host")
	}

	_, err = client.GetConfig(context.Background())
	require.Error(t, err)
	require.True(t, IsConnectionError(err))
	require.Contains(t, err.Error(), "badhost.example.com")
	require.Contains(t, err.Error(), "830")
}

func TestGetConfigRPCRejection(t *testing.T) {
	fs := &fakeSession{
		reply: &netconf.RPCReply{
			Errors: []netconf.RPCError{
				{Severity: "error", Tag: "operation-failed", Message: "syntax error"},
			},
		},
	}
	client := newTestClient(t, fs)

	_, err := client.GetConfig(context.Background(), Filter("bogus segment"))
	require.Error(t, err)
	require.True(t, IsRPCError(err))
	require.Contains(t, err.Error(), "syntax error")
}

func TestGetConfigExecFailure(t *testing.T) {
	fs := &fakeSession{err: fmt.Errorf("session dropped")}
	client := newTestClient(t, fs)

	_, err := client.GetConfig(context.Background())
	require.Error(t, err)
	require.True(t, IsRPCError(err))
}

func TestGetConfigTimeout(t *testing.T) {
	fs := &fakeSession{reply: textReply(sampleText), delay: 200 * time.Millisecond}
	client := newTestClient(t, fs)

	_, err := client.GetConfig(context.Background(), Timeout(10*time.Millisecond))
	require.Error(t, err)
	require.True(t, IsRPCError(err))
	require.Contains(t, err.Error(), "deadline")
}

func TestGetConfigCancelledContext(t *testing.T) {
	fs := &fakeSession{reply: textReply(sampleText)}
	client := newTestClient(t, fs)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.GetConfig(ctx)
	require.Error(t, err)
	require.Empty(t, fs.payloads, "no RPC may be issued on a cancelled context")
}

func TestSaveConfigCreatesFile(t *testing.T) {
	fs := &fakeSession{reply: textReply(sampleText)}
	client := newTestClient(t, fs)
	dest := filepath.Join(t.TempDir(), "router.conf")

	res, err := client.SaveConfig(context.Background(), dest)
	require.NoError(t, err)
	require.True(t, res.Changed)
	require.Nil(t, res.Diff, "diff payload requires WithDiff")

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, sampleText, string(data))

	require.Equal(t, 1, fs.closed, "session must be closed exactly once")
}

func TestSaveConfigUnchanged(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "router.xml")

	// First save populates the destination file
	fs := &fakeSession{reply: xmlReply(sampleXML)}
	client := newTestClient(t, fs)
	res, err := client.SaveConfig(context.Background(), dest, Format(FormatXML))
	require.NoError(t, err)
	require.True(t, res.Changed)

	before, err := os.Stat(dest)
	require.NoError(t, err)

	// Second save fetches identical content
	fs2 := &fakeSession{reply: xmlReply(sampleXML)}
	client2 := newTestClient(t, fs2)
	res, err = client2.SaveConfig(context.Background(), dest, Format(FormatXML), WithDiff(true))
	require.NoError(t, err)
	require.False(t, res.Changed)
	require.Nil(t, res.Diff, "unchanged saves carry no diff payload")

	after, err := os.Stat(dest)
	require.NoError(t, err)
	require.Equal(t, before.ModTime(), after.ModTime(), "unchanged file must not be touched")
	require.Equal(t, 1, fs2.closed)
}

func TestSaveConfigDryRun(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "router.conf")
	require.NoError(t, os.WriteFile(dest, []byte("old content\n"), 0o644))

	fs := &fakeSession{reply: textReply(sampleText)}
	client := newTestClient(t, fs)

	res, err := client.SaveConfig(context.Background(), dest,
		DryRun(true),
		WithDiff(true))
	require.NoError(t, err)
	require.True(t, res.Changed)

	require.NotNil(t, res.Diff)
	require.Equal(t, "old content\n", res.Diff.Before)
	require.Equal(t, sampleText, res.Diff.After)
	require.Equal(t, dest, res.Diff.BeforeLabel)
	require.Equal(t, "router1.example.com", res.Diff.AfterLabel)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Equal(t, "old content\n", string(data), "dry-run must not modify the destination file")
}

func TestSaveConfigScrubsNonASCIIText(t *testing.T) {
	fs := &fakeSession{reply: textReply("description café;\n")}
	client := newTestClient(t, fs)
	dest := filepath.Join(t.TempDir(), "router.conf")

	res, err := client.SaveConfig(context.Background(), dest)
	require.NoError(t, err)
	require.True(t, res.Changed)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	require.Contains(t, string(data), "caf??;")
	require.NotContains(t, string(data), "é")
}

func TestSaveConfigMissingDest(t *testing.T) {
	dialed := false
	client, err := NewClient("router1", Username("admin"), Password("secret"))
	require.NoError(t, err)
	client.dial = func(*Client) (session, error) {
		dialed = true
		return nil, fmt.Errorf("unreachable")
	}

	_, err = client.SaveConfig(context.Background(), "")
	require.Error(t, err)
	require.True(t, IsMissingParameter(err))
	require.False(t, dialed, "dest validation must happen before any network activity")
}

func TestSaveConfigConnectionFailure(t *testing.T) {
	client, err := NewClient("badhost.example.com", Username("admin"), Password("secret"))
	require.NoError(t, err)
	client.dial = func(*Client) (session, error) {
		return nil, fmt.Errorf("dial tcp: connection refused")
	}
	dest := filepath.Join(t.TempDir(), "router.conf")

	res, err := client.SaveConfig(context.Background(), dest)
	require.Error(t, err)
	require.True(t, IsConnectionError(err))
	require.Contains(t, err.Error(), "badhost.example.com")
	require.Contains(t, err.Error(), "830")
	require.False(t, res.Changed, "no partial result on connection failure")

	_, err = os.Stat(dest)
	require.True(t, os.IsNotExist(err), "no file may be written on connection failure")
}

func TestSaveConfigClosesSessionOnRPCError(t *testing.T) {
	fs := &fakeSession{err: fmt.Errorf("session dropped")}
	client := newTestClient(t, fs)
	dest := filepath.Join(t.TempDir(), "router.conf")

	_, err := client.SaveConfig(context.Background(), dest)
	require.Error(t, err)
	require.True(t, IsRPCError(err))
	require.Equal(t, 1, fs.closed, "session must be closed on the failure path")
}

func TestParseConfigResMissingElement(t *testing.T) {
	reply := &netconf.RPCReply{Data: "<ok/>"}

	_, err := parseConfigRes(reply, FormatText)
	require.Error(t, err)
	kind, ok := KindOf(err)
	require.True(t, ok)
	require.Equal(t, KindUnexpected, kind)

	_, err = parseConfigRes(reply, FormatXML)
	require.Error(t, err)
}

func TestParseConfigResXMLRoundTrip(t *testing.T) {
	reply := xmlReply(sampleXML)

	res, err := parseConfigRes(reply, FormatXML)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(res.XMLString(), "<configuration>"))
	require.Contains(t, res.XMLString(), "</configuration>")
}
