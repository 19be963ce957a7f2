// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package junos

import (
	"github.com/Juniper/go-netconf/netconf"
	"github.com/beevik/etree"
)

// ConfigRes represents a retrieved device configuration
//
// Exactly one rendering is produced per retrieval, selected by the request
// format: curly-brace text (FormatText) or a serialized XML document
// (FormatXML). The raw rpc-reply body is retained for diagnostics.
type ConfigRes struct {
	// Format is the rendering that was requested (text or xml)
	Format string

	// Raw is the unparsed rpc-reply body
	Raw string

	text string
	xml  string
}

// Text returns the curly-brace rendering of the configuration.
// Empty unless the retrieval was made with FormatText.
func (r ConfigRes) Text() string {
	return r.text
}

// XMLString returns the serialized XML rendering of the configuration
// subtree. Empty unless the retrieval was made with FormatXML.
func (r ConfigRes) XMLString() string {
	return r.xml
}

// Render returns the rendering selected by the request format
func (r ConfigRes) Render() string {
	if r.Format == FormatXML {
		return r.xml
	}
	return r.text
}

// parseConfigRes extracts the requested rendering from a NETCONF reply.
//
// Junos returns the text rendering inside <configuration-text> and the XML
// rendering inside <configuration>. The reply body is an XML fragment, so
// it is wrapped in a synthetic root before parsing.
func parseConfigRes(reply *netconf.RPCReply, format string) (ConfigRes, error) {
	res := ConfigRes{
		Format: format,
		Raw:    reply.Data,
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString("<output>" + reply.Data + "</output>"); err != nil {
		return res, &DeviceError{
			Kind:    KindUnexpected,
			Op:      "get configuration",
			Message: "unable to parse rpc-reply body",
			Err:     err,
		}
	}

	switch format {
	case FormatXML:
		el := doc.FindElement("//configuration")
		if el == nil {
			return res, &DeviceError{
				Kind:    KindUnexpected,
				Op:      "get configuration",
				Message: "reply contains no configuration element",
			}
		}
		out := etree.NewDocument()
		out.SetRoot(el.Copy())
		s, err := out.WriteToString()
		if err != nil {
			return res, &DeviceError{
				Kind:    KindUnexpected,
				Op:      "get configuration",
				Message: "unable to serialize configuration element",
				Err:     err,
			}
		}
		res.xml = s
	default:
		el := doc.FindElement("//configuration-text")
		if el == nil {
			return res, &DeviceError{
				Kind:    KindUnexpected,
				Op:      "get configuration",
				Message: "reply contains no configuration-text element",
			}
		}
		res.text = el.Text()
	}

	return res, nil
}
