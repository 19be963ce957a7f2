// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package junos

import (
	"strings"

	"github.com/beevik/etree"
)

// BuildFilter converts a slash-delimited path into a nested filter element
// restricting a get-configuration request to a configuration subtree.
//
// The result is always rooted at "configuration". If the first path segment
// already names "configuration" it is consumed as the root and not
// duplicated. Each remaining segment descends one level, producing a
// single-branch hierarchy:
//
//	BuildFilter("interfaces")
//	    → <configuration><interfaces/></configuration>
//	BuildFilter("configuration/system/services")
//	    → <configuration><system><services/></system></configuration>
//
// An empty or all-slash path means "no filter" and returns nil. Segment
// names are used verbatim as element tags; no escaping or validation is
// performed, so a non-conforming segment surfaces as an rpc-error from the
// device rather than a local failure.
func BuildFilter(path string) *etree.Element {
	if strings.TrimSpace(path) == "" {
		return nil
	}

	segments := make([]string, 0, 4)
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return nil
	}

	root := etree.NewElement("configuration")
	if segments[0] == "configuration" {
		segments = segments[1:]
	}

	current := root
	for _, segment := range segments {
		current = current.CreateElement(segment)
	}
	return root
}
