// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package junos

import (
	"os"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// nonASCIIPlaceholder replaces every character outside the 7-bit ASCII
// range in text renderings before comparison and storage. Device output is
// not guaranteed to be clean ASCII and must neither fail nor mis-encode.
const nonASCIIPlaceholder = "??"

// Diff is the before/after payload of a changed save
type Diff struct {
	// Before is the prior destination file content
	Before string

	// After is the freshly fetched content
	After string

	// BeforeLabel names the before side (typically the destination path)
	BeforeLabel string

	// AfterLabel names the after side (typically the device host)
	AfterLabel string
}

// Unified renders the payload as a unified diff.
// Returns an empty string if rendering fails.
func (d Diff) Unified() string {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(d.Before),
		B:        difflib.SplitLines(d.After),
		FromFile: d.BeforeLabel,
		ToFile:   d.AfterLabel,
		Context:  3,
	})
	if err != nil {
		return ""
	}
	return text
}

// SaveRes represents the outcome of a SaveConfig invocation
type SaveRes struct {
	// Changed reports whether the fetched content differs byte-for-byte
	// from the prior destination file content
	Changed bool

	// Diff is the before/after payload, present only when the content
	// changed and diff reporting was requested
	Diff *Diff

	// before holds the prior content for diff assembly
	before string
}

// compareAndWrite compares content against the current bytes of dest and
// conditionally rewrites the file.
//
// A missing destination file counts as empty prior content, not an error.
// The comparison is exact: no whitespace or line-ending normalization.
// When the content changed and dry-run is not requested, the file is fully
// replaced (truncate-then-write). An unchanged file is never opened for
// writing, regardless of dry-run.
func compareAndWrite(dest, content string, dryRun bool) (SaveRes, error) {
	prior := ""
	data, err := os.ReadFile(dest)
	switch {
	case err == nil:
		prior = string(data)
	case os.IsNotExist(err):
		// first save, empty prior content
	default:
		return SaveRes{}, &DeviceError{
			Kind:    KindUnexpected,
			Op:      "save configuration",
			Message: "unable to read destination file",
			Err:     err,
		}
	}

	res := SaveRes{
		Changed: content != prior,
		before:  prior,
	}
	if !res.Changed || dryRun {
		return res, nil
	}

	if err := os.WriteFile(dest, []byte(content), 0o644); err != nil {
		return SaveRes{}, &DeviceError{
			Kind:    KindUnexpected,
			Op:      "save configuration",
			Message: "unable to write destination file",
			Err:     err,
		}
	}
	return res, nil
}

// scrubNonASCII replaces every rune outside the 7-bit ASCII range with the
// fixed placeholder.
func scrubNonASCII(s string) string {
	ascii := true
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			ascii = false
			break
		}
	}
	if ascii {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x80 {
			b.WriteRune(r)
		} else {
			b.WriteString(nonASCIIPlaceholder)
		}
	}
	return b.String()
}
