// SPDX-License-Identifier: MPL-2.0
// Copyright (c) 2025 Daniel Schmidt

package junos

import "fmt"

// Output format constants for configuration retrieval
const (
	// FormatText renders the configuration in curly-brace text form (default)
	FormatText = "text"

	// FormatXML renders the configuration as an XML document
	FormatXML = "xml"
)

// ValidFormats contains the list of valid format values
var ValidFormats = []string{
	FormatText,
	FormatXML,
}

// ValidateFormat checks if the format is valid
//
// Returns an error if the format is not one of the supported values.
//
// Example:
//
//	if err := junos.ValidateFormat("xml"); err != nil {
//	    log.Fatal(err)
//	}
func ValidateFormat(format string) error {
	for _, valid := range ValidFormats {
		if format == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid format: %s (valid values: text, xml)", format)
}
