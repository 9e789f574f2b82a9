// Package offer renders raw offer transactions as portable text blocks that
// survive email, chat, and forum posts, and parses them back.
package offer

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

// Markers delimiting an offer block.
const (
	BeginMarker = "----- BEGIN NAMETRADE OFFER -----"
	EndMarker   = "----- END NAMETRADE OFFER -----"
)

// LineWidth is the number of base64 characters per body line.
const LineWidth = 64

const descriptionPrefix = "# Description "

// ErrMalformedOffer is returned when text does not contain a well-formed
// offer block.
var ErrMalformedOffer = errors.New("malformed offer")

// Encode wraps rawTx in an offer block. When description is non-empty it is
// written as a comment header followed by a blank line.
func Encode(rawTx []byte, description string) string {
	var b strings.Builder
	b.WriteString(BeginMarker)
	b.WriteByte('\n')

	// Keep the header on one line.
	description = strings.Join(strings.Fields(description), " ")
	if description != "" {
		b.WriteString(descriptionPrefix)
		b.WriteString(description)
		b.WriteString("\n\n")
	}

	body := base64.StdEncoding.EncodeToString(rawTx)
	for i := 0; i < len(body); i += LineWidth {
		end := min(i+LineWidth, len(body))
		b.WriteString(body[i:end])
		b.WriteByte('\n')
	}

	b.WriteString(EndMarker)
	b.WriteByte('\n')
	return b.String()
}

// Decode extracts the raw transaction from the first offer block in text.
// Anything before the begin marker or after the end marker is ignored.
func Decode(text string) ([]byte, error) {
	lines, err := blockLines(text)
	if err != nil {
		return nil, err
	}

	var body strings.Builder
	for _, line := range lines {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		body.WriteString(line)
	}
	if body.Len() == 0 {
		return []byte{}, nil
	}

	raw, err := base64.StdEncoding.Strict().DecodeString(body.String())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOffer, err)
	}
	return raw, nil
}

// Description returns the description header of the first offer block in
// text, or "" if there is none.
func Description(text string) string {
	lines, err := blockLines(text)
	if err != nil {
		return ""
	}
	for _, line := range lines {
		if strings.HasPrefix(line, descriptionPrefix) {
			return strings.TrimPrefix(line, descriptionPrefix)
		}
	}
	return ""
}

// blockLines returns the trimmed lines between the begin and end markers.
func blockLines(text string) ([]string, error) {
	all := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	begin := -1
	for i, line := range all {
		line = strings.TrimSpace(line)
		switch line {
		case BeginMarker:
			if begin >= 0 {
				return nil, fmt.Errorf("%w: nested begin marker on line %d", ErrMalformedOffer, i+1)
			}
			begin = i
		case EndMarker:
			if begin < 0 {
				return nil, fmt.Errorf("%w: end marker before begin marker", ErrMalformedOffer)
			}
			lines := make([]string, 0, i-begin-1)
			for _, l := range all[begin+1 : i] {
				lines = append(lines, strings.TrimSpace(l))
			}
			return lines, nil
		}
	}
	if begin < 0 {
		return nil, fmt.Errorf("%w: missing begin marker", ErrMalformedOffer)
	}
	return nil, fmt.Errorf("%w: missing end marker", ErrMalformedOffer)
}
