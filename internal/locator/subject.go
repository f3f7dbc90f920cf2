package locator

import (
	"mime"
	"strings"

	"github.com/emersion/go-message"
	_ "github.com/emersion/go-message/charset"
)

// noSubject is substituted when the Subject header is absent or blank.
const noSubject = "No Subject"

// decodeSubject decodes RFC 2047 encoded words in the Subject header.
// Decoding never fails past this point: an unknown or broken encoding
// degrades to the raw header text.
func decodeSubject(h message.Header) string {
	raw := strings.TrimSpace(h.Get("Subject"))
	if raw == "" {
		return noSubject
	}

	dec := mime.WordDecoder{CharsetReader: message.CharsetReader}
	decoded, err := dec.DecodeHeader(raw)
	if err != nil || strings.TrimSpace(decoded) == "" {
		return raw
	}
	return decoded
}
