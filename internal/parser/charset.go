package parser

import (
	"fmt"
	"io"
	"mime"
	"strings"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// NewUTF8Reader converts a JSON response body to UTF-8. A byte order mark wins,
// then the charset declared in contentType. Without either the body is UTF-8.
func NewUTF8Reader(body io.Reader, contentType string) (io.Reader, error) {
	fallback := encoding.Nop

	if label := declaredCharset(contentType); label != "" {
		enc, name := charset.Lookup(label)
		if enc == nil {
			return nil, fmt.Errorf("unsupported charset %q", label)
		}
		if name != "utf-8" {
			fallback = enc
		}
	}

	return transform.NewReader(body, unicode.BOMOverride(fallback.NewDecoder())), nil
}

func declaredCharset(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(params["charset"])
}
