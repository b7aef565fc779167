package extract

import (
	"golang.org/x/net/html/charset"
	"golang.org/x/text/transform"
)

// Decode converts a response body to UTF-8 text.
// The encoding is taken from the Content-Type header, a byte order mark
// or a <meta> charset declaration, falling back to windows-1252 like a
// browser does. Bytes that cannot be decoded are returned unchanged.
func Decode(body []byte, contentType string) string {
	enc, name, _ := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" {
		return string(body)
	}
	decoded, _, err := transform.Bytes(enc.NewDecoder(), body)
	if err != nil {
		return string(body)
	}
	return string(decoded)
}
