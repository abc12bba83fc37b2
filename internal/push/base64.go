package push

import (
	"encoding/base64"
	"strings"
)

var urlToStd = strings.NewReplacer("-", "+", "_", "/")

// DecodeBase64URL decodes URL-safe base64 with or without padding: it pads
// to a multiple of four with '=', maps '-' to '+' and '_' to '/', then
// decodes as standard base64.
func DecodeBase64URL(s string) ([]byte, error) {
	if rem := len(s) % 4; rem != 0 {
		s += strings.Repeat("=", 4-rem)
	}
	return base64.StdEncoding.DecodeString(urlToStd.Replace(s))
}

// EncodeBase64URL encodes b as unpadded URL-safe base64, the form push
// services use for key material.
func EncodeBase64URL(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}
