// Package pairing builds the ws://host:port/ws?token=... pairing URL a
// companion client connects with, and renders it as a QR code so the
// `pair` subcommand can display something a phone camera can scan.
package pairing

import (
	"encoding/base64"
	"fmt"
	"net/url"

	"github.com/skip2/go-qrcode"
)

// DefaultSize is the PNG edge length, in pixels, used when size is 0 or
// negative.
const DefaultSize = 256

// URL builds the pairing URL a companion client dials to reach the
// WebSocket endpoint, embedding the bearer token as a query parameter.
func URL(host string, port int, token string) string {
	u := url.URL{
		Scheme: "ws",
		Host:   fmt.Sprintf("%s:%d", host, port),
		Path:   "/ws",
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String()
}

// Generate renders content as a PNG QR code at size pixels (DefaultSize if
// size <= 0), using medium error correction.
func Generate(content string, size int) ([]byte, error) {
	if size <= 0 {
		size = DefaultSize
	}
	png, err := qrcode.Encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("pairing: generate qr code: %w", err)
	}
	return png, nil
}

// GenerateBase64Image renders content as a QR code and returns it as a
// "data:image/png;base64,..." URI suitable for embedding in the status
// dashboard.
func GenerateBase64Image(content string, size int) (string, error) {
	png, err := Generate(content, size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
