//go:build !embed

package frontend

import "net/http"

// Handler returns nil unless the binary is built with -tags embed.
func Handler() http.Handler {
	return nil
}
