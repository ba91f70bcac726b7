package tokenstore

import "fmt"

// FormatPushToken renders raw device push-registration bytes into the
// lowercase-hex string the backend expects as token_notification.
func FormatPushToken(raw []byte) string {
	out := make([]byte, 0, len(raw)*2)
	for _, b := range raw {
		out = fmt.Appendf(out, "%02x", b)
	}
	return string(out)
}
