// Package notification shows blocking startup errors outside the Fyne UI,
// which may not be running yet when they happen.
package notification

import (
	"strings"
)

// appleScriptQuote renders s as an AppleScript string literal.
func appleScriptQuote(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return `"` + r.Replace(s) + `"`
}

func dialogScript(title, message string) string {
	return "display dialog " + appleScriptQuote(message) +
		" with title " + appleScriptQuote(title) +
		` buttons {"OK"} default button "OK" with icon stop`
}
