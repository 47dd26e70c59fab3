//go:build !darwin && !windows

package notification

import "log"

// ShowBlockingError logs the error; there is no portable blocking dialog here.
func ShowBlockingError(title, message string) {
	log.Printf("%s: %s", title, message)
}
