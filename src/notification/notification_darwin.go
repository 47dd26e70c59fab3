//go:build darwin

package notification

import (
	"log"
	"os/exec"
)

// ShowBlockingError shows a modal dialog and waits for the user to dismiss it.
func ShowBlockingError(title, message string) {
	log.Printf("%s: %s", title, message)
	if out, err := exec.Command("/usr/bin/osascript", "-e", dialogScript(title, message)).CombinedOutput(); err != nil {
		log.Printf("Failed to show error dialog: %v: %s", err, out)
	}
}
