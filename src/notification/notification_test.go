package notification

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAppleScriptQuote(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", `"plain"`},
		{`say "hi"`, `"say \"hi\""`},
		{`C:\path`, `"C:\\path"`},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, appleScriptQuote(tt.in))
		})
	}
}

func TestDialogScript(t *testing.T) {
	got := dialogScript("Already running", `Port "49600" is busy`)
	require.Equal(t,
		`display dialog "Port \"49600\" is busy" with title "Already running" buttons {"OK"} default button "OK" with icon stop`,
		got)
}
