//go:build darwin

package hotkey

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDarwinKeycodes(t *testing.T) {
	require.Equal(t, []uint16{55, 54}, keyNameToRawcodes("cmd"))
	require.Equal(t, []uint16{7}, keyNameToRawcodes("x"))
	require.Equal(t, []uint16{53}, keyNameToRawcodes("esc"))
}
