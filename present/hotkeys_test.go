package present

import (
	"testing"

	"github.com/aedm/bitang/common"
	"github.com/stretchr/testify/assert"
)

func TestDecodeHotkey(t *testing.T) {
	cases := []struct {
		name     string
		key      uint32
		ctrl     bool
		expected HotkeyAction
	}{
		{"ctrl+s saves", common.KeyS, true, HotkeySaveParameters},
		{"plain s is unbound", common.KeyS, false, HotkeyNone},
		{"f toggles fullscreen", common.KeyF, false, HotkeyToggleFullscreen},
		{"r resets simulation", common.KeyR, false, HotkeyResetSimulation},
		{"space toggles play", common.KeySpace, false, HotkeyTogglePlay},
		{"esc stops", common.KeyEsc, false, HotkeyStop},
		{"unbound key", common.Key0, false, HotkeyNone},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.expected, DecodeHotkey(c.key, c.ctrl))
		})
	}
}
