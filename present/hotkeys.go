package present

import "github.com/aedm/bitang/common"

// HotkeyAction is one of the engine-side hotkeys named in the original
// Rust tool's vulkan_window.rs: save the current control values, toggle
// fullscreen, reset the simulation cursor, toggle simulation advancement,
// toggle play/pause, or stop the process.
type HotkeyAction int

const (
	HotkeyNone HotkeyAction = iota
	HotkeySaveParameters
	HotkeyToggleFullscreen
	HotkeyResetSimulation
	HotkeyToggleSimulation
	HotkeyTogglePlay
	HotkeyStop
)

// DecodeHotkey maps a raw key code (and whether Control was held) to the
// HotkeyAction it triggers, or HotkeyNone if the key has no binding.
func DecodeHotkey(keyCode uint32, ctrl bool) HotkeyAction {
	switch keyCode {
	case common.KeyS:
		if ctrl {
			return HotkeySaveParameters
		}
	case common.KeyF:
		return HotkeyToggleFullscreen
	case common.KeyR:
		return HotkeyResetSimulation
	case common.KeyG:
		return HotkeyToggleSimulation
	case common.KeySpace:
		return HotkeyTogglePlay
	case common.KeyEsc:
		return HotkeyStop
	}
	return HotkeyNone
}
