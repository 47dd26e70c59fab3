package hotkey

import (
	"log"
	"strings"
	"sync"

	"github.com/go-faster/errors"
	gohook "github.com/robotn/gohook"
)

// ErrInvalidCombo is returned for combinations that name unknown keys.
var ErrInvalidCombo = errors.New("invalid hotkey combination")

// Listen registers a global hotkey and calls callback each time the whole
// combination becomes held. The callback runs on the hook goroutine and must
// not block. The returned stop function ends the hook; it is safe to call twice.
func Listen(combo string, callback func()) (func(), error) {
	m, err := newMatcher(combo)
	if err != nil {
		return nil, err
	}
	log.Printf("Hotkey listener configured for: %s", combo)

	evChan := gohook.Start()
	if evChan == nil {
		return nil, errors.New("gohook.Start() returned nil channel")
	}

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("PANIC in hotkey goroutine: %v", r)
			}
		}()

		for ev := range evChan {
			switch ev.Kind {
			// gohook reports physical presses as KeyHold and typed characters as KeyDown.
			case gohook.KeyDown, gohook.KeyHold:
				if m.keyDown(ev.Rawcode) {
					log.Printf("HOTKEY COMBINATION DETECTED! %s", combo)
					if callback != nil {
						callback()
					}
				}
			case gohook.KeyUp:
				m.keyUp(ev.Rawcode)
			}
		}
		log.Printf("Hotkey event channel closed")
	}()

	var once sync.Once
	return func() { once.Do(gohook.End) }, nil
}

type keyState struct {
	name     string
	rawcodes []uint16
	pressed  bool
}

// matcher tracks which keys of one combination are held.
type matcher struct {
	mu   sync.Mutex
	keys []keyState
}

func newMatcher(combo string) (*matcher, error) {
	names := parseHotkey(combo)
	if len(names) == 0 {
		return nil, errors.Wrapf(ErrInvalidCombo, "%q is empty", combo)
	}

	m := &matcher{}
	for _, name := range names {
		rawcodes := keyNameToRawcodes(name)
		if len(rawcodes) == 0 {
			return nil, errors.Wrapf(ErrInvalidCombo, "unknown key %q in %q", name, combo)
		}
		m.keys = append(m.keys, keyState{name: name, rawcodes: rawcodes})
	}
	return m, nil
}

// keyDown records a press and reports whether it completed the combination.
// Repeated presses of a key that is already held never fire.
func (m *matcher) keyDown(raw uint16) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	changed := false
	for i := range m.keys {
		if !m.keys[i].matches(raw) || m.keys[i].pressed {
			continue
		}
		m.keys[i].pressed = true
		changed = true
	}
	if !changed {
		return false
	}
	for i := range m.keys {
		if !m.keys[i].pressed {
			return false
		}
	}
	return true
}

func (m *matcher) keyUp(raw uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.keys {
		if m.keys[i].matches(raw) {
			m.keys[i].pressed = false
		}
	}
}

func (k keyState) matches(raw uint16) bool {
	for _, rc := range k.rawcodes {
		if rc == raw {
			return true
		}
	}
	return false
}

// parseHotkey converts a hotkey string like "Cmd+Shift+X" to normalized key names
func parseHotkey(hotkeyConfig string) []string {
	var keys []string
	for _, part := range strings.Split(strings.ToLower(hotkeyConfig), "+") {
		part = strings.TrimSpace(part)
		switch part {
		case "":
			continue
		case "ctrl", "control":
			keys = append(keys, "ctrl")
		case "alt", "opt", "option":
			keys = append(keys, "alt")
		case "shift":
			keys = append(keys, "shift")
		case "win", "cmd", "command", "super":
			keys = append(keys, "cmd")
		default:
			keys = append(keys, part)
		}
	}
	return keys
}

// keyNameToRawcodes maps a normalized key name to the platform raw key codes
// reported by gohook, including left and right variants of modifiers.
func keyNameToRawcodes(keyName string) []uint16 {
	return rawcodes[strings.ToLower(strings.TrimSpace(keyName))]
}
