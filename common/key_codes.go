package common

// Key is a virtual key code. Values match GLFW key codes, which use ASCII values for printable keys.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
type Key uint32

const (
	KeyW     Key = 87  // W key (ASCII)
	KeyA     Key = 65  // A key (ASCII)
	KeyS     Key = 83  // S key (ASCII)
	KeyD     Key = 68  // D key (ASCII)
	KeyB     Key = 66  // B key (ASCII)
	KeyC     Key = 67  // C key (ASCII)
	KeyF     Key = 70  // F key (ASCII)
	KeyG     Key = 71  // G key (ASCII)
	KeyH     Key = 72  // H key (ASCII)
	KeyL     Key = 76  // L key (ASCII)
	KeyM     Key = 77  // M key (ASCII)
	KeyN     Key = 78  // N key (ASCII)
	KeyR     Key = 82  // R key (ASCII)
	KeyT     Key = 84  // T key (ASCII)
	KeySpace Key = 32  // Spacebar (ASCII)
	KeyEsc   Key = 256 // Escape key (GLFW)
	KeyEnter Key = 257 // Enter key (GLFW)

	KeyBackspace Key = 259 // Backspace key (GLFW)
	KeyRight     Key = 262 // Right arrow (GLFW)
	KeyLeft      Key = 263 // Left arrow (GLFW)
	KeyDown      Key = 264 // Down arrow (GLFW)
	KeyUp        Key = 265 // Up arrow (GLFW)
	KeyPageUp    Key = 266 // Page up (GLFW)
	KeyPageDown  Key = 267 // Page down (GLFW)

	Key1 Key = 49 // 1 key (ASCII)
	Key2 Key = 50 // 2 key (ASCII)
	Key3 Key = 51 // 3 key (ASCII)
	Key4 Key = 52 // 4 key (ASCII)
	Key5 Key = 53 // 5 key (ASCII)
	Key6 Key = 54 // 6 key (ASCII)
	Key7 Key = 55 // 7 key (ASCII)
	Key8 Key = 56 // 8 key (ASCII)
	Key9 Key = 57 // 9 key (ASCII)
)

// Additional non-printable keys
const (
	KeyLeftShift  Key = 340 // Left Shift (GLFW)
	KeyRightShift Key = 344 // Right Shift (GLFW)
)

// DigitKey returns the key for digit n in 1..9, or false if n is outside that range.
func DigitKey(n int) (Key, bool) {
	if n < 1 || n > 9 {
		return 0, false
	}
	return Key1 + Key(n-1), true
}
