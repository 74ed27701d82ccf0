package arduinobot

import (
	"unsafe"

	"golang.org/x/sys/windows"
)

var getCursorPos = windows.NewLazySystemDLL("user32.dll").NewProc("GetCursorPos")

// getMousePosition reads the cursor position from Win32.
func getMousePosition() (x, y int, err error) {
	var pt struct{ X, Y int32 }
	ret, _, callErr := getCursorPos.Call(uintptr(unsafe.Pointer(&pt)))
	if ret == 0 {
		return 0, 0, callErr
	}
	return int(pt.X), int(pt.Y), nil
}
