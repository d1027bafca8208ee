//go:build windows

package debugger

import "golang.org/x/sys/windows"

var procIsDebuggerPresent = windows.NewLazySystemDLL("kernel32.dll").NewProc("IsDebuggerPresent")

// attached calls kernel32!IsDebuggerPresent.
func attached() bool {
	if err := procIsDebuggerPresent.Find(); err != nil {
		return false
	}
	r, _, _ := procIsDebuggerPresent.Call()
	return r != 0
}
