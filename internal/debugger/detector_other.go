//go:build !linux && !darwin && !windows

package debugger

func attached() bool { return false }
