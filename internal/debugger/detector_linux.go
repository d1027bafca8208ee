//go:build linux

package debugger

import (
	"bufio"
	"bytes"
	"os"
	"strconv"
)

const procStatus = "/proc/self/status"

// attached reads TracerPid from procfs. A ptrace-attached debugger (gdb, dlv,
// strace) shows up as a non-zero tracer pid.
func attached() bool {
	f, err := os.Open(procStatus)
	if err != nil {
		return false
	}
	defer f.Close()
	return tracerPID(bufio.NewScanner(f)) > 0
}

var tracerPrefix = []byte("TracerPid:")

func tracerPID(sc *bufio.Scanner) int {
	for sc.Scan() {
		line := sc.Bytes()
		if !bytes.HasPrefix(line, tracerPrefix) {
			continue
		}
		pid, err := strconv.Atoi(string(bytes.TrimSpace(line[len(tracerPrefix):])))
		if err != nil {
			return 0
		}
		return pid
	}
	return 0
}
