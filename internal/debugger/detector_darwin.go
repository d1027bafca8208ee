//go:build darwin

package debugger

import (
	"os"

	"golang.org/x/sys/unix"
)

// P_TRACED from <sys/proc.h>.
const pTraced = 0x00000800

// attached asks the kernel for this process's kinfo_proc and tests P_TRACED.
func attached() bool {
	kp, err := unix.SysctlKinfoProc("kern.proc.pid", os.Getpid())
	if err != nil || kp == nil {
		return false
	}
	return kp.Proc.P_flag&pTraced != 0
}
