//go:build unix

package ytdlp

import (
	"os/exec"
	"syscall"
)

// detach moves the engine into its own process group, so a Ctrl+C on the
// terminal only reaches gotube and a running transfer is left to finish.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
