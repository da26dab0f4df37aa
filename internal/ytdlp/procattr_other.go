//go:build !unix

package ytdlp

import "os/exec"

func detach(cmd *exec.Cmd) {}
