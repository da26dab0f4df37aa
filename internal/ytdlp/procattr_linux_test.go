//go:build linux

package ytdlp

import (
	"context"
	"os"
	"strconv"
	"syscall"
	"testing"

	"github.com/datallboy/gotube/internal/domain"
)

func TestDownloadRunsInOwnProcessGroup(t *testing.T) {
	if _, err := os.Stat("/proc/self/stat"); err != nil {
		t.Skip("/proc not available")
	}
	// Field 5 of /proc/<pid>/stat is the process group
	bin := fakeBinary(t, `
read -r _ _ _ _ pgid _ < /proc/$$/stat
echo "gotube|downloading|$pgid|$$|f"
`)
	c := &CLI{BinaryPath: bin}

	var got domain.Progress
	err := c.Download(context.Background(), domain.TransferRequest{URL: "u"}, func(p domain.Progress) {
		got = p
	})
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if got.Percent == strconv.Itoa(syscall.Getpgrp()) {
		t.Error("engine shares the terminal's process group")
	}
	if got.Percent != got.Speed {
		t.Errorf("engine should lead its own group: pgid=%s pid=%s", got.Percent, got.Speed)
	}
}
