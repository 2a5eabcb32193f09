// Package netflush clears the OS DNS resolver cache.
package netflush

import (
	"context"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// flushTimeout bounds the subprocess; a hung resolver service should not
// hang the tool.
const flushTimeout = 15 * time.Second

// Result reports the outcome of a flush attempt. Reason is human-readable
// and only set on failure.
type Result struct {
	OK     bool
	Reason string
}

// Flush invokes the platform's DNS-cache-clear facility. No retries are
// performed; the most common failure is insufficient privilege, which the
// user must resolve themselves.
func Flush(ctx context.Context) Result {
	ctx, cancel := context.WithTimeout(ctx, flushTimeout)
	defer cancel()

	switch runtime.GOOS {
	case "windows":
		return run(ctx, "ipconfig", "/flushdns")
	case "darwin":
		res := run(ctx, "dscacheutil", "-flushcache")
		if res.OK {
			// mDNSResponder caches independently.
			_ = exec.CommandContext(ctx, "killall", "-HUP", "mDNSResponder").Run()
		}
		return res
	case "linux":
		if res := run(ctx, "resolvectl", "flush-caches"); res.OK {
			return res
		}
		return run(ctx, "systemd-resolve", "--flush-caches")
	default:
		return Result{OK: false, Reason: "DNS cache flush is not supported on " + runtime.GOOS}
	}
}

func run(ctx context.Context, name string, args ...string) Result {
	output, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	if err == nil {
		return Result{OK: true}
	}

	if ctx.Err() == context.DeadlineExceeded {
		return Result{OK: false, Reason: "timed out waiting for " + name}
	}

	reason := strings.TrimSpace(string(output))
	if reason == "" {
		reason = "the command failed — administrator privileges may be required"
	}
	return Result{OK: false, Reason: reason}
}
