package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"ludotheque/internal/config"
	"ludotheque/internal/services"
	"ludotheque/internal/services/llm"
)

var lookPath = exec.LookPath

// CheckIGDB verifies that the Twitch credentials yield an access token.
func CheckIGDB(ctx context.Context, remote Authenticator) Result {
	const name = "IGDB"
	if remote == nil {
		return Result{Name: name, Detail: "client unavailable (check igdb settings)"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	if err := remote.Authenticate(checkCtx); err != nil {
		switch {
		case errors.Is(err, services.ErrRemoteRejected):
			return Result{Name: name, Detail: "credentials rejected"}
		case errors.Is(err, context.DeadlineExceeded):
			return Result{Name: name, Detail: "token request timed out"}
		default:
			return Result{Name: name, Detail: fmt.Sprintf("token request failed (%v)", err)}
		}
	}
	return Result{Name: name, Passed: true, Detail: "Authenticated"}
}

// CheckLLM verifies that the LLM API is reachable and the key is valid.
// It uses a 30-second timeout and a single attempt (no retries).
func CheckLLM(ctx context.Context, name string, cfg config.LLM) Result {
	if cfg.APIKey == "" {
		return Result{Name: name, Detail: "API key missing"}
	}

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client := llm.NewClient(llm.Config{
		APIKey:         cfg.APIKey,
		BaseURL:        cfg.BaseURL,
		Model:          cfg.Model,
		Temperature:    cfg.Temperature,
		TimeoutSeconds: cfg.TimeoutSeconds,
	}, llm.WithRetryMaxAttempts(1))

	if err := client.HealthCheck(checkCtx); err != nil {
		return Result{Name: name, Detail: summarizeLLMError(err)}
	}
	return Result{Name: name, Passed: true, Detail: "API reachable"}
}

func summarizeLLMError(err error) string {
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.As(err, &netErr) && netErr.Timeout():
		return "request timed out"
	case errors.Is(err, services.ErrRemoteRejected):
		return "request rejected (check api key and model)"
	case errors.Is(err, services.ErrRemoteUnreachable):
		return "API unreachable"
	default:
		msg := err.Error()
		if len(msg) > 120 {
			msg = msg[:120] + "..."
		}
		return msg
	}
}

// CheckDirectoryAccess verifies that the directory exists and is readable,
// and writable when writable is set.
func CheckDirectoryAccess(name, path string, writable bool) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	mode := uint32(unix.R_OK | unix.X_OK)
	label := "read ok"
	if writable {
		mode |= unix.W_OK
		label = "read/write ok"
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, label)}
}

// CheckEmulators reports whether each configured emulator command is on
// PATH. Emulators are never launched by ludotheque, so these are optional.
func CheckEmulators(emulators []config.Emulator) []Result {
	results := make([]Result, 0, len(emulators))
	for _, emu := range emulators {
		name := "Emulator " + emu.Name
		binary := commandBinary(emu.Command)
		if binary == "" {
			results = append(results, Result{Name: name, Optional: true, Detail: "command not configured"})
			continue
		}
		if _, err := lookPath(binary); err != nil {
			results = append(results, Result{Name: name, Optional: true, Detail: fmt.Sprintf("binary %q not found", binary)})
			continue
		}
		results = append(results, Result{
			Name:     name,
			Passed:   true,
			Optional: true,
			Detail:   fmt.Sprintf("%s (%s)", binary, strings.Join(emu.Extensions, ", ")),
		})
	}
	return results
}

// commandBinary returns the first word of an emulator command line.
func commandBinary(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
