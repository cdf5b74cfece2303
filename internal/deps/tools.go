package deps

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const versionProbeTimeout = 5 * time.Second

// ResolveTool returns the absolute path of command. A command containing a
// path separator is used as-is when it points at an executable file;
// otherwise PATH is searched.
func ResolveTool(command string) (string, error) {
	command = strings.TrimSpace(command)
	if command == "" {
		return "", fmt.Errorf("command not configured")
	}
	if strings.ContainsRune(command, filepath.Separator) {
		info, err := os.Stat(command)
		if err != nil {
			return "", fmt.Errorf("binary %q not found", command)
		}
		if !isExecutable(info) {
			return "", fmt.Errorf("binary %q is not executable", command)
		}
		return filepath.Abs(command)
	}
	resolved, err := exec.LookPath(command)
	if err != nil {
		return "", fmt.Errorf("binary %q not found", command)
	}
	return resolved, nil
}

// CheckMediaTool resolves an ffmpeg-family binary and records the first line
// of its -version banner as the status detail.
func CheckMediaTool(ctx context.Context, req Requirement) Status {
	status := Status{
		Name:        req.Name,
		Command:     strings.TrimSpace(req.Command),
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	resolved, err := ResolveTool(req.Command)
	if err != nil {
		status.Detail = err.Error()
		return status
	}
	status.Command = resolved
	status.Available = true

	probeCtx, cancel := context.WithTimeout(ctx, versionProbeTimeout)
	defer cancel()
	output, err := exec.CommandContext(probeCtx, resolved, "-version").Output()
	if err != nil {
		status.Detail = fmt.Sprintf("version probe failed: %v", err)
		return status
	}
	status.Detail = firstLine(output)
	return status
}

func firstLine(output []byte) string {
	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			return line
		}
	}
	return ""
}

func isExecutable(info os.FileInfo) bool {
	if info == nil {
		return false
	}
	if info.IsDir() {
		return false
	}
	if runtime.GOOS == "windows" {
		return true
	}
	return info.Mode().Perm()&0o111 != 0
}
