package deps

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

const ffmpegName = "ffmpeg"

// ResolveFFmpegPath picks the FFmpeg binary to query, in order:
//
//  1. the configured binary, verbatim;
//  2. ../resources/ffmpeg relative to workDir, where the media player this
//     tool serves ships its bundled copy;
//  3. ffmpeg on PATH.
//
// When nothing resolves the bare name is returned so the caller's error names
// the missing command.
func ResolveFFmpegPath(configured, workDir string) string {
	if configured = strings.TrimSpace(configured); configured != "" {
		return configured
	}
	if workDir != "" {
		bundled := filepath.Join(workDir, "..", "resources", executableName(ffmpegName))
		if runnable(bundled) {
			if abs, err := filepath.Abs(bundled); err == nil {
				return abs
			}
			return bundled
		}
	}
	if onPath, err := exec.LookPath(ffmpegName); err == nil {
		return onPath
	}
	return ffmpegName
}

// CheckFFmpeg reports on the binary ResolveFFmpegPath selects.
func CheckFFmpeg(configured, workDir string) Status {
	return Lookup("FFmpeg", ResolveFFmpegPath(configured, workDir))
}

func executableName(base string) string {
	if runtime.GOOS == "windows" {
		return base + ".exe"
	}
	return base
}

// runnable reports whether path is a regular file with an execute bit set.
// Windows has no execute bit, so any regular file qualifies there.
func runnable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return false
	}
	return runtime.GOOS == "windows" || info.Mode().Perm()&0o111 != 0
}
