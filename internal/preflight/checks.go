package preflight

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"

	"muxext/internal/deps"
)

// CheckDirectoryAccess passes when path is an existing directory the process
// can list, create files in, and traverse.
func CheckDirectoryAccess(name, path string) Result {
	fail := func(format string, args ...any) Result {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: %s)", path, fmt.Sprintf(format, args...))}
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fail("does not exist")
	case err != nil:
		return fail("stat: %v", err)
	case !info.IsDir():
		return fail("is not a directory")
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return fail("insufficient permissions: %v", err)
	}
	return Result{Name: name, Passed: true, Detail: path + " (read/write ok)"}
}

// CheckParentAccess checks the directory that will hold path, for files
// created on demand such as the history database.
func CheckParentAccess(name, path string) Result {
	return CheckDirectoryAccess(name, filepath.Dir(path))
}

// CheckFFmpeg passes when the resolved FFmpeg binary is executable; the
// detail is its resolved path.
func CheckFFmpeg(configured, workDir string) Result {
	status := deps.CheckFFmpeg(configured, workDir)
	result := Result{Name: status.Name, Passed: status.Available, Detail: status.Detail}
	if status.Available {
		result.Detail = status.Command
	}
	return result
}
