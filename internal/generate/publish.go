package generate

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"muxext/internal/catalog"
)

// LockFileName is created in the output directory while files are written.
const LockFileName = ".muxext.lock"

// ErrOutputLocked reports that another generator holds the output directory.
var ErrOutputLocked = errors.New("output directory is locked by another muxext run")

const lockRetryDelay = 100 * time.Millisecond

// Publish writes the catalog into dir while holding an exclusive file lock, so
// concurrent runs targeting the same directory never interleave their three
// files. It waits for the lock until ctx is done.
func Publish(ctx context.Context, dir string, files catalog.Files, cat *catalog.Catalog) error {
	lock := flock.New(filepath.Join(dir, LockFileName))
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("%w: %w", ErrOutputLocked, ctxErr)
		}
		return fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return ErrOutputLocked
	}
	defer func() { _ = lock.Unlock() }()

	return catalog.Write(dir, files, cat)
}
