package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gopak/plugpak/internal/cache"
)

var (
	// ErrLocalUnreadable means the install directory could not be scanned; the
	// last-known local catalog was kept.
	ErrLocalUnreadable = errors.New("local packages unreadable")

	// ErrInvalidRecords means some installed package records were skipped.
	ErrInvalidRecords = errors.New("invalid local package records")

	// ErrRemoteUnavailable means the package index could not be fetched; the
	// last-known remote catalog was kept.
	ErrRemoteUnavailable = errors.New("remote package index unavailable")

	// ErrCacheCorrupt means the package cache could not be read or written.
	ErrCacheCorrupt = cache.ErrCorrupt
)

// DegradedError is returned by Load and ReloadPackages when the new catalog was
// published but some part of it had to fall back. It is not fatal.
type DegradedError struct {
	Warnings []error
}

func (e *DegradedError) Error() string {
	msgs := make([]string, 0, len(e.Warnings))
	for _, w := range e.Warnings {
		msgs = append(msgs, w.Error())
	}
	return "catalog degraded: " + strings.Join(msgs, "; ")
}

func (e *DegradedError) Unwrap() []error { return e.Warnings }

// IsDegraded reports whether err only signals a degraded, still published catalog.
func IsDegraded(err error) bool {
	var d *DegradedError
	return errors.As(err, &d)
}

func warn(kind error, err error) error {
	return fmt.Errorf("%w: %w", kind, err)
}
