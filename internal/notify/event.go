package notify

import (
	"time"

	"github.com/gopak/plugpak/internal/catalog"
)

type Kind string

const (
	ListUpdated      Kind = "list_updated"
	PackageInstalled Kind = "package_installed"
	PackageUpdated   Kind = "package_updated"
)

// Event is what the registry publishes to observers.
// Package is the zero value for ListUpdated.
type Event struct {
	Kind    Kind
	Package catalog.Package
	At      time.Time
}

func (e Event) String() string {
	if e.Package.Name == "" {
		return string(e.Kind)
	}
	return string(e.Kind) + ": " + e.Package.Name
}
