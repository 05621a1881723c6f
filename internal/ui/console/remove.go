package console

import (
	"context"
	"fmt"

	"github.com/gopak/plugpak/internal/installer"
	"github.com/gopak/plugpak/internal/logging"
	"github.com/gopak/plugpak/internal/registry"
)

func (c *ConsoleUI) RunRemove(ctx context.Context, name string) error {
	p, ok := c.reg.Find(name)
	if !ok || !p.Installed {
		return fmt.Errorf("%s: %w", name, installer.ErrNotInstalled)
	}
	ok, err := c.confirm(messageRemoveConfirm(name))
	if err != nil || !ok {
		return err
	}
	if err := c.in.Remove(ctx, p); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "removed:", name)
	return c.refresh(ctx)
}

func messageRemoveConfirm(name string) string { return fmt.Sprintf("Remove %s?", name) }

// refresh reloads the catalog after a change; a degraded reload is only a warning.
func (c *ConsoleUI) refresh(ctx context.Context) error {
	err := c.reg.ReloadPackages(ctx)
	if registry.IsDegraded(err) {
		logging.Warn("catalog reloaded with warnings", "err", err)
		return nil
	}
	return err
}
