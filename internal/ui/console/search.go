package console

import (
	"fmt"

	"github.com/gopak/plugpak/internal/catalog"
)

// RunSearch prints the packages matching query, best match first.
func (c *ConsoleUI) RunSearch(query string) error {
	snap := c.reg.Snapshot()
	found := catalog.Search(query, snap.All())
	if len(found) == 0 {
		fmt.Fprintf(c.out, "No packages match %q\n", query)
		return nil
	}
	tw := packageTable()
	for _, p := range found {
		tw.AppendRow(packageRow(snap, p))
	}
	fmt.Fprintln(c.out, tw.Render())
	return nil
}
