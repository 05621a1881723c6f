package console

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gopak/plugpak/internal/catalog"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

const descriptionWidth = 48

// RunList prints the merged catalog, one table per category.
func (c *ConsoleUI) RunList(filter catalog.Filter, installedOnly bool) error {
	snap := c.reg.Snapshot()
	pkgs := filter.Apply(snap, snap.All())
	if installedOnly {
		kept := pkgs[:0]
		for _, p := range pkgs {
			if p.Installed {
				kept = append(kept, p)
			}
		}
		pkgs = kept
	}
	if len(pkgs) == 0 {
		fmt.Fprintln(c.out, "No packages")
		return nil
	}
	fmt.Fprint(c.out, renderList(snap, pkgs))
	return nil
}

func renderList(snap *catalog.Catalog, pkgs []catalog.Package) string {
	groups := map[catalog.Category][]catalog.Package{}
	for _, p := range pkgs {
		groups[p.Category] = append(groups[p.Category], p)
	}
	var b strings.Builder
	order := append(slices.Clone(catalog.Categories), "")
	for _, cat := range order {
		members := groups[cat]
		if len(members) == 0 {
			continue
		}
		title := string(cat)
		if title == "" {
			title = "other"
		}
		b.WriteString(text.Bold.Sprint(title) + "\n")
		tw := packageTable()
		for _, p := range members {
			tw.AppendRow(packageRow(snap, p))
		}
		b.WriteString(tw.Render())
		b.WriteString("\n\n")
	}
	return b.String()
}

func packageTable() table.Writer {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"Package", "Installed", "Latest", "Status", "Description"})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Description", WidthMax: descriptionWidth, WidthMaxEnforcer: text.Trim},
	})
	return tw
}

func packageRow(snap *catalog.Catalog, p catalog.Package) table.Row {
	installed := "-"
	if p.Installed {
		installed = p.Version
	}
	latest := p.LatestVersion
	if !p.Installed {
		latest = p.Version
	}
	if latest == "" {
		latest = "-"
	}
	status := ""
	switch {
	case p.UpdateAvailable():
		status = colorGreen("update")
		latest = colorGreen(latest)
	case p.Installed:
		status = colorGray("installed")
	case snap.IsNew(p.Name):
		status = colorYellow("new")
	}
	return table.Row{p.Name, installed, latest, status, p.Description}
}
