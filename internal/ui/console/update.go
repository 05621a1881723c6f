package console

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gopak/plugpak/internal/catalog"
	"github.com/gopak/plugpak/internal/installer"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Update pulls name, or every installed package that may be behind. With
// dryRun it only prints the plan.
func (c *ConsoleUI) Update(ctx context.Context, name string, dryRun bool) error {
	cands := installer.UpdateCandidates(c.reg.AllPackages())
	if name != "" {
		p, ok := c.reg.Find(name)
		if !ok || !p.Installed {
			return fmt.Errorf("%s: %w", name, installer.ErrNotInstalled)
		}
		if p.Source == "" {
			return fmt.Errorf("%s: %w", name, installer.ErrNoSource)
		}
		cands = []catalog.Package{p}
	}
	if len(cands) == 0 {
		fmt.Fprintln(c.out, "Nothing to update")
		return nil
	}
	if dryRun {
		fmt.Fprint(c.out, renderGroups(cands, false))
		return nil
	}

	selected := cands
	if name == "" && !c.Yes && len(cands) > 1 {
		fmt.Fprint(c.out, renderGroups(cands, false))
		labels := make([]string, 0, len(cands))
		byLabel := map[string]catalog.Package{}
		for _, p := range cands {
			lbl := fmt.Sprintf("%s %s -> %s", p.Name, p.Version, latestLabel(p))
			labels = append(labels, lbl)
			byLabel[lbl] = p
		}
		chosen, err := c.prompt.MultiSelect("Select packages to update", labels, labels)
		if err != nil {
			return err
		}
		if len(chosen) == 0 {
			fmt.Fprintln(c.out, "Nothing selected")
			return nil
		}
		selected = selected[:0:0]
		for _, l := range chosen {
			selected = append(selected, byLabel[l])
		}
	}

	ok, err := c.confirm(fmt.Sprintf("Proceed to update %s?", strings.Join(catalog.Names(selected), ", ")))
	if err != nil || !ok {
		return err
	}
	results, runErr := c.runBatch(ctx, selected, c.in.UpdateSelected)
	if runErr != nil {
		return runErr
	}
	if err := c.refresh(ctx); err != nil {
		return err
	}
	return summarize(results, "update")
}

func latestLabel(p catalog.Package) string {
	if p.LatestVersion == "" {
		return "?"
	}
	return p.LatestVersion
}

// renderGroups prints one Current/Installable table per category.
func renderGroups(pkgs []catalog.Package, hideUpToDate bool) string {
	groups := map[catalog.Category][]catalog.Package{}
	for _, p := range pkgs {
		groups[p.Category] = append(groups[p.Category], p)
	}
	keys := make([]catalog.Category, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var b strings.Builder
	for _, grp := range keys {
		tw := table.NewWriter()
		tw.SetStyle(table.StyleLight)
		tw.AppendHeader(table.Row{"Package", "Current", "Installable"})
		members := groups[grp]
		slices.SortFunc(members, func(a, b catalog.Package) int { return strings.Compare(a.Name, b.Name) })
		for _, p := range members {
			cur, ins := p.Version, latestLabel(p)
			switch {
			case p.UpdateAvailable():
				cur, ins = colorGreen(cur), colorGreen(ins)
			case p.LatestVersion == "":
				ins = colorYellow(ins)
			default:
				if hideUpToDate {
					continue
				}
				cur, ins = colorGray(cur), colorGray(ins)
			}
			tw.AppendRow(table.Row{p.Name, cur, ins})
		}
		if tw.Length() > 0 {
			b.WriteString(text.Bold.Sprint(string(grp)) + "\n")
			b.WriteString(tw.Render())
			b.WriteString("\n\n")
		}
	}
	return b.String()
}
