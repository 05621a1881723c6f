package catalog

import "sort"

// Merge returns the union of local and remote keyed by name, sorted by name.
// A local record wins over a remote one; it is marked installed, takes the remote
// version as LatestVersion, and inherits remote fields it leaves empty.
// Duplicate names inside one side keep the first occurrence.
func Merge(local, remote []Package) []Package {
	byName := make(map[string]Package, len(local)+len(remote))
	remoteByName := make(map[string]Package, len(remote))
	for _, r := range remote {
		if _, ok := remoteByName[r.Name]; ok {
			continue
		}
		remoteByName[r.Name] = r
		r.Installed = false
		r.LatestVersion = r.Version
		byName[r.Name] = r
	}
	seenLocal := make(map[string]struct{}, len(local))
	for _, l := range local {
		if _, ok := seenLocal[l.Name]; ok {
			continue
		}
		seenLocal[l.Name] = struct{}{}
		l.Installed = true
		l.LatestVersion = ""
		if r, ok := remoteByName[l.Name]; ok {
			l.LatestVersion = r.Version
			if l.Source == "" {
				l.Source = r.Source
			}
			if l.Description == "" {
				l.Description = r.Description
			}
			if l.Screenshot == "" {
				l.Screenshot = r.Screenshot
			}
			if l.Category == "" {
				l.Category = r.Category
			}
		}
		byName[l.Name] = l
	}
	out := make([]Package, 0, len(byName))
	for _, p := range byName {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Dedupe drops later entries sharing a name with an earlier one and sorts by name.
func Dedupe(pkgs []Package) []Package {
	seen := make(map[string]struct{}, len(pkgs))
	out := make([]Package, 0, len(pkgs))
	for _, p := range pkgs {
		if _, ok := seen[p.Name]; ok {
			continue
		}
		seen[p.Name] = struct{}{}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
