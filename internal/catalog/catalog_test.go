package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMerge_LocalWins(t *testing.T) {
	local := []Package{{Name: "Foo", Version: "1.0", LocalRelativePath: "Plug-ins/Foo", Category: CategoryPlugin}}
	remote := []Package{
		{Name: "Foo", Version: "1.1", Source: "https://example.com/foo.git", Description: "foo plugin"},
		{Name: "Bar", Version: "2.0", Category: CategoryColorScheme},
	}
	all := Merge(local, remote)
	require.Len(t, all, 2)

	assert.Equal(t, "Bar", all[0].Name)
	assert.False(t, all[0].Installed)
	assert.Equal(t, "2.0", all[0].Version)

	foo := all[1]
	assert.Equal(t, "Foo", foo.Name)
	assert.True(t, foo.Installed)
	assert.Equal(t, "1.0", foo.Version)
	assert.Equal(t, "1.1", foo.LatestVersion)
	assert.Equal(t, "https://example.com/foo.git", foo.Source)
	assert.Equal(t, "foo plugin", foo.Description)
	assert.True(t, foo.UpdateAvailable())
}

func TestMerge_UniqueNames(t *testing.T) {
	local := []Package{{Name: "a"}, {Name: "a"}, {Name: "b"}}
	remote := []Package{{Name: "b"}, {Name: "c"}, {Name: "c"}}
	all := Merge(local, remote)
	seen := map[string]bool{}
	for _, p := range all {
		if seen[p.Name] {
			t.Fatalf("duplicate name %q in %v", p.Name, all)
		}
		seen[p.Name] = true
	}
	assert.Equal(t, []string{"a", "b", "c"}, Names(all))
}

func TestMerge_Empty(t *testing.T) {
	assert.Empty(t, Merge(nil, nil))
}

func TestValidateLocal(t *testing.T) {
	ok := Package{Name: "x", Version: "1", LocalRelativePath: "Plug-ins/x"}
	require.NoError(t, ok.ValidateLocal())

	err := Package{Name: "x"}.ValidateLocal()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingVersion)
	assert.ErrorIs(t, err, ErrMissingPath)
	assert.NotErrorIs(t, err, ErrMissingName)
}

func TestSafeName(t *testing.T) {
	for _, n := range []string{"Foo", "Alcatraz", "XVim 2", "foo.bar", "..foo"} {
		assert.True(t, SafeName(n), n)
	}
	for _, n := range []string{"", ".", "..", "../../victim", "a/b", `a\b`, "/abs"} {
		assert.False(t, SafeName(n), n)
	}
}

func TestUpdateAvailable(t *testing.T) {
	cases := []struct {
		p    Package
		want bool
	}{
		{Package{Installed: true, Version: "1.0", LatestVersion: "1.1"}, true},
		{Package{Installed: true, Version: "1.1", LatestVersion: "1.1"}, false},
		{Package{Installed: true, Version: "v2.0", LatestVersion: "1.9"}, false},
		{Package{Installed: false, Version: "1.0", LatestVersion: "1.1"}, false},
		{Package{Installed: true, Version: "abcdef", LatestVersion: "fedcba"}, true},
		{Package{Installed: true, Version: "1.0", LatestVersion: ""}, false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, c.p.UpdateAvailable(), "%+v", c.p)
	}
}

func TestCompareVersions(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"1.2.3", "1.2.3", 0},
		{"1.2.4", "1.2.3", 1},
		{"1.10.0", "1.2.9", 1},
		{"v1.2.3", "1.2.3", 0},
		{"1.2.3-beta", "1.2.3", 0},
		{"2", "10", -1},
		{"1.2", "1.2.0", 0},
	}
	for _, c := range cases {
		if got := CompareVersions(c.a, c.b); got != c.want {
			t.Fatalf("CompareVersions(%q,%q)=%d want %d", c.a, c.b, got, c.want)
		}
	}
}

func TestAdded(t *testing.T) {
	prev := []Package{{Name: "a"}, {Name: "b"}}
	cur := []Package{{Name: "c"}, {Name: "a"}, {Name: "d"}}
	assert.Equal(t, []string{"c", "d"}, Added(prev, cur))
	assert.Empty(t, Added(cur, cur))
}

func TestFilter(t *testing.T) {
	c := &Catalog{AddedRemote: []string{"fresh"}}
	pkgs := []Package{
		{Name: "p", Category: CategoryPlugin},
		{Name: "cs", Category: CategoryColorScheme},
		{Name: "pt", Category: CategoryProjectTemplate},
		{Name: "ft", Category: CategoryFileTemplate},
		{Name: "fresh", Category: CategoryPlugin},
	}
	assert.Len(t, FilterAll.Apply(c, pkgs), 5)
	assert.Equal(t, []string{"fresh", "p"}, Names(FilterPlugins.Apply(c, pkgs)))
	assert.Equal(t, []string{"cs"}, Names(FilterColorSchemes.Apply(c, pkgs)))
	assert.Equal(t, []string{"ft", "pt"}, Names(FilterTemplates.Apply(c, pkgs)))
	assert.Equal(t, []string{"fresh"}, Names(FilterNew.Apply(c, pkgs)))
}

func TestParseFilter(t *testing.T) {
	f, err := ParseFilter("Templates")
	require.NoError(t, err)
	assert.Equal(t, FilterTemplates, f)

	f, err = ParseFilter("")
	require.NoError(t, err)
	assert.Equal(t, FilterAll, f)

	_, err = ParseFilter("widgets")
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	pkgs := []Package{
		{Name: "Solarized", Description: "color scheme"},
		{Name: "VVDocumenter", Description: "doc comments plugin"},
		{Name: "KSImageNamed", Description: "autocomplete image names"},
	}
	got := Search("VVDoc", pkgs)
	require.NotEmpty(t, got)
	assert.Equal(t, "VVDocumenter", got[0].Name)

	assert.Len(t, Search("", pkgs), 3)
	assert.Empty(t, Search("zzzzqqq", pkgs))
}

func TestCompatibleWith(t *testing.T) {
	p := Package{CompatibilityUUIDs: []string{"A", "B"}}
	assert.True(t, p.CompatibleWith("A"))
	assert.False(t, p.CompatibleWith("C"))
	assert.True(t, Package{}.CompatibleWith("C"))
}
