package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/gopak/plugpak/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const infoPlist = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>CFBundleName</key>
	<string>Foo</string>
	<key>DVTPlugInCompatibilityUUIDs</key>
	<array>
		<string>AAAA-1111</string>
		<string>BBBB-2222</string>
	</array>
</dict>
</plist>
`

func pkg(name, version string, cat catalog.Category) catalog.Package {
	p := catalog.Package{Name: name, Version: version, Category: cat, Description: name + " package"}
	p.LocalRelativePath = RelativePath(p)
	return p
}

func TestScan_RecordsRoundTrip(t *testing.T) {
	root := t.TempDir()
	foo := pkg("Foo", "1.0", catalog.CategoryPlugin)
	tmpl := pkg("Tmpl", "0.3", catalog.CategoryFileTemplate)
	require.NoError(t, WriteRecord(root, foo))
	require.NoError(t, WriteRecord(root, tmpl))

	pkgs, err := NewScanner(root).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, pkgs, 2)

	assert.Equal(t, "Foo", pkgs[0].Name)
	assert.Equal(t, "1.0", pkgs[0].Version)
	assert.Equal(t, filepath.Join("Plug-ins", "Foo"), pkgs[0].LocalRelativePath)
	assert.Equal(t, catalog.CategoryPlugin, pkgs[0].Category)
	assert.True(t, pkgs[0].Installed)

	assert.Equal(t, "Tmpl", pkgs[1].Name)
	assert.Equal(t, filepath.Join("Templates", "File Templates", "Tmpl"), pkgs[1].LocalRelativePath)

	for _, p := range pkgs {
		assert.NoError(t, p.ValidateLocal())
	}
}

func TestScan_MissingRoot(t *testing.T) {
	pkgs, err := NewScanner(filepath.Join(t.TempDir(), "absent")).Scan(context.Background())
	require.NoError(t, err)
	assert.Empty(t, pkgs)
}

func TestScan_SkipsInvalidRecords(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, WriteRecord(root, pkg("Good", "1.0", catalog.CategoryPlugin)))

	bad := filepath.Join(root, "Plug-ins", "Bad")
	require.NoError(t, os.MkdirAll(bad, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bad, RecordName), []byte("name = \"Bad\"\n"), 0o644))

	broken := filepath.Join(root, "Plug-ins", "Broken")
	require.NoError(t, os.MkdirAll(broken, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(broken, RecordName), []byte("name = "), 0o644))

	pkgs, err := NewScanner(root).Scan(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrMissingVersion)
	assert.Equal(t, []string{"Good"}, catalog.Names(pkgs))
}

func TestScan_DuplicateNames(t *testing.T) {
	root := t.TempDir()
	a := pkg("Same", "1.0", catalog.CategoryPlugin)
	b := pkg("Same", "2.0", catalog.CategoryColorScheme)
	require.NoError(t, WriteRecord(root, a))
	require.NoError(t, WriteRecord(root, b))

	pkgs, err := NewScanner(root).Scan(context.Background())
	assert.Error(t, err)
	assert.Len(t, pkgs, 1)
}

func TestScan_BundleCompatibilityAndScreenshot(t *testing.T) {
	root := t.TempDir()
	foo := pkg("Foo", "1.0", catalog.CategoryPlugin)
	require.NoError(t, WriteRecord(root, foo))
	dir, err := Dir(root, foo)
	require.NoError(t, err)
	contents := filepath.Join(dir, "Foo.xcplugin", "Contents")
	require.NoError(t, os.MkdirAll(contents, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(contents, "Info.plist"), []byte(infoPlist), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, catalog.LocalScreenshotName), []byte("png"), 0o644))

	pkgs, err := NewScanner(root).Scan(context.Background())
	require.NoError(t, err)
	require.Len(t, pkgs, 1)
	assert.Equal(t, []string{"AAAA-1111", "BBBB-2222"}, pkgs[0].CompatibilityUUIDs)
	assert.Equal(t, catalog.LocalScreenshotName, pkgs[0].Screenshot)
}

func TestScan_Cancelled(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, WriteRecord(root, pkg("Foo", "1.0", catalog.CategoryPlugin)))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewScanner(root).Scan(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteRecord_RejectsIncomplete(t *testing.T) {
	assert.Error(t, WriteRecord(t.TempDir(), catalog.Package{Name: "x"}))
}

func TestRemovePackage(t *testing.T) {
	root := t.TempDir()
	foo := pkg("Foo", "1.0", catalog.CategoryPlugin)
	require.NoError(t, WriteRecord(root, foo))
	require.NoError(t, RemovePackage(root, foo))
	dir, err := Dir(root, foo)
	require.NoError(t, err)
	_, err = os.Stat(dir)
	assert.True(t, os.IsNotExist(err))

	assert.ErrorIs(t, RemovePackage(root, catalog.Package{Name: "root", LocalRelativePath: "."}), ErrOutsideRoot)
}

func TestDir_StaysInsideRoot(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "packages")
	victim := filepath.Join(base, "victim")
	require.NoError(t, os.MkdirAll(victim, 0o755))

	escaping := []catalog.Package{
		{Name: "../../victim", Category: catalog.CategoryPlugin},
		{Name: "x", LocalRelativePath: "../victim"},
		{Name: "x", LocalRelativePath: "Plug-ins/../../victim"},
		{Name: "x", LocalRelativePath: ".."},
		{Name: "x", LocalRelativePath: "."},
	}
	for _, p := range escaping {
		_, err := Dir(root, p)
		assert.ErrorIs(t, err, ErrOutsideRoot, p.LocalRelativePath+p.Name)
		p.Version = "1.0"
		if p.LocalRelativePath == "" {
			p.LocalRelativePath = RelativePath(p)
		}
		assert.ErrorIs(t, WriteRecord(root, p), ErrOutsideRoot)
		assert.ErrorIs(t, RemovePackage(root, p), ErrOutsideRoot)
	}
	assert.DirExists(t, victim)

	dir, err := Dir(root, catalog.Package{Name: "x", LocalRelativePath: "Plug-ins/a/../x"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Plug-ins", "x"), dir)
}
