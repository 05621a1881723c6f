package console

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/gopak/plugpak/internal/catalog"
	"github.com/gopak/plugpak/internal/installer"
	"github.com/gopak/plugpak/internal/local"
	"github.com/gopak/plugpak/internal/logging"
	"github.com/gopak/plugpak/internal/notify"
	"github.com/gopak/plugpak/internal/registry"
	"github.com/gopak/plugpak/internal/settings"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	logging.SetOutput(io.Discard)
	text.DisableColors()
}

type staticRemote []catalog.Package

func (s staticRemote) Fetch(context.Context) ([]catalog.Package, error) { return s, nil }

type scriptedPrompter struct {
	pick    func(options, defaults []string) []string
	confirm bool
	asked   []string
}

func (p *scriptedPrompter) MultiSelect(message string, options, defaults []string) ([]string, error) {
	p.asked = append(p.asked, message)
	return p.pick(options, defaults), nil
}

func (p *scriptedPrompter) Confirm(message string, def bool) (bool, error) {
	p.asked = append(p.asked, message)
	return p.confirm, nil
}

func gitSource(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("theme"), 0o644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("init", &git.CommitOptions{Author: &object.Signature{Name: "Test", Email: "test@example.com", When: time.Now()}})
	require.NoError(t, err)
	return dir
}

type fixture struct {
	ui       *ConsoleUI
	out      *bytes.Buffer
	reg      *registry.Registry
	settings *settings.Store
	prompt   *scriptedPrompter
	root     string
}

func newFixture(t *testing.T, remote staticRemote, installed ...catalog.Package) *fixture {
	t.Helper()
	root := t.TempDir()
	for _, p := range installed {
		p.LocalRelativePath = local.RelativePath(p)
		require.NoError(t, local.WriteRecord(root, p))
	}
	st, err := settings.Open(t.TempDir())
	require.NoError(t, err)
	reg := registry.New(registry.Options{Local: local.NewScanner(root), Remote: remote})
	require.NoError(t, reg.Load(context.Background()))
	in := installer.New(installer.Options{Root: root, Notifier: reg, Settings: st})

	f := &fixture{out: &bytes.Buffer{}, reg: reg, settings: st, root: root, prompt: &scriptedPrompter{confirm: true}}
	f.ui = NewConsoleUI(reg, in, st).WithOutput(f.out).WithPrompter(f.prompt)
	t.Cleanup(f.ui.Close)
	return f
}

var sampleRemote = staticRemote{
	{Name: "Foo", Version: "1.1", Category: catalog.CategoryPlugin, Source: "https://example.com/foo", Description: "does foo"},
	{Name: "Bar", Version: "2.0", Category: catalog.CategoryColorScheme, Source: "https://example.com/bar", Description: "a dark theme"},
}

func TestRunList(t *testing.T) {
	f := newFixture(t, sampleRemote, catalog.Package{Name: "Foo", Version: "1.0", Category: catalog.CategoryPlugin})

	require.NoError(t, f.ui.RunList(catalog.FilterAll, false))
	out := f.out.String()
	assert.Contains(t, out, "plugin")
	assert.Contains(t, out, "color_scheme")
	assert.Contains(t, out, "Foo")
	assert.Contains(t, out, "Bar")
	assert.Contains(t, out, "update")

	f.out.Reset()
	require.NoError(t, f.ui.RunList(catalog.FilterAll, true))
	assert.Contains(t, f.out.String(), "Foo")
	assert.NotContains(t, f.out.String(), "Bar")

	f.out.Reset()
	require.NoError(t, f.ui.RunList(catalog.FilterTemplates, false))
	assert.Equal(t, "No packages\n", f.out.String())
}

func TestRunSearch(t *testing.T) {
	f := newFixture(t, sampleRemote)
	require.NoError(t, f.ui.RunSearch("dark"))
	assert.Contains(t, f.out.String(), "Bar")
	assert.NotContains(t, f.out.String(), "Foo")

	f.out.Reset()
	require.NoError(t, f.ui.RunSearch("zzzz"))
	assert.Contains(t, f.out.String(), "No packages match")
}

func TestInstall_NamedWithYes(t *testing.T) {
	src := gitSource(t)
	f := newFixture(t, staticRemote{{Name: "Dusk", Version: "1.0", Category: catalog.CategoryColorScheme, Source: src}})
	require.NoError(t, f.settings.AddPending("Dusk"))
	f.ui.Yes = true

	require.NoError(t, f.ui.Install(context.Background(), []string{"Dusk"}, false))
	assert.Contains(t, f.out.String(), "installed: Dusk 1.0")
	assert.Empty(t, f.settings.Pending())
	assert.Empty(t, f.prompt.asked)

	p, ok := f.reg.Find("Dusk")
	require.True(t, ok)
	assert.True(t, p.Installed, "catalog refreshed after install")

	f.out.Reset()
	require.NoError(t, f.ui.Install(context.Background(), []string{"Dusk"}, false))
	assert.Contains(t, f.out.String(), "already installed: Dusk")
}

func TestInstall_Unknown(t *testing.T) {
	f := newFixture(t, sampleRemote)
	err := f.ui.Install(context.Background(), []string{"Nope"}, false)
	assert.ErrorIs(t, err, installer.ErrUnknownPackage)
}

func TestInstall_Later(t *testing.T) {
	f := newFixture(t, sampleRemote)
	require.NoError(t, f.ui.Install(context.Background(), []string{"Bar"}, true))
	assert.Equal(t, []string{"Bar"}, f.settings.Pending())
	assert.Contains(t, f.out.String(), "queued: Bar")

	assert.ErrorIs(t, f.ui.Install(context.Background(), nil, true), errLaterNeedsNames)
}

func TestInstall_InteractivePreselectsPending(t *testing.T) {
	src := gitSource(t)
	f := newFixture(t, staticRemote{
		{Name: "Dusk", Version: "1.0", Category: catalog.CategoryColorScheme, Source: src},
		{Name: "Dawn", Version: "1.0", Category: catalog.CategoryColorScheme, Source: src},
	})
	require.NoError(t, f.settings.AddPending("Dawn"))

	var offered, preselected []string
	f.prompt.pick = func(options, defaults []string) []string {
		offered, preselected = options, defaults
		return defaults
	}
	require.NoError(t, f.ui.Install(context.Background(), nil, false))
	assert.Len(t, offered, 2)
	assert.Equal(t, []string{"color_scheme/Dawn 1.0"}, preselected)
	assert.Contains(t, f.out.String(), "installed: Dawn")
	assert.NotContains(t, f.out.String(), "installed: Dusk")
}

func TestInstall_DeclinedConfirm(t *testing.T) {
	src := gitSource(t)
	f := newFixture(t, staticRemote{{Name: "Dusk", Version: "1.0", Category: catalog.CategoryColorScheme, Source: src}})
	f.prompt.confirm = false
	require.NoError(t, f.ui.Install(context.Background(), []string{"Dusk"}, false))
	assert.NoDirExists(t, filepath.Join(f.root, "FontAndColorThemes", "Dusk"))
}

func TestUpdate_DryRun(t *testing.T) {
	f := newFixture(t, sampleRemote,
		catalog.Package{Name: "Foo", Version: "1.0", Category: catalog.CategoryPlugin, Source: "https://example.com/foo"},
		catalog.Package{Name: "Bar", Version: "2.0", Category: catalog.CategoryColorScheme, Source: "https://example.com/bar"},
	)
	require.NoError(t, f.ui.Update(context.Background(), "", true))
	out := f.out.String()
	assert.Contains(t, out, "Foo")
	assert.Contains(t, out, "1.1")
	assert.NotContains(t, out, "Bar", "up to date packages are not candidates")
	assert.Empty(t, f.prompt.asked)
}

func TestUpdate_NotInstalled(t *testing.T) {
	f := newFixture(t, sampleRemote)
	assert.ErrorIs(t, f.ui.Update(context.Background(), "Bar", false), installer.ErrNotInstalled)

	f.out.Reset()
	require.NoError(t, f.ui.Update(context.Background(), "", false))
	assert.Equal(t, "Nothing to update\n", f.out.String())
}

func TestRunRemove(t *testing.T) {
	f := newFixture(t, sampleRemote, catalog.Package{Name: "Foo", Version: "1.0", Category: catalog.CategoryPlugin})
	dir := filepath.Join(f.root, "Plug-ins", "Foo")

	f.prompt.confirm = false
	require.NoError(t, f.ui.RunRemove(context.Background(), "Foo"))
	assert.DirExists(t, dir)

	f.prompt.confirm = true
	require.NoError(t, f.ui.RunRemove(context.Background(), "Foo"))
	assert.NoDirExists(t, dir)
	assert.Contains(t, f.out.String(), "removed: Foo")
	assert.Contains(t, f.prompt.asked, messageRemoveConfirm("Foo"))

	assert.ErrorIs(t, f.ui.RunRemove(context.Background(), "Foo"), installer.ErrNotInstalled)
}

func TestRenderGroups_HideUpToDate(t *testing.T) {
	pkgs := []catalog.Package{
		{Name: "fish", Version: "1.0", LatestVersion: "", Installed: true, Category: catalog.CategoryPlugin},
		{Name: "nano", Version: "2.0.0", LatestVersion: "2.0.0", Installed: true, Category: catalog.CategoryPlugin},
		{Name: "go", Version: "1.25.4", LatestVersion: "1.26.0", Installed: true, Category: catalog.CategoryFileTemplate},
	}

	outAll := renderGroups(pkgs, false)
	for _, want := range []string{"plugin", "file_template", "fish", "nano", "go"} {
		assert.Contains(t, outAll, want)
	}

	outHide := renderGroups(pkgs, true)
	assert.NotContains(t, outHide, "nano")
	assert.Contains(t, outHide, "fish")
	assert.Contains(t, outHide, "go")
	assert.True(t, strings.Index(outHide, "file_template") < strings.Index(outHide, "plugin"))
}

func TestReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewReporter(&buf)
	r.Handle(notify.Event{Kind: notify.ListUpdated})
	r.Handle(notify.Event{Kind: notify.PackageInstalled, Package: catalog.Package{Name: "Foo", Version: "1.0"}})
	r.Handle(notify.Event{Kind: notify.PackageUpdated, Package: catalog.Package{Name: "Foo", Version: "1.1"}})
	assert.Equal(t, "installed: Foo 1.0\nupdated:   Foo 1.1\n", buf.String())
}

func TestInstall_PendingWithYes(t *testing.T) {
	src := gitSource(t)
	f := newFixture(t, staticRemote{{Name: "Dusk", Version: "1.0", Category: catalog.CategoryColorScheme, Source: src}})
	require.NoError(t, f.settings.AddPending("Dusk", "Ghost"))
	f.ui.Yes = true

	err := f.ui.Install(context.Background(), nil, false)
	require.Error(t, err, "Ghost is unknown")
	assert.Contains(t, f.out.String(), "installed: Dusk 1.0")
	assert.Contains(t, f.out.String(), "failed:    Ghost")
	assert.Equal(t, []string{"Ghost"}, f.settings.Pending())
}
