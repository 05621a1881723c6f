// Package installer clones, builds, updates and removes packages under the
// install directory and records what it installed.
package installer

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/gopak/plugpak/internal/catalog"
	"github.com/gopak/plugpak/internal/local"
	"github.com/gopak/plugpak/internal/logging"
	"github.com/gopak/plugpak/internal/settings"
)

var (
	ErrNoSource         = errors.New("package has no source url")
	ErrAlreadyInstalled = errors.New("package already installed")
	ErrNotInstalled     = errors.New("package not installed")
)

const shortHashLen = 7

// Notifier is told about every completed install and update.
type Notifier interface {
	PostUserNotificationForInstalledPackage(p catalog.Package)
	PostUserNotificationForUpdatedPackage(p catalog.Package)
}

// Downloader fetches screenshots.
type Downloader interface {
	Download(ctx context.Context, url, dest string) error
}

type Options struct {
	Root       string
	Downloader Downloader
	Notifier   Notifier
	// Runner defaults to ShellRunner.
	Runner Runner
	// BuildCommand, when set, builds plugins after checkout.
	BuildCommand string
	// Settings holds the pending install list.
	Settings *settings.Store
	// Parallel bounds InstallSelected and UpdateSelected; zero means four.
	Parallel int
}

type Installer struct {
	root         string
	downloader   Downloader
	notifier     Notifier
	runner       Runner
	buildCommand string
	settings     *settings.Store
	parallel     int
}

func New(opts Options) *Installer {
	in := &Installer{
		root:         opts.Root,
		downloader:   opts.Downloader,
		notifier:     opts.Notifier,
		runner:       opts.Runner,
		buildCommand: opts.BuildCommand,
		settings:     opts.Settings,
		parallel:     opts.Parallel,
	}
	if in.runner == nil {
		in.runner = ShellRunner{}
	}
	if in.parallel <= 0 {
		in.parallel = 4
	}
	return in
}

func (in *Installer) Root() string { return in.root }

// Install checks p out into its category directory, builds it when it is a
// plugin and a build command is configured, and writes its record. The
// returned package is the installed record.
func (in *Installer) Install(ctx context.Context, p catalog.Package) (catalog.Package, error) {
	if p.Source == "" {
		return p, fmt.Errorf("%s: %w", p.Name, ErrNoSource)
	}
	if p.Installed {
		return p, fmt.Errorf("%s: %w", p.Name, ErrAlreadyInstalled)
	}
	rec := p
	rec.LocalRelativePath = local.RelativePath(p)
	dir, err := local.Dir(in.root, rec)
	if err != nil {
		return p, err
	}
	if _, err := os.Stat(filepath.Join(dir, local.RecordName)); err == nil {
		return p, fmt.Errorf("%s: %w", p.Name, ErrAlreadyInstalled)
	}
	// leftovers of an interrupted install
	if err := os.RemoveAll(dir); err != nil {
		return p, err
	}

	logging.Debug("clone", "package", p.Name, "url", p.Source, "dir", dir)
	repo, err := git.PlainCloneContext(ctx, dir, false, cloneOptions(p.Source))
	if err != nil {
		os.RemoveAll(dir)
		return p, fmt.Errorf("clone %s: %w", p.Name, err)
	}

	rec, err = in.finishCheckout(ctx, rec, dir, headVersion(repo))
	if err != nil {
		os.RemoveAll(dir)
		return p, err
	}
	if in.notifier != nil {
		in.notifier.PostUserNotificationForInstalledPackage(rec)
	}
	logging.Success("installed", "package", rec.Name, "version", rec.Version)
	return rec, nil
}

// Update pulls p's checkout. It reports changed=false when the checkout was
// already up to date; otherwise the record is rewritten and observers are told.
func (in *Installer) Update(ctx context.Context, p catalog.Package) (catalog.Package, bool, error) {
	if !p.Installed || p.LocalRelativePath == "" {
		return p, false, fmt.Errorf("%s: %w", p.Name, ErrNotInstalled)
	}
	dir, err := local.Dir(in.root, p)
	if err != nil {
		return p, false, err
	}
	repo, err := git.PlainOpen(dir)
	if err != nil {
		return p, false, fmt.Errorf("open %s: %w", p.Name, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return p, false, err
	}
	logging.Debug("pull", "package", p.Name, "dir", dir)
	err = wt.PullContext(ctx, &git.PullOptions{RemoteName: "origin", SingleBranch: true})
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		logging.Info("up-to-date", "package", p.Name)
		return p, false, nil
	}
	if err != nil {
		return p, false, fmt.Errorf("pull %s: %w", p.Name, err)
	}

	rec := p
	rec.Version = ""
	if p.LatestVersion != "" {
		rec.Version = p.LatestVersion
	}
	rec, err = in.finishCheckout(ctx, rec, dir, headVersion(repo))
	if err != nil {
		return p, false, err
	}
	if in.notifier != nil {
		in.notifier.PostUserNotificationForUpdatedPackage(rec)
	}
	logging.Success("updated", "package", rec.Name, "version", rec.Version)
	return rec, true, nil
}

// Remove deletes p's install directory together with its record.
func (in *Installer) Remove(ctx context.Context, p catalog.Package) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !p.Installed {
		return fmt.Errorf("%s: %w", p.Name, ErrNotInstalled)
	}
	if err := local.RemovePackage(in.root, p); err != nil {
		return fmt.Errorf("remove %s: %w", p.Name, err)
	}
	logging.Success("removed", "package", p.Name)
	return nil
}

// finishCheckout runs the steps shared by install and update once the sources
// are in dir: screenshot, build, record.
func (in *Installer) finishCheckout(ctx context.Context, rec catalog.Package, dir, head string) (catalog.Package, error) {
	if rec.Version == "" {
		rec.Version = head
	}
	if rec.Version == "" {
		return rec, fmt.Errorf("%s: %w", rec.Name, catalog.ErrMissingVersion)
	}

	if shot := in.fetchScreenshot(ctx, rec, dir); shot != "" {
		rec.Screenshot = shot
	}

	if rec.Category == catalog.CategoryPlugin && in.buildCommand != "" {
		project, err := FindProject(dir)
		if err != nil {
			return rec, fmt.Errorf("build %s: %w", rec.Name, err)
		}
		cmd := expandCommand(in.buildCommand, rec.Name, dir, project)
		if err := in.runner.Run(ctx, rec.Name, "build", dir, cmd); err != nil {
			return rec, err
		}
	}
	if uuids := local.BundleCompatibilityUUIDs(dir); len(uuids) > 0 {
		rec.CompatibilityUUIDs = uuids
	}

	rec.Installed = true
	if err := local.WriteRecord(in.root, rec); err != nil {
		return rec, err
	}
	rec.LatestVersion = rec.Version
	return rec, nil
}

// fetchScreenshot stores a remote screenshot next to the checkout and returns
// its local name. A failed download is only logged.
func (in *Installer) fetchScreenshot(ctx context.Context, p catalog.Package, dir string) string {
	if in.downloader == nil || !isRemote(p.Screenshot) {
		return ""
	}
	dest := filepath.Join(dir, catalog.LocalScreenshotName)
	if err := in.downloader.Download(ctx, p.Screenshot, dest); err != nil {
		logging.Warn("screenshot download failed", "package", p.Name, "err", err)
		return ""
	}
	return catalog.LocalScreenshotName
}

func cloneOptions(source string) *git.CloneOptions {
	opts := &git.CloneOptions{URL: source, SingleBranch: true, Tags: git.NoTags}
	// the local file transport does not negotiate shallow clones
	if isRemote(source) {
		opts.Depth = 1
	}
	return opts
}

func headVersion(repo *git.Repository) string {
	ref, err := repo.Head()
	if err != nil {
		return ""
	}
	h := ref.Hash().String()
	if len(h) > shortHashLen {
		h = h[:shortHashLen]
	}
	return h
}

func isRemote(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return strings.HasPrefix(s, "git@")
	}
	switch u.Scheme {
	case "http", "https", "ssh", "git":
		return true
	}
	return strings.HasPrefix(s, "git@")
}
