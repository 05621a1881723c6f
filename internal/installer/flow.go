package installer

import (
	"context"
	"errors"
	"fmt"

	"github.com/gopak/plugpak/internal/catalog"
	"github.com/gopak/plugpak/internal/logging"
	"golang.org/x/sync/errgroup"
)

var ErrUnknownPackage = errors.New("unknown package")

// Result is the outcome of one package in a batch.
type Result struct {
	Package catalog.Package
	// Changed is false for an update that found nothing to pull.
	Changed bool
	Err     error
}

func (r Result) OK() bool { return r.Err == nil }

// InstallSelected installs pkgs concurrently and reports every outcome through
// onResult, which may be called from several goroutines at once. It only
// returns an error when ctx was cancelled.
func (in *Installer) InstallSelected(ctx context.Context, pkgs []catalog.Package, onResult func(Result)) error {
	return in.each(ctx, pkgs, onResult, func(ctx context.Context, p catalog.Package) Result {
		rec, err := in.Install(ctx, p)
		return Result{Package: rec, Changed: err == nil, Err: err}
	})
}

// UpdateSelected pulls pkgs concurrently; see InstallSelected.
func (in *Installer) UpdateSelected(ctx context.Context, pkgs []catalog.Package, onResult func(Result)) error {
	return in.each(ctx, pkgs, onResult, func(ctx context.Context, p catalog.Package) Result {
		rec, changed, err := in.Update(ctx, p)
		return Result{Package: rec, Changed: changed, Err: err}
	})
}

// InstallPending installs every name on the pending list that lookup can
// resolve. Installed names, and names that turn out to be installed already,
// leave the list; failures and unknown names stay for the next run.
func (in *Installer) InstallPending(ctx context.Context, lookup func(name string) (catalog.Package, bool), onResult func(Result)) error {
	if in.settings == nil {
		return nil
	}
	names := in.settings.Pending()
	if len(names) == 0 {
		return nil
	}
	logging.Debug("pending installs", "names", names)

	var done []string
	var pkgs []catalog.Package
	for _, n := range names {
		p, ok := lookup(n)
		switch {
		case !ok:
			report(onResult, Result{Package: catalog.Package{Name: n}, Err: fmt.Errorf("%s: %w", n, ErrUnknownPackage)})
		case p.Installed:
			done = append(done, n)
		default:
			pkgs = append(pkgs, p)
		}
	}

	results := make(chan Result, len(pkgs))
	err := in.InstallSelected(ctx, pkgs, func(r Result) {
		results <- r
		report(onResult, r)
	})
	close(results)
	for r := range results {
		if r.OK() || errors.Is(r.Err, ErrAlreadyInstalled) {
			done = append(done, r.Package.Name)
		}
	}
	if len(done) > 0 {
		if serr := in.settings.RemovePending(done...); serr != nil {
			return errors.Join(err, serr)
		}
	}
	return err
}

// UpdateCandidates returns the installed packages worth pulling: those with a
// newer index version, and those the index carries no version for.
func UpdateCandidates(all []catalog.Package) []catalog.Package {
	var out []catalog.Package
	for _, p := range all {
		if !p.Installed || p.Source == "" {
			continue
		}
		if p.UpdateAvailable() || p.LatestVersion == "" {
			out = append(out, p)
		}
	}
	return out
}

func (in *Installer) each(ctx context.Context, pkgs []catalog.Package, onResult func(Result), fn func(context.Context, catalog.Package) Result) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(in.parallel)
	for _, p := range pkgs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			report(onResult, fn(gctx, p))
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}

func report(onResult func(Result), r Result) {
	if onResult != nil {
		onResult(r)
	}
}
