package console

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/gopak/plugpak/internal/catalog"
	"github.com/gopak/plugpak/internal/installer"
	"github.com/gopak/plugpak/internal/logging"
)

var errLaterNeedsNames = errors.New("--later needs at least one package name")

// Install installs the named packages. Without names it offers every
// uninstalled package, with the pending list preselected. With later the
// names are only queued for the next run.
func (c *ConsoleUI) Install(ctx context.Context, names []string, later bool) error {
	if later {
		return c.queue(names)
	}
	if len(names) == 0 && c.Yes {
		return c.installPending(ctx)
	}

	var selected []catalog.Package
	if len(names) > 0 {
		for _, n := range names {
			p, ok := c.reg.Find(n)
			if !ok {
				return fmt.Errorf("%s: %w", n, installer.ErrUnknownPackage)
			}
			if p.Installed {
				fmt.Fprintln(c.out, colorGray("already installed: "+n))
				continue
			}
			selected = append(selected, p)
		}
	} else {
		var err error
		if selected, err = c.selectUninstalled(); err != nil {
			return err
		}
	}
	if len(selected) == 0 {
		fmt.Fprintln(c.out, "Nothing to install")
		return nil
	}

	ok, err := c.confirm(fmt.Sprintf("Proceed to install %s?", strings.Join(catalog.Names(selected), ", ")))
	if err != nil || !ok {
		return err
	}

	results, runErr := c.runBatch(ctx, selected, c.in.InstallSelected)
	var done []string
	for _, r := range results {
		if r.OK() {
			done = append(done, r.Package.Name)
		}
	}
	if len(done) > 0 && c.settings != nil {
		if err := c.settings.RemovePending(done...); err != nil {
			logging.Warn("could not update pending list", "err", err)
		}
	}
	if runErr != nil {
		return runErr
	}
	if err := c.refresh(ctx); err != nil {
		return err
	}
	return summarize(results, "install")
}

func (c *ConsoleUI) queue(names []string) error {
	if len(names) == 0 {
		return errLaterNeedsNames
	}
	if c.settings == nil {
		return errors.New("no settings store to queue packages in")
	}
	for _, n := range names {
		if _, ok := c.reg.Find(n); !ok {
			return fmt.Errorf("%s: %w", n, installer.ErrUnknownPackage)
		}
	}
	if err := c.settings.AddPending(names...); err != nil {
		return err
	}
	fmt.Fprintln(c.out, "queued:", strings.Join(names, ", "))
	return nil
}

// installPending installs the pending list without asking.
func (c *ConsoleUI) installPending(ctx context.Context) error {
	if c.settings == nil || len(c.settings.Pending()) == 0 {
		fmt.Fprintln(c.out, "Nothing to install")
		return nil
	}
	results, runErr := c.runBatch(ctx, nil, func(ctx context.Context, _ []catalog.Package, onResult func(installer.Result)) error {
		return c.in.InstallPending(ctx, c.reg.Find, onResult)
	})
	if runErr != nil {
		return runErr
	}
	if err := c.refresh(ctx); err != nil {
		return err
	}
	return summarize(results, "install")
}

func (c *ConsoleUI) selectUninstalled() ([]catalog.Package, error) {
	var pending []string
	if c.settings != nil {
		pending = c.settings.Pending()
	}
	var need []catalog.Package
	for _, p := range c.reg.AllPackages() {
		if !p.Installed && p.Source != "" {
			need = append(need, p)
		}
	}
	if len(need) == 0 {
		return nil, nil
	}

	labels := make([]string, 0, len(need))
	defaults := make([]string, 0, len(pending))
	byLabel := map[string]catalog.Package{}
	for _, p := range need {
		lbl := fmt.Sprintf("%s/%s", p.Category, p.Name)
		if p.Version != "" {
			lbl += " " + p.Version
		}
		labels = append(labels, lbl)
		byLabel[lbl] = p
		if slices.Contains(pending, p.Name) {
			defaults = append(defaults, lbl)
		}
	}

	chosen := defaults
	if !c.Yes {
		var err error
		if chosen, err = c.prompt.MultiSelect("Select packages to install", labels, defaults); err != nil {
			return nil, err
		}
	}
	out := make([]catalog.Package, 0, len(chosen))
	for _, l := range chosen {
		out = append(out, byLabel[l])
	}
	return out, nil
}

type batchFunc func(ctx context.Context, pkgs []catalog.Package, onResult func(installer.Result)) error

// runBatch streams results while the batch runs. Successes are announced by
// the Reporter through registry notifications; failures are printed here.
func (c *ConsoleUI) runBatch(ctx context.Context, pkgs []catalog.Package, run batchFunc) ([]installer.Result, error) {
	evCh := make(chan installer.Result, 16)
	var wg sync.WaitGroup
	var runErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		runErr = run(ctx, pkgs, func(r installer.Result) { evCh <- r })
	}()
	go func() { wg.Wait(); close(evCh) }()

	results := make([]installer.Result, 0, len(pkgs))
	for r := range evCh {
		results = append(results, r)
		switch {
		case !r.OK():
			c.reporter.Println(colorRed("failed:    " + r.Package.Name))
			c.reporter.Println(r.Err.Error())
		case !r.Changed:
			c.reporter.Println(colorGray("up-to-date: " + r.Package.Name))
		}
	}
	return results, runErr
}

func summarize(results []installer.Result, verb string) error {
	failed := 0
	for _, r := range results {
		if !r.OK() {
			failed++
		}
	}
	if failed == 0 {
		return nil
	}
	return fmt.Errorf("%d of %d packages failed to %s", failed, len(results), verb)
}
