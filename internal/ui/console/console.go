package console

import (
	"io"
	"os"

	survey "github.com/AlecAivazis/survey/v2"
	"github.com/gopak/plugpak/internal/installer"
	"github.com/gopak/plugpak/internal/registry"
	"github.com/gopak/plugpak/internal/settings"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Prompter asks the user questions.
type Prompter interface {
	MultiSelect(message string, options, defaults []string) ([]string, error)
	Confirm(message string, def bool) (bool, error)
}

type surveyPrompter struct{}

func (surveyPrompter) MultiSelect(message string, options, defaults []string) ([]string, error) {
	selected := make([]string, 0)
	ms := &survey.MultiSelect{Message: message, Options: options, Default: defaults}
	if err := survey.AskOne(ms, &selected); err != nil {
		return nil, err
	}
	return selected, nil
}

func (surveyPrompter) Confirm(message string, def bool) (bool, error) {
	ok := false
	if err := survey.AskOne(&survey.Confirm{Message: message, Default: def}, &ok); err != nil {
		return false, err
	}
	return ok, nil
}

type ConsoleUI struct {
	reg      *registry.Registry
	in       *installer.Installer
	settings *settings.Store
	out      io.Writer
	prompt   Prompter
	reporter *Reporter
	unsub    func()
	// Yes answers every confirmation with yes.
	Yes bool
}

// NewConsoleUI subscribes a Reporter to reg; Close removes it.
func NewConsoleUI(reg *registry.Registry, in *installer.Installer, st *settings.Store) *ConsoleUI {
	c := &ConsoleUI{reg: reg, in: in, settings: st, out: os.Stdout, prompt: surveyPrompter{}}
	c.reporter = NewReporter(c.out)
	c.unsub = reg.Subscribe(c.reporter.Handle)
	return c
}

func (c *ConsoleUI) Close() { c.unsub() }

// WithOutput redirects rendered tables, results and notifications.
func (c *ConsoleUI) WithOutput(w io.Writer) *ConsoleUI {
	c.out = w
	c.reporter.SetOutput(w)
	return c
}

// WithPrompter replaces the interactive survey prompts.
func (c *ConsoleUI) WithPrompter(p Prompter) *ConsoleUI {
	c.prompt = p
	return c
}

func (c *ConsoleUI) confirm(message string) (bool, error) {
	if c.Yes {
		return true, nil
	}
	return c.prompt.Confirm(message, true)
}

func colorGreen(s string) string  { return text.FgGreen.Sprint(s) }
func colorRed(s string) string    { return text.FgRed.Sprint(s) }
func colorYellow(s string) string { return text.FgYellow.Sprint(s) }
func colorGray(s string) string   { return text.FgHiBlack.Sprint(s) }
