package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/gopak/plugpak/internal/logging"
	"github.com/gopak/plugpak/internal/notify"
)

// Reporter turns registry notifications into user-facing lines.
type Reporter struct {
	mu  sync.Mutex
	out io.Writer
}

func NewReporter(out io.Writer) *Reporter { return &Reporter{out: out} }

func (r *Reporter) SetOutput(out io.Writer) {
	r.mu.Lock()
	r.out = out
	r.mu.Unlock()
}

// Handle is a notify handler; it is safe to call from several goroutines.
func (r *Reporter) Handle(ev notify.Event) {
	var line string
	switch ev.Kind {
	case notify.PackageInstalled:
		line = colorGreen(fmt.Sprintf("installed: %s %s", ev.Package.Name, ev.Package.Version))
	case notify.PackageUpdated:
		line = colorGreen(fmt.Sprintf("updated:   %s %s", ev.Package.Name, ev.Package.Version))
	case notify.ListUpdated:
		logging.Debug("package list updated", "at", ev.At)
		return
	default:
		return
	}
	r.Println(line)
}

// Println writes one line, serialized with notification output.
func (r *Reporter) Println(line string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintln(r.out, line)
}
