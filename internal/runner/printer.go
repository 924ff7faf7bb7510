package runner

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
)

// Printer writes one human-readable line per probe and a closing summary.
// It is presentation only; a nil *Printer prints nothing.
type Printer struct {
	w     io.Writer
	width int

	pass  *color.Color
	fail  *color.Color
	err   *color.Color
	info  *color.Color
	faint *color.Color
}

// NewPrinter creates a printer writing to w. Colors are used only when colorize is set.
func NewPrinter(w io.Writer, colorize bool) *Printer {
	p := &Printer{
		w:     w,
		pass:  color.New(color.FgGreen, color.Bold),
		fail:  color.New(color.FgRed, color.Bold),
		err:   color.New(color.FgMagenta, color.Bold),
		info:  color.New(color.FgCyan),
		faint: color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.pass, p.fail, p.err, p.info, p.faint} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Begin sizes the name column for the probes about to run.
func (p *Printer) Begin(probes []Probe) {
	if p == nil {
		return
	}
	p.width = 0
	for _, pr := range probes {
		if w := runewidth.StringWidth(pr.Name); w > p.width {
			p.width = w
		}
	}
}

// Result prints a single probe outcome.
func (p *Printer) Result(res Result) {
	if p == nil {
		return
	}

	var label, detail string
	switch res.Status {
	case StatusPass:
		label, detail = p.pass.Sprint("PASS "), res.Value
	case StatusFail:
		label = p.fail.Sprint("FAIL ")
	case StatusError:
		label, detail = p.err.Sprint("ERROR"), res.Error
	default:
		label, detail = p.info.Sprint("INFO "), res.Value
	}

	line := fmt.Sprintf("%s  %s  %s", label, runewidth.FillRight(res.Probe, p.width), detail)
	_, _ = fmt.Fprintln(p.w, strings.TrimRight(line, " "))

	if res.Status == StatusFail && res.Diff != "" {
		for _, l := range strings.Split(strings.TrimRight(res.Diff, "\n"), "\n") {
			_, _ = fmt.Fprintln(p.w, p.faint.Sprint("    "+l))
		}
	}
}

// Summary prints the per-status counts and names the probes that did not pass.
func (p *Printer) Summary(s Summary, failed []string) {
	if p == nil {
		return
	}
	_, _ = fmt.Fprintf(p.w, "\n%d passed, %d failed, %d errored, %d info\n", s.Passed, s.Failed, s.Errored, s.Info)
	if len(failed) > 0 {
		_, _ = fmt.Fprintf(p.w, "%s %s\n", p.fail.Sprint("failed:"), strings.Join(failed, ", "))
	}
}
