package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/vengaer/conftool/kv"
)

// palette holds the printers of one invocation. Colors are disabled per
// palette so --no-color never leaks into later runs in the same process.
type palette struct {
	success *color.Color
	err     *color.Color
	warning *color.Color
	header  *color.Color

	diff map[kv.Op]*color.Color
}

func newPalette(noColor bool) *palette {
	p := &palette{
		success: color.New(color.FgGreen, color.Bold),
		err:     color.New(color.FgRed, color.Bold),
		warning: color.New(color.FgYellow),
		header:  color.New(color.FgBlue, color.Bold),
		diff: map[kv.Op]*color.Color{
			kv.OpAdd:    color.New(color.FgGreen),
			kv.OpChange: color.New(color.FgYellow),
			kv.OpRemove: color.New(color.FgRed),
		},
	}
	if noColor {
		for _, c := range []*color.Color{p.success, p.err, p.warning, p.header} {
			c.DisableColor()
		}
		for _, c := range p.diff {
			c.DisableColor()
		}
	}
	return p
}

// printDiff writes one colored line per change.
func (p *palette) printDiff(w io.Writer, d *kv.Diff) {
	if d.IsEmpty() {
		fmt.Fprintln(w, "No changes")
		return
	}
	for _, line := range d.Lines() {
		p.diff[line.Op].Fprintln(w, line)
	}
}

// printList writes "NAME:" followed by one indented item per line, or
// "None" when items is empty.
func (p *palette) printList(w io.Writer, name string, items []string) {
	p.header.Fprintf(w, "%s:\n", name)
	if len(items) == 0 {
		fmt.Fprintln(w, "  None")
		return
	}
	for _, item := range items {
		fmt.Fprintf(w, "  %s\n", item)
	}
}
