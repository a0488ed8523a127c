package internal

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Console is the operator-facing output. Diagnostics go through logrus.
type Console struct {
	w      io.Writer
	banner *color.Color
	warn   *color.Color
	notice *color.Color
	faint  *color.Color
}

// NewConsole writes to w. With colour off every style is disabled; with it
// on fatih/color still honours NO_COLOR and non-terminal output.
func NewConsole(w io.Writer, colour bool) *Console {
	c := &Console{
		w:      w,
		banner: color.New(color.FgCyan, color.Bold),
		warn:   color.New(color.FgYellow),
		notice: color.New(color.FgMagenta),
		faint:  color.New(color.Faint),
	}
	if !colour {
		for _, s := range []*color.Color{c.banner, c.warn, c.notice, c.faint} {
			s.DisableColor()
		}
	}
	return c
}

func (c *Console) Writer() io.Writer { return c.w }

func (c *Console) Println(a ...any) { fmt.Fprintln(c.w, a...) }

func (c *Console) Printf(format string, a ...any) { fmt.Fprintf(c.w, format, a...) }

func (c *Console) Line(n int, text string) { fmt.Fprintf(c.w, "%d: %s\n", n, text) }

func (c *Console) Separator() { c.faint.Fprintln(c.w, "---") }

func (c *Console) Banner(format string, a ...any) { c.banner.Fprintf(c.w, format+"\n", a...) }

func (c *Console) Warn(format string, a ...any) { c.warn.Fprintf(c.w, format+"\n", a...) }

func (c *Console) Notice(format string, a ...any) { c.notice.Fprintf(c.w, format+"\n", a...) }
