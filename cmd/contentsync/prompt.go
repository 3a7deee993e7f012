package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/captiveportal/portal-cms/internal/editor"
)

// termPrompter asks on the terminal. With assumeYes every overwrite is confirmed.
type termPrompter struct {
	in        *bufio.Reader
	out       io.Writer
	assumeYes bool
}

func newTermPrompter(in io.Reader, out io.Writer, assumeYes bool) *termPrompter {
	return &termPrompter{in: bufio.NewReader(in), out: out, assumeYes: assumeYes}
}

func (p *termPrompter) ConfirmOverwrite(r editor.Report) bool {
	fmt.Fprintln(p.out, r.String())
	if p.assumeYes {
		fmt.Fprintln(p.out, "Overwriting (--yes).")
		return true
	}
	fmt.Fprint(p.out, "Do you want to overwrite their changes? [y/N] ")
	line, _ := p.in.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func (p *termPrompter) OfferReload(msg string) bool {
	fmt.Fprintln(p.out, msg)
	return false
}

func (p *termPrompter) Info(msg string) {
	fmt.Fprintln(p.out, msg)
}
