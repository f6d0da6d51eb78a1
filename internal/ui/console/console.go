// Package console renders notifications and output for the command line:
// notifications go to the error stream, output to the output stream.
package console

import (
	"fmt"
	"io"
	"sync"
)

// UI writes notifications and output to two streams.
type UI struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
}

func New(out, errOut io.Writer) *UI {
	return &UI{out: out, errOut: errOut}
}

// Notify prints msg on its own line to the error stream.
func (u *UI) Notify(msg string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, _ = fmt.Fprintln(u.errOut, msg)
}

// Show prints text followed by a newline to the output stream.
func (u *UI) Show(text string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, _ = fmt.Fprintln(u.out, text)
}
