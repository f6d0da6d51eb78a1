package repurpose

import "sync"

// Notifier shows a modal, user-facing message.
type Notifier interface {
	Notify(msg string)
}

// Display replaces the content of the output region.
type Display interface {
	Show(text string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string)

func (f NotifierFunc) Notify(msg string) { f(msg) }

// DisplayFunc adapts a function to Display.
type DisplayFunc func(text string)

func (f DisplayFunc) Show(text string) { f(text) }

// Recorder captures notifications and output in memory. It serves the web form,
// which returns both to the browser, and tests.
type Recorder struct {
	mu      sync.Mutex
	notices []string
	output  string
	shown   bool
}

func (r *Recorder) Notify(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notices = append(r.notices, msg)
}

func (r *Recorder) Show(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.output = text
	r.shown = true
}

// Notices returns a copy of all notifications in order.
func (r *Recorder) Notices() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.notices...)
}

// Output returns the last displayed text and whether anything was displayed.
func (r *Recorder) Output() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.output, r.shown
}
