// Package confirm is a blocking yes/no gate in front of destructive actions.
//
// The dialog never closes itself on confirm: the caller closes it once the
// guarded action has succeeded, so a failed action can leave it open.
package confirm

import "sync"

type Dialog struct {
	mu      sync.Mutex
	open    bool
	title   string
	message string
}

// State is a copy of the dialog for rendering.
type State struct {
	Open    bool
	Title   string
	Message string
}

func (d *Dialog) Show(title, message string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = true
	d.title = title
	d.message = message
}

// Confirm runs onConfirm if the dialog is open and reports whether it ran.
func (d *Dialog) Confirm(onConfirm func()) bool {
	d.mu.Lock()
	open := d.open
	d.mu.Unlock()
	if !open {
		return false
	}
	onConfirm()
	return true
}

func (d *Dialog) Cancel() { d.Close() }

func (d *Dialog) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.open = false
}

func (d *Dialog) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return State{Open: d.open, Title: d.title, Message: d.message}
}
