package controller

// Confirm is the delete-confirmation state: which record is up for
// deletion and whether the delete is already in flight. TryAcquire makes a
// rapid double-confirm send exactly one DELETE.
type Confirm struct {
	id    string
	label string
	busy  bool
}

// Begin arms the confirmation for one record.
func (c *Confirm) Begin(id, label string) {
	c.id = id
	c.label = label
	c.busy = false
}

// Cancel disarms the confirmation.
func (c *Confirm) Cancel() {
	c.id = ""
	c.label = ""
	c.busy = false
}

// Active reports whether a confirmation is showing.
func (c *Confirm) Active() bool { return c.id != "" }

// ID returns the target record id.
func (c *Confirm) ID() string { return c.id }

// Label returns the display name of the target record.
func (c *Confirm) Label() string { return c.label }

// Busy reports whether the delete round-trip is running.
func (c *Confirm) Busy() bool { return c.busy }

// TryAcquire claims the in-flight slot. The second of two rapid confirms
// gets false and does nothing.
func (c *Confirm) TryAcquire() bool {
	if !c.Active() || c.busy {
		return false
	}
	c.busy = true
	return true
}

// Finish releases the confirmation after the round-trip settles. Pass
// removed=true when the delete succeeded so the target clears; on failure
// the dialog stays armed for a retry or cancel.
func (c *Confirm) Finish(removed bool) {
	c.busy = false
	if removed {
		c.id = ""
		c.label = ""
	}
}
