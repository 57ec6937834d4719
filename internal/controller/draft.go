package controller

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"fleetdesk/internal/api"
)

// FieldKind drives input handling and payload coercion.
type FieldKind int

const (
	Text FieldKind = iota
	Number
	Select
	Date
)

// Field describes one form field of a resource's create/edit form.
type Field struct {
	Name     string
	Label    string
	Kind     FieldKind
	Options  []string // Select only
	Required bool
	// RequiredOnCreate marks fields the server needs only for new records
	// (passwords). Edits may leave them blank to keep the stored value.
	RequiredOnCreate bool
}

// requiredIn reports whether the field must be filled in the given mode.
func (f Field) requiredIn(mode Mode) bool {
	return f.Required || (f.RequiredOnCreate && mode == ModeCreating)
}

// Mode is the draft's lifecycle state.
type Mode int

const (
	ModeNone Mode = iota
	ModeCreating
	ModeEditing
)

// Draft is the transient form state behind a create or edit modal. Values
// are kept as strings while the user types; coercion to numbers happens on
// blur and again when the payload is built.
type Draft struct {
	mode       Mode
	fields     []Field
	editID     string
	values     map[string]string
	lastGood   map[string]string
	fieldErrs  map[string]string
	general    string
	Submitting bool
}

// NewDraft builds a closed draft over the given field schema.
func NewDraft(fields []Field) *Draft {
	return &Draft{
		fields:    fields,
		values:    make(map[string]string),
		lastGood:  make(map[string]string),
		fieldErrs: make(map[string]string),
	}
}

// Mode returns the current lifecycle state.
func (d *Draft) Mode() Mode { return d.mode }

// Fields returns the form schema in display order.
func (d *Draft) Fields() []Field { return d.fields }

// EditingID returns the id of the record being edited, if any.
func (d *Draft) EditingID() string { return d.editID }

// OpenCreate starts a create draft seeded with defaults.
func (d *Draft) OpenCreate(defaults map[string]string) {
	d.reset()
	d.mode = ModeCreating
	for k, v := range defaults {
		d.values[k] = v
		d.lastGood[k] = v
	}
}

// OpenEdit starts an edit draft from a copy of the record's current values.
// Callers pass a freshly built map, never a view into the list's cached
// copy, so typing cannot mutate the list until the server confirms.
func (d *Draft) OpenEdit(id string, values map[string]string) {
	d.reset()
	d.mode = ModeEditing
	d.editID = id
	for k, v := range values {
		d.values[k] = v
		d.lastGood[k] = v
	}
}

// Close discards the draft.
func (d *Draft) Close() { d.reset() }

func (d *Draft) reset() {
	d.mode = ModeNone
	d.editID = ""
	d.values = make(map[string]string)
	d.lastGood = make(map[string]string)
	d.fieldErrs = make(map[string]string)
	d.general = ""
	d.Submitting = false
}

// Value returns the current raw value of a field.
func (d *Draft) Value(name string) string { return d.values[name] }

// SetField records a keystroke-level update and clears that field's error:
// the error goes away as soon as the user edits the field, not on submit.
func (d *Draft) SetField(name, value string) {
	d.values[name] = value
	delete(d.fieldErrs, name)
}

// BlurField finalizes a field when focus leaves it. Number fields tolerate
// transient input like "-" or "1." while typing; on blur an unparseable
// value snaps back to the last known good one.
func (d *Draft) BlurField(name string) {
	f := d.field(name)
	if f == nil || f.Kind != Number {
		return
	}
	v := strings.TrimSpace(d.values[name])
	if v == "" {
		d.lastGood[name] = ""
		return
	}
	if _, err := strconv.ParseFloat(v, 64); err != nil {
		d.values[name] = d.lastGood[name]
		return
	}
	d.values[name] = v
	d.lastGood[name] = v
}

// FieldError returns the server-reported error for a field, if any.
func (d *Draft) FieldError(name string) string { return d.fieldErrs[name] }

// GeneralError returns the top-of-form message, if any.
func (d *Draft) GeneralError() string { return d.general }

// Payload validates required fields, coerces numbers, and builds the JSON
// body for create/update. A nil map with non-nil error means client-side
// validation failed and the errors are already recorded on the draft.
func (d *Draft) Payload() (map[string]any, error) {
	payload := make(map[string]any, len(d.fields))
	ok := true
	for _, f := range d.fields {
		raw := strings.TrimSpace(d.values[f.Name])
		if raw == "" {
			if f.requiredIn(d.mode) {
				d.fieldErrs[f.Name] = f.Label + " is required"
				ok = false
			}
			continue
		}
		switch f.Kind {
		case Number:
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				d.fieldErrs[f.Name] = f.Label + " must be a number"
				ok = false
				continue
			}
			payload[f.Name] = n
		default:
			payload[f.Name] = raw
		}
	}
	if !ok {
		d.general = "Please fix the highlighted fields"
		return nil, fmt.Errorf("draft has invalid fields")
	}
	return payload, nil
}

// ApplyServerError records a submit failure. Validation errors map onto
// their fields and the form stays open; anything else becomes the general
// message. Field values are untouched either way.
func (d *Draft) ApplyServerError(err error) {
	d.Submitting = false
	var v *api.ValidationError
	if errors.As(err, &v) {
		for field, msg := range v.Fields {
			// Servers report nested fields with dotted paths
			// ("pay.totalAmount"); the form knows the leaf name.
			if i := strings.LastIndex(field, "."); i >= 0 {
				field = field[i+1:]
			}
			d.fieldErrs[field] = msg
		}
		d.general = "Please fix the validation errors below"
		return
	}
	d.general = errorMessage(err)
}

func (d *Draft) field(name string) *Field {
	for i := range d.fields {
		if d.fields[i].Name == name {
			return &d.fields[i]
		}
	}
	return nil
}
