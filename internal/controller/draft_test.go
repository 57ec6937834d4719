package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fleetdesk/internal/api"
)

func truckFields() []Field {
	return []Field{
		{Name: "plateNumber", Label: "Plate number", Kind: Text, Required: true},
		{Name: "capacity", Label: "Capacity", Kind: Number},
		{Name: "status", Label: "Status", Kind: Select, Options: []string{"active", "retired"}},
	}
}

func TestOpenCreateSeedsDefaults(t *testing.T) {
	d := NewDraft(truckFields())
	d.OpenCreate(map[string]string{"status": "active"})

	assert.Equal(t, ModeCreating, d.Mode())
	assert.Equal(t, "active", d.Value("status"))
	assert.Empty(t, d.EditingID())
}

func TestOpenEditCopiesValues(t *testing.T) {
	d := NewDraft(truckFields())
	values := map[string]string{"plateNumber": "B-TR 1234", "capacity": "24"}
	d.OpenEdit("abc", values)

	values["plateNumber"] = "mutated after open"
	assert.Equal(t, "B-TR 1234", d.Value("plateNumber"), "draft owns its copy")
	assert.Equal(t, "abc", d.EditingID())
	assert.Equal(t, ModeEditing, d.Mode())
}

func TestSetFieldClearsFieldError(t *testing.T) {
	d := NewDraft(truckFields())
	d.OpenCreate(nil)
	d.ApplyServerError(&api.ValidationError{Fields: map[string]string{"plateNumber": "taken"}})
	require.Equal(t, "taken", d.FieldError("plateNumber"))

	d.SetField("plateNumber", "B-TR 9999")
	assert.Empty(t, d.FieldError("plateNumber"), "error clears on edit, not on submit")
}

func TestBlurFieldSnapsBadNumberBack(t *testing.T) {
	d := NewDraft(truckFields())
	d.OpenCreate(nil)

	d.SetField("capacity", "24.5")
	d.BlurField("capacity")
	require.Equal(t, "24.5", d.Value("capacity"))

	// Transient garbage never survives losing focus.
	d.SetField("capacity", "24.5x")
	d.BlurField("capacity")
	assert.Equal(t, "24.5", d.Value("capacity"))

	// Emptying the field is allowed.
	d.SetField("capacity", "")
	d.BlurField("capacity")
	assert.Empty(t, d.Value("capacity"))
}

func TestPayloadValidatesAndCoerces(t *testing.T) {
	d := NewDraft(truckFields())
	d.OpenCreate(nil)
	d.SetField("plateNumber", "B-TR 1234")
	d.SetField("capacity", "24.5")

	payload, err := d.Payload()
	require.NoError(t, err)
	assert.Equal(t, "B-TR 1234", payload["plateNumber"])
	assert.Equal(t, 24.5, payload["capacity"])
	_, present := payload["status"]
	assert.False(t, present, "empty optional fields are omitted")
}

func TestPayloadMissingRequiredField(t *testing.T) {
	d := NewDraft(truckFields())
	d.OpenCreate(nil)

	payload, err := d.Payload()
	require.Error(t, err)
	assert.Nil(t, payload)
	assert.Equal(t, "Plate number is required", d.FieldError("plateNumber"))
	assert.NotEmpty(t, d.GeneralError())
}

func TestPayloadRequiredOnCreateSkipsEdits(t *testing.T) {
	fields := []Field{
		{Name: "username", Label: "Username", Kind: Text, Required: true},
		{Name: "password", Label: "Password", Kind: Text, RequiredOnCreate: true},
	}

	d := NewDraft(fields)
	d.OpenCreate(nil)
	d.SetField("username", "dispatcher")
	_, err := d.Payload()
	require.Error(t, err)
	assert.Equal(t, "Password is required", d.FieldError("password"))

	d.OpenEdit("u1", map[string]string{"username": "dispatcher"})
	payload, err := d.Payload()
	require.NoError(t, err, "a blank password on edit keeps the stored one")
	_, present := payload["password"]
	assert.False(t, present)
}

func TestApplyServerErrorMapsDottedPaths(t *testing.T) {
	fields := []Field{
		{Name: "totalAmount", Label: "Total amount", Kind: Number},
	}
	d := NewDraft(fields)
	d.OpenCreate(nil)
	d.Submitting = true

	d.ApplyServerError(&api.ValidationError{Fields: map[string]string{
		"pay.totalAmount": "must be positive",
	}})

	assert.False(t, d.Submitting)
	assert.Equal(t, "must be positive", d.FieldError("totalAmount"),
		"nested server paths map onto the flat form field")
	assert.Equal(t, "Please fix the validation errors below", d.GeneralError())
}

func TestApplyServerErrorGeneralMessage(t *testing.T) {
	d := NewDraft(truckFields())
	d.OpenCreate(nil)
	d.SetField("plateNumber", "B-TR 1234")
	d.Submitting = true

	d.ApplyServerError(&api.NetworkError{Err: assert.AnError})

	assert.False(t, d.Submitting)
	assert.Equal(t, "Connection problem. Check the network and retry.", d.GeneralError())
	assert.Equal(t, "B-TR 1234", d.Value("plateNumber"), "typed values survive the failure")
}

func TestCloseResets(t *testing.T) {
	d := NewDraft(truckFields())
	d.OpenEdit("abc", map[string]string{"plateNumber": "B-TR 1234"})
	d.Submitting = true

	d.Close()
	assert.Equal(t, ModeNone, d.Mode())
	assert.Empty(t, d.EditingID())
	assert.Empty(t, d.Value("plateNumber"))
	assert.False(t, d.Submitting)
}
