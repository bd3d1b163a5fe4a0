package controller_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-backoffice/pkg/client"
	"github.com/goliatone/go-backoffice/pkg/controller"
	"github.com/goliatone/go-backoffice/pkg/metadata"
	"github.com/goliatone/go-backoffice/pkg/testsupport"
)

func TestFormNewRecordSeedsDefaults(t *testing.T) {
	api := testsupport.NewFakeAPI()
	form := controller.NewFormController(api, "customers", "")
	require.NoError(t, form.Load(testsupport.Context()))

	view := form.View()
	assert.Equal(t, metadata.SurfaceCreate, view.Surface)
	assert.Equal(t, true, view.Values["active"])
	_, hasName := view.Values["name"]
	assert.False(t, hasName)
}

func TestFormEditSeedsRecordVerbatim(t *testing.T) {
	api := testsupport.NewFakeAPI()
	api.RecordsMap["rec-1"] = metadata.Record{"name": "Acme", "active": false}

	form := controller.NewFormController(api, "customers", "rec-1")
	require.NoError(t, form.Load(testsupport.Context()))

	view := form.View()
	assert.Equal(t, metadata.SurfaceUpdate, view.Surface)
	assert.Equal(t, "Acme", view.Values["name"])
	assert.Equal(t, false, view.Values["active"])
}

func TestSanitizePayload(t *testing.T) {
	meta := testsupport.Entity()
	meta.Fields = append(meta.Fields, metadata.FieldDescriptor{
		Name:     "owner_id",
		DataType: metadata.TypeUUID,
	})

	payload := controller.SanitizePayload(meta, map[string]any{
		"name":             "Acme",
		"owner_id":         "",
		"owner_id_display": "Jordan",
		"notes":            nil,
	})

	want := map[string]any{
		"name":     "Acme",
		"owner_id": nil,
	}
	assert.Equal(t, want, payload)

	value, present := payload["owner_id"]
	assert.True(t, present)
	assert.Nil(t, value)
}

func TestSanitizePayloadKeepsEmptyStrings(t *testing.T) {
	meta := testsupport.Entity()
	payload := controller.SanitizePayload(meta, map[string]any{"name": ""})
	assert.Equal(t, map[string]any{"name": ""}, payload)
}

func TestFormSubmitCreatesAndInvalidates(t *testing.T) {
	api := testsupport.NewFakeAPI()
	inv := controller.NewInvalidations()
	form := controller.NewFormController(api, "customers", "",
		controller.WithFormInvalidations(inv))
	require.NoError(t, form.Load(testsupport.Context()))
	form.SetValue("name", "Acme")

	record, err := form.Submit(testsupport.Context())
	require.NoError(t, err)

	assert.Equal(t, "Acme", record["name"])
	assert.Equal(t, map[string]any{"name": "Acme", "active": true}, api.LastPayload)
	assert.Equal(t, uint64(1), inv.Version("customers"))
}

func TestFormSubmitUpdatesExistingRecord(t *testing.T) {
	api := testsupport.NewFakeAPI()
	api.RecordsMap["rec-1"] = metadata.Record{"name": "Acme", "active": true}
	form := controller.NewFormController(api, "customers", "rec-1")
	require.NoError(t, form.Load(testsupport.Context()))
	form.SetValue("name", "Acme Corp")

	_, err := form.Submit(testsupport.Context())
	require.NoError(t, err)

	assert.Contains(t, api.Calls, "Update")
	assert.Equal(t, "Acme Corp", api.LastPayload["name"])
}

func TestFormSubmitValidatesBeforeDispatch(t *testing.T) {
	api := testsupport.NewFakeAPI()
	form := controller.NewFormController(api, "customers", "")
	require.NoError(t, form.Load(testsupport.Context()))

	_, err := form.Submit(testsupport.Context())
	assert.ErrorIs(t, err, controller.ErrValidation)

	view := form.View()
	assert.Equal(t, []string{"Name is required"}, view.Errors["name"])
	assert.NotContains(t, api.Calls, "Create")
}

func TestFormSubmitRefusedWhileInFlight(t *testing.T) {
	api := testsupport.NewFakeAPI()
	form := controller.NewFormController(api, "customers", "")
	require.NoError(t, form.Load(testsupport.Context()))
	form.SetValue("name", "Acme")

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	api.Before = func(method string) {
		if method == "Create" {
			started <- struct{}{}
			<-release
		}
	}

	done := make(chan error, 1)
	go func() {
		_, err := form.Submit(testsupport.Context())
		done <- err
	}()

	<-started
	assert.True(t, form.View().Submitting)
	_, err := form.Submit(testsupport.Context())
	assert.ErrorIs(t, err, controller.ErrSubmitInFlight)

	close(release)
	require.NoError(t, <-done)
	assert.False(t, form.View().Submitting)
}

func TestFormSubmitSurfacesAPIErrors(t *testing.T) {
	api := testsupport.NewFakeAPI()
	form := controller.NewFormController(api, "customers", "")
	require.NoError(t, form.Load(testsupport.Context()))
	form.SetValue("name", "Acme")

	api.Err = &client.APIError{
		StatusCode: http.StatusUnprocessableEntity,
		Method:     http.MethodPost,
		Endpoint:   "/api/dynamic/customers",
		Payload: map[string]any{
			"message": "Name is already taken",
			"fields":  map[string]any{"name": "already taken"},
		},
	}

	_, err := form.Submit(testsupport.Context())
	require.Error(t, err)

	view := form.View()
	assert.Equal(t, "Name is already taken", view.FormError)
	assert.Equal(t, []string{"already taken"}, view.Errors["name"])
	assert.False(t, view.Submitting)
}

func TestFormOptionsPendingUntilResolved(t *testing.T) {
	api := testsupport.NewFakeAPI()
	api.Meta.Fields = append(api.Meta.Fields, metadata.FieldDescriptor{
		Name:            "owner_id",
		DisplayName:     "Owner",
		DataType:        metadata.TypeUUID,
		ShowInCreate:    true,
		HasRelationship: true,
	})
	api.Options["owner_id"] = []metadata.Option{{Value: "u1", Label: "Jordan"}}

	form := controller.NewFormController(api, "customers", "")
	require.NoError(t, form.Load(testsupport.Context()))

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	api.Before = func(method string) {
		if method == "FieldOptions" {
			started <- struct{}{}
			<-release
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- form.LoadOptions(testsupport.Context())
	}()

	<-started
	assert.True(t, form.View().PendingOptions["owner_id"])

	close(release)
	require.NoError(t, <-done)

	view := form.View()
	assert.False(t, view.PendingOptions["owner_id"])
	assert.Equal(t, []metadata.Option{{Value: "u1", Label: "Jordan"}}, view.Options["owner_id"])
}
