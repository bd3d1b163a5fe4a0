package controller_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-backoffice/pkg/controller"
	"github.com/goliatone/go-backoffice/pkg/metadata"
	"github.com/goliatone/go-backoffice/pkg/testsupport"
)

func TestDetailLoadPopulatesView(t *testing.T) {
	api := testsupport.NewFakeAPI()
	api.RecordsMap["rec-1"] = metadata.Record{"name": "Acme", "active": true}

	detail := controller.NewDetailController(api, "customers", "rec-1", "viewer")
	require.NoError(t, detail.Load(testsupport.Context()))

	view := detail.View()
	require.NotNil(t, view.Entity)
	assert.Equal(t, "rec-1", view.RecordID)
	assert.Equal(t, "Acme", view.Record["name"])
	assert.True(t, view.Capabilities.CanRead)
}

func TestDetailDeleteInvalidates(t *testing.T) {
	api := testsupport.NewFakeAPI()
	api.RecordsMap["rec-1"] = metadata.Record{"name": "Acme"}
	inv := controller.NewInvalidations()

	detail := controller.NewDetailController(api, "customers", "rec-1", "admin",
		controller.WithDetailInvalidations(inv))
	require.NoError(t, detail.Load(testsupport.Context()))

	require.NoError(t, detail.DeleteRecord(testsupport.Context()))
	assert.Equal(t, []string{"rec-1"}, api.Deleted)
	assert.Equal(t, uint64(1), inv.Version("customers"))
	assert.True(t, detail.Stale())
}

func TestDetailClosedControllerDropsLateLoad(t *testing.T) {
	api := testsupport.NewFakeAPI()
	api.RecordsMap["rec-1"] = metadata.Record{"name": "Acme"}
	detail := controller.NewDetailController(api, "customers", "rec-1", "viewer")

	release := make(chan struct{})
	started := make(chan struct{}, 1)
	api.Before = func(method string) {
		if method == "Record" {
			started <- struct{}{}
			<-release
		}
	}

	done := make(chan error, 1)
	go func() {
		done <- detail.Load(testsupport.Context())
	}()

	<-started
	detail.Close()
	close(release)
	require.NoError(t, <-done)

	view := detail.View()
	assert.Nil(t, view.Entity)
	assert.Nil(t, view.Record)
}
