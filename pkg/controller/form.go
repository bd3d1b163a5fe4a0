package controller

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-backoffice/pkg/client"
	"github.com/goliatone/go-backoffice/pkg/metadata"
	"github.com/goliatone/go-backoffice/pkg/render"
	"github.com/goliatone/go-backoffice/pkg/validation"
)

// ErrSubmitInFlight is returned when Submit is called while the form's own
// mutation has not resolved yet. Duplicate submissions are refused, not
// queued.
var ErrSubmitInFlight = errors.New("controller: submit already in flight")

// ErrValidation is returned when a submission fails the declarative rules
// before any network dispatch. The issues are on the view.
var ErrValidation = errors.New("controller: validation failed")

// FormController drives a create or edit form for one entity. New records
// are seeded from field defaults, existing records verbatim from the fetch.
type FormController struct {
	api           EntityAPI
	entity        string
	recordID      string
	invalidations *Invalidations

	mu         sync.Mutex
	gen        uint64
	closed     bool
	meta       *metadata.EntityMetadata
	values     map[string]any
	options    map[string][]metadata.Option
	pending    map[string]bool
	errors     map[string][]string
	formError  string
	submitting bool
}

type FormOption func(*FormController)

// WithFormInvalidations wires the shared mutation tracker; saves bump the
// entity's version so list and detail views refetch.
func WithFormInvalidations(inv *Invalidations) FormOption {
	return func(c *FormController) {
		c.invalidations = inv
	}
}

// NewFormController builds a controller for the given entity. An empty
// recordID means a create form.
func NewFormController(api EntityAPI, entity, recordID string, options ...FormOption) *FormController {
	c := &FormController{
		api:      api,
		entity:   entity,
		recordID: recordID,
		values:   make(map[string]any),
		options:  make(map[string][]metadata.Option),
		pending:  make(map[string]bool),
	}
	for _, opt := range options {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Surface returns the form surface implied by the record id.
func (c *FormController) Surface() metadata.Surface {
	if c.recordID == "" {
		return metadata.SurfaceCreate
	}
	return metadata.SurfaceUpdate
}

// Load fetches metadata and, for an edit form, the record. New forms are
// seeded with each field's declared default. Results arriving after Close
// or a newer Load are discarded.
func (c *FormController) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.gen++
	gen := c.gen
	c.mu.Unlock()

	meta, err := c.api.EntityMetadata(ctx, c.entity)
	if err != nil {
		return fmt.Errorf("controller: form %s: %w", c.entity, err)
	}

	values := make(map[string]any)
	if c.recordID == "" {
		for _, field := range meta.Fields {
			if field.DefaultValue != nil {
				values[field.Name] = field.DefaultValue
			}
		}
	} else {
		record, err := c.api.Record(ctx, c.entity, c.recordID)
		if err != nil {
			return fmt.Errorf("controller: form %s/%s: %w", c.entity, c.recordID, err)
		}
		for key, value := range record {
			values[key] = value
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed || gen != c.gen {
		return nil
	}
	c.meta = meta
	c.values = values
	c.errors = nil
	c.formError = ""
	return nil
}

// LoadOptions fetches option lists for every option-backed field on the
// form's surface. While a fetch is outstanding the field stays in the
// pending set so the renderer shows a loading placeholder instead of an
// empty select. Failed lookups stay pending rather than flashing "no
// options" for a list that does exist server-side.
func (c *FormController) LoadOptions(ctx context.Context) error {
	c.mu.Lock()
	if c.meta == nil || c.closed {
		c.mu.Unlock()
		return nil
	}
	gen := c.gen
	fields := c.meta.FieldsFor(c.Surface())
	var backed []string
	for _, field := range fields {
		if field.OptionBacked() {
			backed = append(backed, field.Name)
			c.pending[field.Name] = true
		}
	}
	c.mu.Unlock()

	var firstErr error
	for _, name := range backed {
		options, err := c.api.FieldOptions(ctx, c.entity, c.recordID, name)
		c.mu.Lock()
		if c.closed || gen != c.gen {
			c.mu.Unlock()
			return firstErr
		}
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("controller: options %s.%s: %w", c.entity, name, err)
			}
		} else {
			c.options[name] = options
			delete(c.pending, name)
		}
		c.mu.Unlock()
	}
	return firstErr
}

// SetValue records an edited field value.
func (c *FormController) SetValue(field string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[field] = value
}

// SetValues replaces edited values wholesale, e.g. from a posted form.
func (c *FormController) SetValues(values map[string]any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, value := range values {
		c.values[key] = value
	}
}

// Submit sanitizes the current values and creates or updates the record.
// A second Submit while the first is in flight returns ErrSubmitInFlight.
// On success dependent reads are invalidated; on an API failure the
// payload's message and field errors are captured for re-rendering and the
// error is returned.
func (c *FormController) Submit(ctx context.Context) (metadata.Record, error) {
	c.mu.Lock()
	if c.meta == nil {
		c.mu.Unlock()
		return nil, fmt.Errorf("controller: form %s: submit before load", c.entity)
	}
	if c.submitting {
		c.mu.Unlock()
		return nil, ErrSubmitInFlight
	}
	if result := validation.CheckForm(c.meta, c.Surface(), c.values); !result.Valid() {
		c.errors = result.Messages()
		c.mu.Unlock()
		return nil, ErrValidation
	}
	c.submitting = true
	c.formError = ""
	c.errors = nil
	payload := SanitizePayload(c.meta, c.values)
	c.mu.Unlock()

	var record metadata.Record
	var err error
	if c.recordID == "" {
		record, err = c.api.Create(ctx, c.entity, payload)
	} else {
		record, err = c.api.Update(ctx, c.entity, c.recordID, payload)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		payload := client.ErrorPayload(err)
		c.formError = render.ErrorMessage(payload)
		c.errors = render.FieldErrors(payload)
		return nil, fmt.Errorf("controller: save %s: %w", c.entity, err)
	}
	c.invalidations.Invalidate(c.entity)
	return record, nil
}

// Close discards the controller.
func (c *FormController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// View snapshots the form state for rendering.
func (c *FormController) View() render.FormView {
	c.mu.Lock()
	defer c.mu.Unlock()

	values := make(map[string]any, len(c.values))
	for key, value := range c.values {
		values[key] = value
	}
	pending := make(map[string]bool, len(c.pending))
	for key := range c.pending {
		pending[key] = true
	}
	options := make(map[string][]metadata.Option, len(c.options))
	for key, list := range c.options {
		options[key] = list
	}

	return render.FormView{
		Entity:         c.meta,
		Surface:        c.Surface(),
		RecordID:       c.recordID,
		Values:         values,
		Options:        options,
		PendingOptions: pending,
		Errors:         c.errors,
		FormError:      c.formError,
		Submitting:     c.submitting,
	}
}

// SanitizePayload prepares form values for transmission: display companion
// keys never go back to the API, nil values mean "not provided" and are
// dropped, and an empty string on a uuid field becomes an explicit null so
// the API clears the relation instead of rejecting an invalid UUID.
func SanitizePayload(meta *metadata.EntityMetadata, values map[string]any) map[string]any {
	payload := make(map[string]any, len(values))
	for key, value := range values {
		if strings.HasSuffix(key, metadata.DisplaySuffix) {
			continue
		}
		if value == nil {
			continue
		}
		if text, ok := value.(string); ok && text == "" {
			if field, ok := meta.Field(key); ok && field.DataType == metadata.TypeUUID {
				payload[key] = nil
				continue
			}
		}
		payload[key] = value
	}
	return payload
}
