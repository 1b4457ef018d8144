// Package controller implements the generic CRUD resource controller. One
// Controller binds a form view and a table renderer to a single REST
// collection, switches between create and edit mode, validates records
// before they are sent and reloads the table after every mutation.
//
// No lock is held across a network call. FormState is guarded by a short
// critical section and the table renderer guards its own result set, so
// concurrent actions are memory safe and the last response to redraw wins.
package controller

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/goliatone/go-crudconsole/pkg/client"
	"github.com/goliatone/go-crudconsole/pkg/formbind"
	"github.com/goliatone/go-crudconsole/pkg/model"
	"github.com/goliatone/go-crudconsole/pkg/notify"
	"github.com/goliatone/go-crudconsole/pkg/record"
	"github.com/goliatone/go-crudconsole/pkg/table"
	"github.com/goliatone/go-crudconsole/pkg/validation"
	"github.com/goliatone/go-crudconsole/pkg/view"
)

// Controller drives one resource.
type Controller struct {
	resource  model.Resource
	baseURL   string
	client    client.Client
	form      view.Form
	table     *table.Renderer
	notifier  notify.Notifier
	confirmer view.Confirmer
	logger    zerolog.Logger

	mu    sync.Mutex
	state FormState
}

var _ table.ActionHandler = (*Controller)(nil)

// New constructs a controller for res and puts its form in create mode.
func New(res model.Resource, opts ...Option) (*Controller, error) {
	if err := res.Validate(); err != nil {
		return nil, fmt.Errorf("controller: %w", err)
	}

	c := &Controller{
		resource: res,
		notifier: notify.Nop{},
		logger:   zerolog.Nop(),
		state:    createState(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(c)
	}
	if c.baseURL == "" {
		return nil, ErrBaseURLRequired
	}

	c.logger = c.logger.With().Str("resource", res.Name).Logger()
	if c.client == nil {
		c.client = client.New(client.WithLogger(c.logger))
	}
	if c.form == nil {
		c.form = view.NewMemory()
	}
	if c.table == nil {
		c.table = table.New(res, table.WithLogger(c.logger))
	}

	c.resetState()
	return c, nil
}

// Resource returns the resource description.
func (c *Controller) Resource() model.Resource { return c.resource }

// Form returns the bound form view.
func (c *Controller) Form() view.Form { return c.form }

// Table returns the bound table renderer.
func (c *Controller) Table() *table.Renderer { return c.table }

// State returns a copy of the current form state.
func (c *Controller) State() FormState {
	c.mu.Lock()
	defer c.mu.Unlock()
	state := c.state
	state.Record = state.Record.Clone()
	return state
}

// Init resets the form, checks the backend is reachable and loads the
// default result set.
func (c *Controller) Init(ctx context.Context) error {
	c.Reset()
	if err := c.Probe(ctx); err != nil {
		return err
	}
	return c.Reload(ctx)
}

// Probe issues a single GET on the collection to check connectivity.
func (c *Controller) Probe(ctx context.Context) error {
	if _, err := c.client.Get(ctx, c.collectionURL()); err != nil {
		c.fail("API connection test failed", err)
		return err
	}
	c.logger.Debug().Msg("api connection ok")
	return nil
}

// LoadAll lists the whole collection into the table.
func (c *Controller) LoadAll(ctx context.Context) error {
	return c.load(ctx, c.collectionURL(), "Failed to load "+c.plural())
}

// LoadByID shows the single record with identity id in the table. The form
// is not touched; use LoadForEdit to edit the record.
func (c *Controller) LoadByID(ctx context.Context, id string) error {
	normalized, _, err := c.normalizeID(id)
	if err != nil {
		c.fail("Failed to load "+c.singular(), err)
		return err
	}
	rec, err := c.fetch(ctx, normalized)
	if err != nil {
		c.fail(fmt.Sprintf("Failed to load %s %s", c.singular(), normalized), err)
		return err
	}
	return c.render(record.ResultSet{rec})
}

// LoadByFilter lists the records matching filter. A null filter value is
// rejected before any request is made.
func (c *Controller) LoadByFilter(ctx context.Context, filter record.Filter) error {
	values, err := filter.Query()
	if err != nil {
		c.fail("Failed to query "+c.plural(), err)
		return err
	}
	target := c.collectionURL()
	if encoded := values.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return c.load(ctx, target, "Failed to query "+c.plural())
}

// LoadQuery reads the parameters of the named query from the form and runs
// it.
func (c *Controller) LoadQuery(ctx context.Context, name string) error {
	query, ok := c.resource.Query(name)
	if !ok {
		err := fmt.Errorf("%w: %s", ErrUnknownQuery, name)
		c.fail("Failed to query "+c.plural(), err)
		return err
	}
	filter, err := formbind.ReadFilter(query.Params, c.form)
	if err != nil {
		c.fail("Failed to query "+c.plural(), err)
		return err
	}
	return c.LoadByFilter(ctx, filter)
}

// Reload refreshes the table with the resource default filter, or the whole
// collection when the resource has none.
func (c *Controller) Reload(ctx context.Context) error {
	if len(c.resource.DefaultFilter) == 0 {
		return c.LoadAll(ctx)
	}
	filter, err := c.defaultFilter()
	if err != nil {
		c.fail("Failed to load "+c.plural(), err)
		return err
	}
	return c.LoadByFilter(ctx, filter)
}

// LoadForEdit fetches the record with identity id and switches the form to
// edit mode. On failure the form state is left untouched.
func (c *Controller) LoadForEdit(ctx context.Context, id string) error {
	normalized, _, err := c.normalizeID(id)
	if err != nil {
		c.fail("Failed to load "+c.singular(), err)
		return err
	}
	rec, err := c.fetch(ctx, normalized)
	if err != nil {
		c.fail(fmt.Sprintf("Failed to load %s %s", c.singular(), normalized), err)
		return err
	}

	identity := c.resource.IdentityField().InputID()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = FormState{Mode: ModeEdit, Record: rec.Clone(), EditingID: normalized}
	formbind.WriteForm(rec, c.resource.Fields, c.form)
	c.form.SetValue(identity, normalized)
	c.form.SetInputEnabled(identity, false)
	c.form.SetButtonEnabled(view.ButtonSave, false)
	c.form.SetButtonEnabled(view.ButtonUpdate, true)
	c.logger.Debug().Str("id", normalized).Msg("loaded for edit")
	return nil
}

// Create reads the form and submits it as a new record.
func (c *Controller) Create(ctx context.Context) error {
	rec, err := formbind.ReadForm(c.resource.CreateFields(), c.form)
	if err != nil {
		c.fail("Failed to create "+c.singular(), err)
		return err
	}
	_, err = c.CreateRecord(ctx, rec)
	return err
}

// CreateRecord validates rec and posts it to the collection. The identity is
// omitted unless the resource accepts caller-supplied identities on create.
// On success the form returns to create mode and the table is reloaded.
func (c *Controller) CreateRecord(ctx context.Context, rec record.Record) (record.Record, error) {
	fields := c.resource.CreateFields()
	if err := validation.Record(fields, rec); err != nil {
		c.fail("Failed to create "+c.singular(), err)
		return nil, err
	}
	body := project(fields, rec)

	payload, err := c.client.Post(ctx, c.collectionURL(), body)
	if err != nil {
		c.fail("Failed to create "+c.singular(), err)
		return nil, err
	}
	created := c.decodeResult(payload, body)
	if created.Get(c.resource.Identity).IsNull() {
		c.logger.Warn().Msg("created record carries no identity")
	}

	c.succeed(c.singularTitle() + " created")
	c.resetState()
	// The mutation stands; a failed reload has already been reported.
	_ = c.Reload(ctx)
	return created, nil
}

// Update reads the form and submits it for the record being edited.
func (c *Controller) Update(ctx context.Context) error {
	state := c.State()
	if state.Mode != ModeEdit {
		c.fail("Failed to update "+c.singular(), ErrNotEditing)
		return ErrNotEditing
	}
	rec, err := formbind.ReadForm(c.resource.DataFields(), c.form)
	if err != nil {
		c.fail(fmt.Sprintf("Failed to update %s %s", c.singular(), state.EditingID), err)
		return err
	}
	_, err = c.UpdateRecord(ctx, state.EditingID, rec)
	return err
}

// UpdateRecord validates rec and puts it to the item URL of id. The identity
// is always part of the body. On success the form returns to create mode and
// the table is reloaded.
func (c *Controller) UpdateRecord(ctx context.Context, id string, rec record.Record) (record.Record, error) {
	normalized, idValue, err := c.normalizeID(id)
	if err != nil {
		c.fail("Failed to update "+c.singular(), err)
		return nil, err
	}
	failure := fmt.Sprintf("Failed to update %s %s", c.singular(), normalized)

	fields := c.resource.DataFields()
	if err := validation.Record(fields, rec); err != nil {
		c.fail(failure, err)
		return nil, err
	}
	body := project(fields, rec)
	body[c.resource.Identity] = idValue

	payload, err := c.client.Put(ctx, c.itemURL(normalized), body)
	if err != nil {
		c.fail(failure, err)
		return nil, err
	}
	updated := c.decodeResult(payload, body)

	c.succeed(c.singularTitle() + " updated")
	c.resetState()
	// Reload failures reach the notifier, not the caller.
	_ = c.Reload(ctx)
	return updated, nil
}

// Remove asks for confirmation and deletes the record with identity id.
// Declining returns ErrConfirmationDeclined without sending anything. When
// the deleted record is the one being edited the form returns to create
// mode.
func (c *Controller) Remove(ctx context.Context, id string) error {
	normalized, _, err := c.normalizeID(id)
	if err != nil {
		c.fail("Failed to delete "+c.singular(), err)
		return err
	}
	failure := fmt.Sprintf("Failed to delete %s %s", c.singular(), normalized)

	confirmed, err := c.confirm(ctx, fmt.Sprintf("Delete %s %s?", c.singular(), normalized))
	if err != nil {
		c.fail(failure, err)
		return err
	}
	if !confirmed {
		c.logger.Debug().Str("id", normalized).Msg("delete declined")
		return ErrConfirmationDeclined
	}

	if _, err := c.client.Delete(ctx, c.itemURL(normalized)); err != nil {
		c.fail(failure, err)
		return err
	}

	c.succeed(c.singularTitle() + " deleted")
	c.mu.Lock()
	editing := c.state.Mode == ModeEdit && c.state.EditingID == normalized
	c.mu.Unlock()
	if editing {
		c.resetState()
	}
	// Reported by Reload; the delete itself succeeded.
	_ = c.Reload(ctx)
	return nil
}

// Reset clears the form and returns it to create mode.
func (c *Controller) Reset() {
	c.resetState()
}

// HandleAction dispatches a table row action.
func (c *Controller) HandleAction(ctx context.Context, action table.Action, id string) error {
	switch action {
	case table.ActionEdit:
		return c.LoadForEdit(ctx, id)
	case table.ActionDelete:
		return c.Remove(ctx, id)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, action)
	}
}

// HandleButton dispatches a form button. The filter button runs the first
// declared query.
func (c *Controller) HandleButton(ctx context.Context, button view.Button) error {
	switch button {
	case view.ButtonSave:
		return c.Create(ctx)
	case view.ButtonUpdate:
		return c.Update(ctx)
	case view.ButtonReset:
		c.Reset()
		return nil
	case view.ButtonQueryByID:
		return c.LoadByID(ctx, c.form.Value(c.resource.IdentityField().InputID()))
	case view.ButtonQueryByFilter:
		if len(c.resource.Queries) == 0 {
			err := fmt.Errorf("%w: %s has no queries", ErrUnknownQuery, c.resource.Name)
			c.fail("Failed to query "+c.plural(), err)
			return err
		}
		return c.LoadQuery(ctx, c.resource.Queries[0].Name)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownAction, button)
	}
}

func (c *Controller) resetState() {
	identity := c.resource.IdentityField().InputID()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = createState()
	formbind.Clear(c.resource.Fields, c.form)
	c.form.SetInputEnabled(identity, true)
	c.form.SetButtonEnabled(view.ButtonSave, true)
	c.form.SetButtonEnabled(view.ButtonUpdate, false)
}

func (c *Controller) load(ctx context.Context, target, failure string) error {
	payload, err := c.client.Get(ctx, target)
	if err != nil {
		c.fail(failure, err)
		return err
	}
	rs, err := record.DecodeSet(c.resource, payload)
	if err != nil {
		c.fail(failure, err)
		return err
	}
	return c.render(rs)
}

func (c *Controller) fetch(ctx context.Context, id string) (record.Record, error) {
	payload, err := c.client.Get(ctx, c.itemURL(id))
	if err != nil {
		return nil, err
	}
	return record.Decode(c.resource, payload)
}

func (c *Controller) render(rs record.ResultSet) error {
	if err := c.table.Render(rs); err != nil {
		c.fail("Failed to render "+c.plural(), err)
		return err
	}
	return nil
}

func (c *Controller) confirm(ctx context.Context, message string) (bool, error) {
	if c.confirmer == nil {
		return false, nil
	}
	return c.confirmer.Confirm(ctx, message)
}

// decodeResult types the mutation response, falling back to the submitted
// body when the backend returned nothing usable.
func (c *Controller) decodeResult(payload any, body record.Record) record.Record {
	if payload == nil {
		return body.Clone()
	}
	rec, err := record.Decode(c.resource, payload)
	if err != nil {
		c.logger.Warn().Err(err).Msg("unexpected mutation response")
		return body.Clone()
	}
	return rec
}

func (c *Controller) defaultFilter() (record.Filter, error) {
	filter := make(record.Filter, len(c.resource.DefaultFilter))
	for key, raw := range c.resource.DefaultFilter {
		param, ok := c.resource.QueryParam(key)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownQuery, key)
		}
		value, err := formbind.CoerceParam(param, raw)
		if err != nil {
			return nil, err
		}
		filter[key] = value
	}
	return filter, nil
}

func (c *Controller) normalizeID(raw string) (string, record.Value, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", record.Value{}, ErrMissingID
	}
	field := c.resource.IdentityField()
	field.Required = true
	value, err := formbind.Coerce(field, text)
	if err != nil {
		return "", record.Value{}, fmt.Errorf("%w: %q", ErrInvalidID, text)
	}
	return value.String(), value, nil
}

func (c *Controller) collectionURL() string {
	return c.baseURL + "/" + c.resource.CollectionPath()
}

func (c *Controller) itemURL(id string) string {
	return c.collectionURL() + "/" + url.PathEscape(id)
}

func (c *Controller) fail(action string, err error) {
	c.logger.Warn().Err(err).Msg(action)
	c.notifier.ReportError(action + ": " + describe(err))
}

func (c *Controller) succeed(message string) {
	c.logger.Info().Msg(message)
	c.notifier.ReportSuccess(message)
}

func (c *Controller) plural() string {
	return strings.ToLower(c.resource.DisplayLabel())
}

func (c *Controller) singular() string {
	return strings.ToLower(c.resource.SingularLabel())
}

func (c *Controller) singularTitle() string {
	label := c.resource.SingularLabel()
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}

func project(fields []model.Field, rec record.Record) record.Record {
	out := make(record.Record, len(fields)+1)
	for _, field := range fields {
		out[field.Name] = rec.Get(field.Name)
	}
	return out
}
