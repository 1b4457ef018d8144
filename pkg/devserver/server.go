// Package devserver is an in-memory REST backend serving the resource
// collections the console manages. Creates answer 201, unknown records 404
// with a JSON string body, and DELETE returns the deleted record. List
// endpoints honour the query parameters declared on each resource.
package devserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/goliatone/go-crudconsole/pkg/formbind"
	"github.com/goliatone/go-crudconsole/pkg/model"
	"github.com/goliatone/go-crudconsole/pkg/record"
	"github.com/goliatone/go-crudconsole/pkg/validation"
)

// DefaultPrefix is the route group every collection is mounted under.
const DefaultPrefix = "/api"

// Option customises a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithPrefix changes the route group prefix.
func WithPrefix(prefix string) Option {
	return func(s *Server) {
		s.prefix = "/" + strings.Trim(prefix, "/")
	}
}

// Server serves one collection per resource.
type Server struct {
	router *gin.Engine
	stores map[string]*store
	logger zerolog.Logger
	prefix string
}

// New builds the server and its routes.
func New(list []model.Resource, opts ...Option) (*Server, error) {
	s := &Server{
		stores: make(map[string]*store, len(list)),
		logger: zerolog.Nop(),
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(s)
	}

	s.router = gin.New()
	s.router.Use(gin.Recovery(), requestLogger(s.logger))
	api := s.router.Group(s.prefix)
	for _, res := range list {
		if err := res.Validate(); err != nil {
			return nil, fmt.Errorf("devserver: %w", err)
		}
		if _, dup := s.stores[res.Name]; dup {
			return nil, fmt.Errorf("devserver: resource %q registered twice", res.Name)
		}
		st := newStore(res)
		s.stores[res.Name] = st

		h := &handler{store: st, logger: s.logger.With().Str("resource", res.Name).Logger()}
		base := "/" + res.CollectionPath()
		api.GET(base, h.list)
		api.POST(base, h.create)
		api.GET(base+"/:id", h.get)
		api.PUT(base+"/:id", h.update)
		api.DELETE(base+"/:id", h.remove)
	}
	return s, nil
}

// Handler exposes the router, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Seed inserts records into the named resource.
func (s *Server) Seed(name string, recs ...record.Record) error {
	st, ok := s.stores[name]
	if !ok {
		return fmt.Errorf("devserver: unknown resource %q", name)
	}
	for _, rec := range recs {
		if _, err := st.insert(rec); err != nil {
			return fmt.Errorf("devserver: seed %s: %w", name, err)
		}
	}
	return nil
}

// Records returns the current contents of a collection.
func (s *Server) Records(name string) record.ResultSet {
	st, ok := s.stores[name]
	if !ok {
		return nil
	}
	return st.list(nil)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", addr).Str("prefix", s.prefix).Msg("dev backend listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func requestLogger(logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Str("query", c.Request.URL.RawQuery).
			Int("status", c.Writer.Status()).
			Dur("elapsed", time.Since(start)).
			Str("request_id", c.GetHeader("X-Request-ID")).
			Msg("request")
	}
}

type handler struct {
	store  *store
	logger zerolog.Logger
}

func (h *handler) resource() model.Resource { return h.store.resource }

// fail writes message as a JSON string body.
func (h *handler) fail(c *gin.Context, status int, message string) {
	c.JSON(status, message)
}

func (h *handler) list(c *gin.Context) {
	res := h.resource()
	var conds []condition
	for name, values := range c.Request.URL.Query() {
		if len(values) == 0 {
			continue
		}
		param, ok := res.QueryParam(name)
		if !ok {
			// Plain field names filter by equality.
			field, found := res.Field(name)
			if !found {
				continue
			}
			param = model.QueryParam{Name: field.Name, Type: field.Type, Op: model.FilterOpEqual}
		}
		value, err := formbind.CoerceParam(param, values[0])
		if err != nil {
			h.fail(c, http.StatusBadRequest, "Invalid query parameter "+name)
			return
		}
		if value.IsNull() {
			continue
		}
		conds = append(conds, condition{field: param.TargetField(), op: param.Op, value: value})
	}
	c.JSON(http.StatusOK, h.store.list(conds))
}

func (h *handler) get(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	rec, err := h.store.get(id)
	if err != nil {
		h.fail(c, http.StatusNotFound, h.notFound(id))
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (h *handler) create(c *gin.Context) {
	rec, ok := h.readBody(c)
	if !ok {
		return
	}
	created, err := h.store.insert(rec)
	switch {
	case errors.Is(err, errDuplicateID):
		h.fail(c, http.StatusConflict, fmt.Sprintf("%s %s already exists", h.resource().SingularLabel(), rec.Get(h.resource().Identity)))
		return
	case err != nil:
		h.fail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handler) update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	rec, ok := h.readBody(c)
	if !ok {
		return
	}
	idValue, _ := formbind.Coerce(h.identityField(), id)
	rec[h.resource().Identity] = idValue

	updated, err := h.store.replace(id, rec)
	if err != nil {
		h.fail(c, http.StatusNotFound, h.notFound(id))
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handler) remove(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	deleted, err := h.store.remove(id)
	if err != nil {
		h.fail(c, http.StatusNotFound, h.notFound(id))
		return
	}
	c.JSON(http.StatusOK, deleted)
}

func (h *handler) identityField() model.Field {
	field := h.resource().IdentityField()
	field.Required = true
	return field
}

// parseID normalises the :id path segment against the identity type.
func (h *handler) parseID(c *gin.Context) (string, bool) {
	value, err := formbind.Coerce(h.identityField(), c.Param("id"))
	if err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid ID")
		return "", false
	}
	return value.String(), true
}

func (h *handler) readBody(c *gin.Context) (record.Record, bool) {
	decoder := json.NewDecoder(c.Request.Body)
	decoder.UseNumber()
	var payload any
	if err := decoder.Decode(&payload); err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body")
		return nil, false
	}
	rec, err := record.Decode(h.resource(), payload)
	if err != nil {
		h.fail(c, http.StatusBadRequest, "Invalid request body: "+strings.TrimPrefix(err.Error(), "record: "))
		return nil, false
	}
	if err := validation.Record(h.resource().DataFields(), rec); err != nil {
		h.fail(c, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return rec, true
}

func (h *handler) notFound(id string) string {
	return fmt.Sprintf("%s %s not found", h.resource().SingularLabel(), id)
}
