package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	log "github.com/sirupsen/logrus"

	"actividad-api/domain"
)

const (
	basePath   = "/api/v1"
	apiTitle   = "Project Management API"
	apiVersion = "1.0.0"
)

type messageResponse struct {
	Message string `json:"message"`
}

type serviceInfo struct {
	Message       string            `json:"message"`
	Version       string            `json:"version"`
	Documentation string            `json:"documentation"`
	Endpoints     map[string]string `json:"endpoints"`
}

type deps struct {
	store   Storage
	deduper Deduper
	events  EventSink
	logger  *log.Logger
}

// Register wires up all API routes on the provided Echo instance. deduper and
// events may be nil.
func Register(e *echo.Echo, store Storage, deduper Deduper, events EventSink, logger *log.Logger) {
	if logger == nil {
		panic("Logger is not initialized")
	}
	e.JSONSerializer = SonicSerializer{}

	d := deps{store: store, deduper: deduper, events: events, logger: logger}
	g := e.Group(basePath, GzipRequestMiddleware(), RequestMetrics(logger))
	for _, r := range routes {
		g.Add(r.method, r.path, r.handler(d))
	}

	doc := buildOpenAPI(routes)
	e.GET("/", root)
	e.GET(docsPath, docsPage)
	e.GET(docsJSONPath, docsJSON(doc))
	e.GET("/healthz", healthz)
}

func root(c echo.Context) error {
	return c.JSON(http.StatusOK, serviceInfo{
		Message:       apiTitle,
		Version:       apiVersion,
		Documentation: docsPath,
		Endpoints: map[string]string{
			"people":   basePath + "/people",
			"projects": basePath + "/projects",
			"tasks":    basePath + "/tasks",
		},
	})
}

func healthz(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func statusFor(err error) int {
	var validation *domain.ValidationError
	var reference *domain.ReferenceError
	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &reference):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// fail records the failing stage and writes the error response.
func (d deps) fail(c echo.Context, stage string, err error) error {
	metricsFrom(c).SetErrorStage(stage)
	status := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		d.logger.WithError(err).WithField("route", c.Path()).Error("request failed")
		msg = http.StatusText(status)
	}
	return c.JSON(status, messageResponse{Message: msg})
}

func (d deps) decode(c echo.Context) (bodyFields, error) {
	start := time.Now()
	fields, err := decodeBody(c)
	metricsFrom(c).ObserveDecode(time.Since(start))
	return fields, err
}

func pathID(c echo.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	return id, err == nil
}

// claim records the request's idempotency key. fresh is false for a repeated
// key; release frees the key again after a failed create.
func (d deps) claim(c echo.Context, scope string) (release func(), fresh bool) {
	key := c.Request().Header.Get(IdempotencyHeader)
	if d.deduper == nil || key == "" {
		return func() {}, true
	}
	ctx := c.Request().Context()
	added, err := d.deduper.Add(ctx, scope, key)
	if err != nil {
		d.logger.WithError(err).Warn("idempotency check failed; processing without it")
		return func() {}, true
	}
	if !added {
		return nil, false
	}
	return func() {
		if rerr := d.deduper.Remove(context.WithoutCancel(ctx), scope, key); rerr != nil {
			d.logger.Errorf("dedupe rollback failed, err: %v, key: %s, scope: %s", rerr, key, scope)
		}
	}, true
}

func (d deps) publish(entity string, id int, action string, payload any) {
	if d.events == nil {
		return
	}
	ev := domain.ChangeEvent{
		ID:         uuid.NewString(),
		EntityType: entity,
		EntityID:   id,
		Type:       domain.EventType(entity, action),
		Timestamp:  nextTimestamp(),
	}
	if payload != nil {
		data, err := sonic.Marshal(payload)
		if err != nil {
			d.logger.WithError(err).Warn("encode change event")
		} else {
			ev.Data = sonic.NoCopyRawMessage(data)
		}
	}
	if !d.events.Submit(ev) {
		d.logger.WithField("type", ev.Type).Warn("event buffer saturated; dropping change event")
	}
}

func list[T any](d deps, c echo.Context, fetch func(context.Context) ([]T, error)) error {
	start := time.Now()
	items, err := fetch(c.Request().Context())
	metricsFrom(c).ObserveStore(time.Since(start))
	if err != nil {
		return d.fail(c, "store", err)
	}
	metricsFrom(c).SetItems(len(items))
	return c.JSON(http.StatusOK, items)
}

func get[T any](d deps, c echo.Context, entity string, fetch func(context.Context, int) (T, error)) error {
	id, ok := pathID(c)
	if !ok {
		return d.fail(c, "path", domain.NotFound(entity, 0))
	}
	start := time.Now()
	v, err := fetch(c.Request().Context(), id)
	metricsFrom(c).ObserveStore(time.Since(start))
	if err != nil {
		return d.fail(c, "store", err)
	}
	return c.JSON(http.StatusOK, v)
}

func create[I, T any](d deps, c echo.Context, entity string, parse func(bodyFields) (I, error),
	insert func(context.Context, I) (T, error), idOf func(T) int) error {
	fields, err := d.decode(c)
	if err != nil {
		return d.fail(c, "decode", err)
	}
	in, err := parse(fields)
	if err != nil {
		return d.fail(c, "validate", err)
	}

	release, fresh := d.claim(c, entity)
	if !fresh {
		metricsFrom(c).SetErrorStage("idempotency")
		return c.JSON(http.StatusConflict, messageResponse{Message: "Duplicate request"})
	}

	start := time.Now()
	v, err := insert(c.Request().Context(), in)
	metricsFrom(c).ObserveStore(time.Since(start))
	if err != nil {
		release()
		return d.fail(c, "store", err)
	}
	d.publish(entity, idOf(v), domain.ActionCreated, v)
	return c.JSON(http.StatusCreated, v)
}

func update[P, T any](d deps, c echo.Context, entity string, parse func(bodyFields) (P, error),
	apply func(context.Context, int, P) (T, error)) error {
	id, ok := pathID(c)
	if !ok {
		return d.fail(c, "path", domain.NotFound(entity, 0))
	}
	fields, err := d.decode(c)
	if err != nil {
		return d.fail(c, "decode", err)
	}
	patch, err := parse(fields)
	if err != nil {
		return d.fail(c, "validate", err)
	}

	start := time.Now()
	v, err := apply(c.Request().Context(), id, patch)
	metricsFrom(c).ObserveStore(time.Since(start))
	if err != nil {
		return d.fail(c, "store", err)
	}
	d.publish(entity, id, domain.ActionUpdated, v)
	return c.JSON(http.StatusOK, v)
}

// remove answers 404 without a body when the entity does not exist.
func remove(d deps, c echo.Context, entity string, del func(context.Context, int) error) error {
	id, ok := pathID(c)
	if !ok {
		metricsFrom(c).SetErrorStage("path")
		return c.NoContent(http.StatusNotFound)
	}
	start := time.Now()
	err := del(c.Request().Context(), id)
	metricsFrom(c).ObserveStore(time.Since(start))
	if err != nil {
		if statusFor(err) == http.StatusNotFound {
			metricsFrom(c).SetErrorStage("store")
			return c.NoContent(http.StatusNotFound)
		}
		return d.fail(c, "store", err)
	}
	d.publish(entity, id, domain.ActionDeleted, nil)
	return c.NoContent(http.StatusNoContent)
}

func personID(p domain.Person) int { return p.ID }
func projectID(p domain.Project) int { return p.ID }
func taskID(t domain.Task) int { return t.ID }

func createPerson(d deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return create(d, c, domain.EntityPerson, newPersonFrom, d.store.CreatePerson, personID)
	}
}

func listPeople(d deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return list(d, c, d.store.ListPeople)
	}
}

func getPerson(d deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return get(d, c, domain.EntityPerson, d.store.GetPerson)
	}
}

func updatePerson(d deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return update(d, c, domain.EntityPerson, personPatchFrom, d.store.UpdatePerson)
	}
}

func deletePerson(d deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return remove(d, c, domain.EntityPerson, d.store.DeletePerson)
	}
}

func createProject(d deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return create(d, c, domain.EntityProject, newProjectFrom, d.store.CreateProject, projectID)
	}
}

func listProjects(d deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return list(d, c, d.store.ListProjects)
	}
}

func getProject(d deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return get(d, c, domain.EntityProject, d.store.GetProject)
	}
}

func updateProject(d deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return update(d, c, domain.EntityProject, projectPatchFrom, d.store.UpdateProject)
	}
}

func deleteProject(d deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return remove(d, c, domain.EntityProject, d.store.DeleteProject)
	}
}

func createTask(d deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return create(d, c, domain.EntityTask, newTaskFrom, d.store.CreateTask, taskID)
	}
}

func listTasks(d deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return list(d, c, d.store.ListTasks)
	}
}

func getTask(d deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return get(d, c, domain.EntityTask, d.store.GetTask)
	}
}

func updateTask(d deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return update(d, c, domain.EntityTask, taskPatchFrom, d.store.UpdateTask)
	}
}

func deleteTask(d deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		return remove(d, c, domain.EntityTask, d.store.DeleteTask)
	}
}
