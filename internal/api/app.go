package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog/log"

	"github.com/timada-org/taskhub/internal/auth"
	"github.com/timada-org/taskhub/internal/events"
	"github.com/timada-org/taskhub/internal/store"
	"github.com/timada-org/taskhub/pkg/todo"
)

type AppOptions struct {
	Addr   string
	Auth   *auth.Auth
	Store  *store.Store
	Events *events.Publisher
}

// App serves the todo API. Every route is Bearer-authenticated, scoped to
// the user_id and cutoff query parameters, and answers with the complete
// current todo set for that user — mutations included, so clients can swap
// their state wholesale.
type App struct {
	addr   string
	auth   *auth.Auth
	store  *store.Store
	events *events.Publisher
}

func New(options AppOptions) *App {
	return &App{
		addr:   options.Addr,
		auth:   options.Auth,
		store:  options.Store,
		events: options.Events,
	}
}

func (app *App) Router() http.Handler {
	router := httprouter.New()
	router.GET("/api/todo/v1/items", app.list())
	router.POST("/api/todo/v1/items", app.create())
	router.POST("/api/todo/v1/items/:id/complete", app.complete())
	router.DELETE("/api/todo/v1/items/:id", app.delete())
	router.POST("/api/todo/v1/items/:id/reassign", app.reassign())

	return withRequestID(router)
}

func (app *App) Listen() error {
	log.Info().Str("addr", app.addr).Msg("listening")

	return http.ListenAndServe(app.addr, app.Router())
}

func (app *App) list() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		scope, ok := app.authorize(w, r)
		if !ok {
			return
		}

		app.respondWithSet(w, r, http.StatusOK, scope)
	}
}

func (app *App) create() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		scope, ok := app.authorize(w, r)
		if !ok {
			return
		}

		var item todo.NewTodo
		if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		if item.Name == "" {
			writeError(w, http.StatusBadRequest, "name is required")
			return
		}

		created, err := app.store.Create(item)
		if err != nil {
			app.internalError(w, r, err)
			return
		}

		app.publish(events.Created, scope.userID, created)
		app.respondWithSet(w, r, http.StatusCreated, scope)
	}
}

func (app *App) complete() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		scope, ok := app.authorize(w, r)
		if !ok {
			return
		}

		todoID, err := strconv.ParseInt(p.ByName("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid todo id")
			return
		}

		completed, err := app.store.Complete(scope.userID, todoID)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			app.internalError(w, r, err)
			return
		}

		app.publish(events.Completed, scope.userID, completed)
		app.respondWithSet(w, r, http.StatusOK, scope)
	}
}

func (app *App) delete() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		scope, ok := app.authorize(w, r)
		if !ok {
			return
		}

		todoID, err := strconv.ParseInt(p.ByName("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid todo id")
			return
		}

		err = app.store.Delete(scope.userID, todoID)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			app.internalError(w, r, err)
			return
		}

		app.publish(events.Deleted, scope.userID, map[string]any{"id": todoID})
		app.respondWithSet(w, r, http.StatusOK, scope)
	}
}

func (app *App) reassign() httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		scope, ok := app.authorize(w, r)
		if !ok {
			return
		}

		todoID, err := strconv.ParseInt(p.ByName("id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid todo id")
			return
		}

		var body struct {
			AssignedTo int64 `json:"assigned_to"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.AssignedTo == 0 {
			writeError(w, http.StatusBadRequest, "assigned_to is required")
			return
		}

		moved, err := app.store.Reassign(scope.userID, todoID, body.AssignedTo)
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		if err != nil {
			app.internalError(w, r, err)
			return
		}

		app.publish(events.Reassigned, scope.userID, moved)
		app.respondWithSet(w, r, http.StatusOK, scope)
	}
}

// scope is the per-request view: whose list the call operates on and up to
// which assignment date.
type scope struct {
	userID  int64
	subject int64
	cutOff  time.Time
}

// authorize validates the Bearer token and pulls user_id and cutoff out of
// the query. The token subject authenticates the caller; the explicit
// user_id selects the list being administered.
func (app *App) authorize(w http.ResponseWriter, r *http.Request) (scope, bool) {
	subject, err := app.auth.UserID(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return scope{}, false
	}

	userID := subject
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		userID, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user_id")
			return scope{}, false
		}
	}

	cutOff := time.Now().UTC()
	if raw := r.URL.Query().Get("cutoff"); raw != "" {
		cutOff, err = time.Parse(time.RFC3339, raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid cutoff")
			return scope{}, false
		}
	}

	return scope{userID: userID, subject: subject, cutOff: cutOff}, true
}

func (app *App) respondWithSet(w http.ResponseWriter, r *http.Request, status int, s scope) {
	todos, err := app.store.ForUser(s.userID, s.cutOff)
	if err != nil {
		app.internalError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(todo.ToDoResponse{ToDos: todos}); err != nil {
		log.Error().Err(err).Msg("write response failed")
	}
}

func (app *App) internalError(w http.ResponseWriter, r *http.Request, err error) {
	log.Error().
		Err(err).
		Str("request_id", w.Header().Get("X-Request-ID")).
		Str("path", r.URL.Path).
		Msg("request failed")

	writeError(w, http.StatusInternalServerError, "internal server error")
}

// publish fires the mutation event without blocking the response, matching
// the at-most-once notification contract: a lost event is acceptable, a
// slow broker must not slow the API.
func (app *App) publish(name string, userID int64, data any) {
	if app.events == nil {
		return
	}

	go func() {
		if err := app.events.Send(&events.Event{UserID: userID, Name: name, Data: data}); err != nil {
			log.Error().Err(err).Str("event", name).Msg("publish failed")
		}
	}()
}

func withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			generated, err := gonanoid.New()
			if err == nil {
				id = generated
			}
		}

		w.Header().Set("X-Request-ID", id)

		log.Debug().
			Str("request_id", id).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request")

		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	_ = json.NewEncoder(w).Encode(todo.ToDoResponse{ErrorMessage: message})
}
