package dashboard

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/accessmodel-admin/internal"
	"github.com/frahmantamala/accessmodel-admin/internal/navigation"
	"github.com/frahmantamala/accessmodel-admin/internal/transport"
	"github.com/frahmantamala/accessmodel-admin/pkg/logger"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/*.html"))

type Handler struct {
	*transport.BaseHandler
	engine *Engine
	store  *Store
}

func NewHandler(engine *Engine, store *Store, lg *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		engine:      engine,
		store:       store,
	}
}

// Page is a fresh page load: it mounts the session before rendering.
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.engine.Mount(r.Context(), s)
	h.render(w, r, http.StatusOK, newPageData(s.Snapshot()))
}

// View renders the session as it is, which is where event posts redirect to.
func (h *Handler) View(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	h.engine.EnsureMounted(r.Context(), s)
	h.render(w, r, http.StatusOK, newPageData(s.Snapshot()))
}

// PostEvent applies a form-encoded UI event and redirects to the view.
func (h *Handler) PostEvent(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid form")
		return
	}

	ev, err := ParseForm(r.PostForm)
	if err == nil {
		h.engine.EnsureMounted(r.Context(), s)
		err = h.engine.Dispatch(r.Context(), s, ev)
	}
	if errors.Is(err, navigation.ErrUnknownRoute) {
		h.NotFound(w, r)
		return
	}
	if err != nil {
		logger.From(r.Context()).Warn("ignored ui event", "error", err)
	}
	http.Redirect(w, r, "/view", http.StatusSeeOther)
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	data := pageData{Header: "Access Model: " + PageNotFound, InfoText: InfoText, NotFound: PageNotFound}
	if s, err := h.sessionFromContext(r); err == nil {
		data = newPageData(s.Snapshot())
		data.NotFound = PageNotFound
	}
	h.render(w, r, http.StatusNotFound, data)
}

// GetState returns the session snapshot as JSON.
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessionFromContext(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.engine.EnsureMounted(r.Context(), s)
	h.WriteJSON(w, http.StatusOK, s.Snapshot())
}

// PostEventJSON applies a JSON UI event and returns the resulting snapshot.
func (h *Handler) PostEventJSON(w http.ResponseWriter, r *http.Request) {
	s, err := h.sessionFromContext(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var ev Event
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&ev); err != nil {
		h.HandleServiceError(w, internal.NewValidationError("invalid request body", internal.ErrCodeValidationFailed).WithCause(err))
		return
	}

	h.engine.EnsureMounted(r.Context(), s)
	if err := h.engine.Dispatch(r.Context(), s, ev); err != nil {
		h.HandleServiceError(w, eventError(ev, err))
		return
	}
	h.WriteJSON(w, http.StatusOK, s.Snapshot())
}

// eventError maps a rejected event onto the API error, naming the event kind in details.
func eventError(ev Event, err error) *internal.AppError {
	var appErr *internal.AppError
	switch {
	case errors.Is(err, navigation.ErrUnknownRoute):
		appErr = internal.NewNotFoundError(PageNotFound, internal.ErrCodeUnknownRoute).WithCause(err)
	case errors.Is(err, navigation.ErrUnknownTab), errors.Is(err, navigation.ErrTabOutsideTables):
		appErr = internal.NewValidationError(err.Error(), internal.ErrCodeUnknownTab)
	case errors.Is(err, ErrOutsideAddUser):
		appErr = internal.NewValidationError(err.Error(), internal.ErrCodeWrongView)
	case errors.Is(err, ErrUnknownOption):
		appErr = internal.NewValidationError(err.Error(), internal.ErrCodeUnknownOption)
	default:
		appErr = internal.NewValidationError(err.Error(), internal.ErrCodeUnknownEvent)
	}
	return appErr.WithDetails(map[string]string{"kind": string(ev.Kind)})
}

func (h *Handler) sessionFromContext(r *http.Request) (*Session, error) {
	id := internal.SessionIDFromContext(r.Context())
	if id == "" {
		return nil, internal.ErrSessionNotFound
	}
	return h.store.Get(id)
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	s, err := h.sessionFromContext(r)
	if err != nil {
		logger.From(r.Context()).Error("request without session", "error", err)
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return nil, false
	}
	return s, true
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := pageTemplate.ExecuteTemplate(&buf, "page", data); err != nil {
		logger.From(r.Context()).Error("failed to render page", "error", err)
		http.Error(w, "Render error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
