package directory

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/Jishaan-07/Employee-managment/internal/contacts"
	"github.com/Jishaan-07/Employee-managment/internal/platform/httpx"
	"github.com/Jishaan-07/Employee-managment/internal/shared"
	"github.com/Jishaan-07/Employee-managment/internal/view"
)

// Handler serves the directory page and the actions posted from it.
type Handler struct {
	logger    *slog.Logger
	registry  *Registry
	templates *view.Engine
	csrf      *shared.CSRFManager
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, registry *Registry, templates *view.Engine, csrf *shared.CSRFManager) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, registry: registry, templates: templates, csrf: csrf}
}

// MountRoutes registers directory routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.page)
	r.Get("/state", h.state)
	r.Post("/employees/new", h.beginCreate)
	r.Post("/employees/{id}/edit", h.beginEdit)
	r.Post("/employees/{id}/delete", h.delete)
	r.Post("/draft", h.submit)
	r.Post("/draft/clear", h.clear)
	r.Post("/draft/close", h.close)
}

type pageData struct {
	State    Snapshot
	Statuses []contacts.Status
}

func (h *Handler) controller(w http.ResponseWriter, r *http.Request) *Controller {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.ID == "" {
		h.logger.Error("resolve directory", slog.Any("error", shared.ErrSessionMissing))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return nil
	}
	c := h.registry.Get(r.Context(), sess.ID)
	if p := c.Initial(); p != nil {
		// Load failures are logged by the controller; the page renders regardless.
		_ = p.Wait(r.Context())
	}
	return c
}

func (h *Handler) page(w http.ResponseWriter, r *http.Request) {
	c := h.controller(w, r)
	if c == nil {
		return
	}
	snap, err := c.Snapshot()
	if err != nil {
		h.logger.Error("snapshot directory", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return
	}

	sess := shared.SessionFromContext(r.Context())
	csrfToken, _ := h.csrf.EnsureToken(r.Context(), sess)
	data := view.TemplateData{
		Title:       "Employee Management",
		CSRFToken:   csrfToken,
		CurrentPath: r.URL.Path,
		Data: pageData{
			State:    snap,
			Statuses: []contacts.Status{contacts.StatusActive, contacts.StatusInactive},
		},
	}
	if err := h.templates.Render(w, "pages/directory.html", data); err != nil {
		h.logger.Error("render directory", slog.Any("error", err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler) state(w http.ResponseWriter, r *http.Request) {
	c := h.controller(w, r)
	if c == nil {
		return
	}
	snap, err := c.Snapshot()
	if err != nil {
		httpx.Problem(w, http.StatusServiceUnavailable, "Unavailable", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, snap)
}

func (h *Handler) beginCreate(w http.ResponseWriter, r *http.Request) {
	c := h.controller(w, r)
	if c == nil {
		return
	}
	if err := c.BeginCreate(); err != nil {
		h.logger.Error("begin create", slog.Any("error", err))
	}
	h.back(w, r)
}

func (h *Handler) beginEdit(w http.ResponseWriter, r *http.Request) {
	c := h.controller(w, r)
	if c == nil {
		return
	}
	id := recordID(r)
	snap, err := c.Snapshot()
	if err != nil {
		h.logger.Error("snapshot directory", slog.Any("error", err))
		h.back(w, r)
		return
	}
	rec, ok := snap.Find(id)
	if !ok {
		http.Error(w, "Employee not found", http.StatusNotFound)
		return
	}
	if err := c.BeginEdit(rec); err != nil {
		h.logger.Error("begin edit", slog.String("id", id), slog.Any("error", err))
	}
	h.back(w, r)
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	c := h.controller(w, r)
	if c == nil {
		return
	}
	h.applyFields(c, r)
	// Remote failures are already logged by the controller.
	_ = c.Submit(r.Context()).Wait(r.Context())
	h.back(w, r)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	c := h.controller(w, r)
	if c == nil {
		return
	}
	_ = c.Delete(r.Context(), recordID(r)).Wait(r.Context())
	h.back(w, r)
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	c := h.controller(w, r)
	if c == nil {
		return
	}
	if err := c.Clear(); err != nil {
		h.logger.Error("clear draft", slog.Any("error", err))
	}
	h.back(w, r)
}

func (h *Handler) close(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad request", http.StatusBadRequest)
		return
	}
	c := h.controller(w, r)
	if c == nil {
		return
	}
	// The modal posts its inputs with Close; they belong to the kept draft.
	h.applyFields(c, r)
	if err := c.Close(); err != nil {
		h.logger.Error("close editor", slog.Any("error", err))
	}
	h.back(w, r)
}

// applyFields copies posted draft inputs into the controller. A locked id is
// expected while editing since the browser disables that input.
func (h *Handler) applyFields(c *Controller, r *http.Request) {
	for _, field := range Fields {
		values, present := r.PostForm[string(field)]
		if !present || len(values) == 0 {
			continue
		}
		err := c.ChangeField(field, values[0])
		if err != nil && !errors.Is(err, ErrIDLocked) {
			h.logger.Warn("change field", slog.String("field", string(field)), slog.Any("error", err))
		}
	}
}

// recordID returns the decoded {id} segment. chi matches on RawPath when the
// request carries one, so only then is the param still escaped.
func recordID(r *http.Request) string {
	param := chi.URLParam(r, "id")
	if r.URL.RawPath == "" {
		return param
	}
	if id, err := url.PathUnescape(param); err == nil {
		return id
	}
	return param
}

func (h *Handler) back(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
