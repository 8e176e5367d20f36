package web

import (
	"bytes"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/wolfman30/realestate-site/internal/leads"
	"github.com/wolfman30/realestate-site/internal/sitemap"
	"github.com/wolfman30/realestate-site/pkg/logging"
)

const maxFormBytes = 64 << 10

// Handler serves the page and the browser contact form.
type Handler struct {
	renderer *Renderer
	pipeline *leads.Pipeline
	baseURL  string
	logger   *logging.Logger
}

// NewHandler creates a page handler. An empty baseURL makes diagnostics use
// the request's own origin.
func NewHandler(renderer *Renderer, pipeline *leads.Pipeline, baseURL string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		renderer: renderer,
		pipeline: pipeline,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// Home handles GET /.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, PageView{Form: FormView{State: leads.StateIdle}})
}

// Contact handles POST /contact: it runs the pipeline and re-renders the
// page with the resulting form state.
func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	in, err := leads.ReadFormInput(r)
	if err != nil {
		h.logger.Warn("failed to parse contact form", "error", err)
		h.render(w, r, http.StatusBadRequest, PageView{Form: FormView{State: leads.StateError, Message: leads.RetryMessage}})
		return
	}

	sub := h.pipeline.Submission(in.Token)
	outcome := h.pipeline.Process(r.Context(), sub, in)

	view := FormView{State: outcome.State, Input: in, Token: in.Token}
	status := http.StatusOK
	switch {
	case len(outcome.Errors) > 0:
		status = http.StatusUnprocessableEntity
		view.Errors = outcome.Errors
	case errors.Is(outcome.Err, leads.ErrSubmissionInFlight):
		status = http.StatusConflict
		view.Message = leads.InFlightMessage
	case errors.Is(outcome.Err, leads.ErrSubmissionComplete):
		view.Input = leads.FormInput{}
		view.Token = ""
		view.Message = leads.SuccessMessage
	case errors.Is(outcome.Err, leads.ErrSubmitFailed):
		status = http.StatusBadGateway
		view.Message = leads.RetryMessage
	case outcome.Err != nil:
		status = http.StatusInternalServerError
		view.Message = leads.RetryMessage
	default:
		// Clear the form once the lead is in; the next one gets a new token.
		view.Input = leads.FormInput{}
		view.Token = ""
		view.Message = leads.SuccessMessage
	}
	h.render(w, r, status, PageView{Form: view})
}

// Newsletter handles POST /newsletter from the footer signup.
func (h *Handler) Newsletter(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		h.logger.Warn("failed to parse newsletter form", "error", err)
		h.render(w, r, http.StatusBadRequest, PageView{Newsletter: NewsletterView{Error: newsletterInvalid}})
		return
	}
	email := strings.TrimSpace(r.PostForm.Get(leads.FieldEmail))
	if !leads.IsEmail(email) {
		h.render(w, r, http.StatusUnprocessableEntity, PageView{Newsletter: NewsletterView{Email: email, Error: newsletterInvalid}})
		return
	}
	h.logger.Info("newsletter signup", "domain", email[strings.LastIndexByte(email, '@')+1:])
	h.render(w, r, http.StatusOK, PageView{Newsletter: NewsletterView{Done: true}})
}

// NotFound renders the site's 404 page.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.renderer.RenderNotFound(&buf, h.base(r)); err != nil {
		h.logger.Error("failed to render not found page", "error", err)
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) base(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	return sitemap.RequestOrigin(r)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, view PageView) {
	if view.Form.Token == "" {
		view.Form.Token = uuid.NewString()
	}
	view.Dev = r.URL.Query().Get("dev") == "1"
	view.Base = h.base(r)

	var buf bytes.Buffer
	if err := h.renderer.Render(&buf, view); err != nil {
		h.logger.Error("failed to render page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
