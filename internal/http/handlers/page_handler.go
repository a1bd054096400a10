package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"phishing_url_analyzer/internal/http/middleware"
	"phishing_url_analyzer/internal/pkg/errors"
	"phishing_url_analyzer/internal/service"

	log "github.com/sirupsen/logrus"
)

type PageHandler struct {
	sessions *SessionStore
	log      *log.Logger
}

func NewPageHandler(sessions *SessionStore, log *log.Logger) *PageHandler {
	return &PageHandler{sessions: sessions, log: log}
}

// Handle serves the current page of the caller's session, or a blank page
// when there is none yet.
func (h *PageHandler) Handle(w http.ResponseWriter, r *http.Request) {
	sess, err := viewSession(h.sessions, r)
	if err != nil {
		sendError(w, h.log, `failed to open session`, err, http.StatusInternalServerError)
		return
	}
	writePage(w, h.log, sess, http.StatusOK)
}

type AnalyzeHandler struct {
	sessions *SessionStore
	log      *log.Logger
}

func NewAnalyzeHandler(sessions *SessionStore, log *log.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{sessions: sessions, log: log}
}

// Handle submits the form field "url" for analysis and replies with the
// updated page, or with its state as JSON when the caller asks for JSON.
func (h *AnalyzeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	logger := h.log.WithField(`request_id`, middleware.RequestIDFromContext(r.Context()))
	logger.Debug(`analyze handler called`)

	if err := r.ParseForm(); err != nil {
		sendError(w, h.log, `failed to parse form`, err, http.StatusBadRequest)
		return
	}

	sess, err := h.sessions.Resolve(w, r)
	if err != nil {
		sendError(w, h.log, `failed to open session`, err, http.StatusInternalServerError)
		return
	}

	rawURL := r.PostFormValue(`url`)
	sess.Page.SetInput(rawURL)

	outcome, err := sess.Controller.Submit(r.Context(), rawURL)
	status := statusFor(err)
	if outcome != nil && outcome.ConfigErr != nil {
		logger.WithError(outcome.ConfigErr).Warn(`metric catalog does not cover the response`)
	}
	if err != nil && !errors.Is(err, service.ErrStaleResponse) {
		logger.WithError(err).WithField(`status`, status).Info(`analysis did not produce a result`)
	}

	if wantsJSON(r) {
		writeState(w, h.log, sess, status)
		return
	}
	writePage(w, h.log, sess, status)
}

type StateHandler struct {
	sessions *SessionStore
	log      *log.Logger
}

func NewStateHandler(sessions *SessionStore, log *log.Logger) *StateHandler {
	return &StateHandler{sessions: sessions, log: log}
}

func (h *StateHandler) Handle(w http.ResponseWriter, r *http.Request) {
	sess, err := viewSession(h.sessions, r)
	if err != nil {
		sendError(w, h.log, `failed to open session`, err, http.StatusInternalServerError)
		return
	}
	writeState(w, h.log, sess, http.StatusOK)
}

// viewSession serves read-only requests. Sessions are only created by a
// submission.
func viewSession(sessions *SessionStore, r *http.Request) (*Session, error) {
	if sess := sessions.Lookup(r); sess != nil {
		return sess, nil
	}
	return sessions.Blank()
}

// statusFor maps a submission error to the status of the reply. The page
// already shows the failure; the status only informs API callers.
func statusFor(err error) int {
	if err == nil || errors.Is(err, service.ErrStaleResponse) {
		return http.StatusOK
	}

	var failure *service.AnalysisFailure
	if !errors.As(err, &failure) {
		return http.StatusInternalServerError
	}
	switch failure.Kind {
	case service.FailureValidation:
		return http.StatusBadRequest
	case service.FailureApplication:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get(`Accept`), `application/json`)
}

func writePage(w http.ResponseWriter, logger *log.Logger, sess *Session, status int) {
	var buf bytes.Buffer
	if err := sess.Page.Render(&buf); err != nil {
		sendError(w, logger, `failed to render page`, err, http.StatusInternalServerError)
		return
	}
	w.Header().Set(`Content-Type`, `text/html; charset=utf-8`)
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logger.WithError(err).Error(`failed to write page`)
	}
}

func writeState(w http.ResponseWriter, logger *log.Logger, sess *Session, status int) {
	w.Header().Set(`Content-Type`, `application/json`)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(sess.Page.Snapshot()); err != nil {
		logger.WithError(err).Error(`failed to encode page state`)
	}
}
