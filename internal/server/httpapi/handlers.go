package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/printdesk/internal/common"
	"github.com/dmitrijs2005/printdesk/internal/server/models"
	"github.com/dmitrijs2005/printdesk/internal/server/services"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps sentinel errors to HTTP statuses. Anything unrecognized is
// a 500 with a generic body; the details go to the log only.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	switch {
	case errors.Is(err, common.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrConflict),
		errors.Is(err, common.ErrInvalidTransition):
		status = http.StatusConflict
	default:
		status = http.StatusInternalServerError
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		msg = "internal error"
	}
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: invalid body: %v", common.ErrValidation, err)
	}
	return nil
}

func (s *Server) handlePing(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- auth ---

type requestCodeBody struct {
	Username    string             `json:"username"`
	SessionType models.SessionType `json:"session_type"`
}

func (s *Server) handleRequestCode(w http.ResponseWriter, r *http.Request) {
	var body requestCodeBody
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	if body.SessionType == "" {
		body.SessionType = models.SessionTypePortal
	}

	tempToken, err := s.auth.RequestCode(r.Context(), body.Username, body.SessionType)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"temp_token": tempToken})
}

type verifyCodeBody struct {
	TempToken string `json:"temp_token"`
	Code      string `json:"code"`
}

func (s *Server) handleVerifyCode(w http.ResponseWriter, r *http.Request) {
	var body verifyCodeBody
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}

	session, err := s.auth.VerifyCode(r.Context(), body.TempToken, body.Code)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	if err := s.sessions.Revoke(r.Context(), session.Token); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// --- tasks ---

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var spec services.TaskSpec
	if err := decodeBody(r, &spec); err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.tasks.Create(r.Context(), spec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	var status *models.TaskStatus
	if v := r.URL.Query().Get("status"); v != "" {
		st := models.TaskStatus(v)
		if !st.Valid() {
			s.writeError(w, r, fmt.Errorf("%w: unknown status %q", common.ErrValidation, v))
			return
		}
		status = &st
	}

	list, err := s.tasks.List(r.Context(), status)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	task, err := s.tasks.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleClaimTask(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	task, err := s.assignment.Claim(r.Context(), r.PathValue("id"), actorFor(session))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

type advanceTaskBody struct {
	Target    models.TaskStatus `json:"target"`
	Breakdown *models.Breakdown `json:"breakdown"`
}

func (s *Server) handleAdvanceTask(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	var body advanceTaskBody
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	task, err := s.assignment.Advance(r.Context(), r.PathValue("id"), actorFor(session), body.Target, body.Breakdown)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleCancelTask(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	task, err := s.assignment.Cancel(r.Context(), r.PathValue("id"), actorFor(session))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, task)
}

// --- ledger ---

func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())
	balance, err := s.ledger.BalanceFor(r.Context(), session.Username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"actor":   session.Username,
		"balance": balance,
	})
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	session := sessionFromContext(r.Context())

	// admins may inspect any actor's history
	actor := session.Username
	if v := r.URL.Query().Get("actor"); v != "" && session.IsAdmin() {
		actor = v
	}

	history, err := s.ledger.History(r.Context(), actor)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, history)
}

func (s *Server) handleRecordTransaction(w http.ResponseWriter, r *http.Request) {
	var spec services.RecordSpec
	if err := decodeBody(r, &spec); err != nil {
		s.writeError(w, r, err)
		return
	}
	spec.SessionRef = sessionFromContext(r.Context()).Token

	entry, err := s.ledger.Record(r.Context(), spec)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, entry)
}

// --- documents ---

type createDocumentBody struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	var body createDocumentBody
	if err := decodeBody(r, &body); err != nil {
		s.writeError(w, r, err)
		return
	}
	session := sessionFromContext(r.Context())

	doc, uploadURL, err := s.documents.Create(r.Context(), body.Title, body.Description, session.Username)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, map[string]any{
		"document":   doc,
		"upload_url": uploadURL,
	})
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	list, err := s.documents.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleDocumentURL(w http.ResponseWriter, r *http.Request) {
	url, err := s.documents.GetDownloadURL(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"url": url})
}
