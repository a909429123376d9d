package handlers

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/agrisense/agrisense-be/internal/auth"
	"github.com/agrisense/agrisense-be/internal/http/respond"
	"github.com/agrisense/agrisense-be/internal/models"
	"github.com/agrisense/agrisense-be/internal/models/dto"
	"github.com/agrisense/agrisense-be/internal/storage"
)

// EngagementHandler owns the contact-query and feedback endpoints. Both
// require authentication; the record is tied to the requesting principal.
type EngagementHandler struct {
	store storage.EngagementStore
}

// NewEngagementHandler constructs the handler.
func NewEngagementHandler(store storage.EngagementStore) *EngagementHandler {
	return &EngagementHandler{store: store}
}

// Register attaches engagement routes.
func (h *EngagementHandler) Register(mux *http.ServeMux, authed Middleware) {
	mux.Handle("POST /api/query", authed(http.HandlerFunc(h.handleQuery)))
	mux.Handle("POST /api/feedback", authed(http.HandlerFunc(h.handleFeedback)))
}

func (h *EngagementHandler) handleQuery(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authorization token is required")
		return
	}
	var req dto.QueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	subject := strings.TrimSpace(req.QueryDetails.QuerySubject)
	body := strings.TrimSpace(req.QueryDetails.Query)
	if subject == "" || body == "" {
		respond.Error(w, http.StatusBadRequest, "Query subject and body are required")
		return
	}

	_, err := h.store.CreateQuery(r.Context(), models.Query{
		UserID:  principal.UserID,
		Subject: subject,
		Body:    body,
		Date:    time.Now().Format("2006-01-02"),
	})
	if err != nil {
		logrus.WithError(err).Error("create query failed")
		respond.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}
	respond.JSON(w, http.StatusOK, "Query posted successfully", nil)
}

func (h *EngagementHandler) handleFeedback(w http.ResponseWriter, r *http.Request) {
	principal, ok := auth.PrincipalFrom(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Authorization token is required")
		return
	}
	var req dto.FeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}
	feedback := strings.TrimSpace(req.FeedbackDetails.Feedback)
	if feedback == "" {
		respond.Error(w, http.StatusBadRequest, "Feedback is required")
		return
	}

	_, err := h.store.SaveFeedback(r.Context(), models.Feedback{
		UserID:   principal.UserID,
		Feedback: feedback,
		Date:     time.Now().Format("2006-01-02"),
	})
	if err != nil {
		logrus.WithError(err).Error("save feedback failed")
		respond.Error(w, http.StatusInternalServerError, "Server Error")
		return
	}
	respond.JSON(w, http.StatusOK, "Feedback sended successfully", nil)
}
