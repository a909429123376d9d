package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/agrisense/agrisense-be/internal/auth"
	"github.com/agrisense/agrisense-be/internal/http/respond"
	"github.com/agrisense/agrisense-be/internal/models/dto"
	"github.com/agrisense/agrisense-be/internal/storage"
)

var emailRegex = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// AuthHandler owns the register/login/reset-password endpoints.
type AuthHandler struct {
	service *auth.Service
}

// NewAuthHandler constructs the handler.
func NewAuthHandler(service *auth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register attaches auth routes to the mux.
func (h *AuthHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/users/register", h.handleRegister)
	mux.HandleFunc("POST /api/users/login", h.handleLogin)
	mux.HandleFunc("POST /api/users/reset-password", h.handleResetPassword)
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		respond.Error(w, http.StatusBadRequest, "Email should not be empty")
		return
	}
	if !emailRegex.MatchString(email) {
		respond.Error(w, http.StatusBadRequest, "Email must be a valid email")
		return
	}

	token, err := h.service.Register(r.Context(), email, req.Password)
	if err != nil {
		var policyErr *auth.PolicyError
		switch {
		case errors.As(err, &policyErr):
			respond.Error(w, http.StatusBadRequest, policyErr.Error())
		case errors.Is(err, auth.ErrEmailTaken):
			respond.Error(w, http.StatusConflict, "Email is already in use")
		default:
			logrus.WithError(err).Error("register failed")
			respond.Error(w, http.StatusInternalServerError, "Server error, please try again later")
		}
		return
	}

	respond.JSON(w, http.StatusCreated, "Registration successful", dto.TokenResponse{AccessToken: token})
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	token, err := h.service.Login(r.Context(), email, req.Password)
	if err != nil {
		// Unknown email and wrong password produce the same response.
		if errors.Is(err, auth.ErrInvalidCredentials) {
			respond.Error(w, http.StatusNotFound, "Invalid credentials")
			return
		}
		logrus.WithError(err).Error("login failed")
		respond.Error(w, http.StatusInternalServerError, "Server error, please try again later")
		return
	}

	respond.JSON(w, http.StatusOK, "Login successful", dto.TokenResponse{AccessToken: token})
}

func (h *AuthHandler) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON payload")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		respond.Error(w, http.StatusBadRequest, "Email is required")
		return
	}
	if req.NewPassword == "" || req.ConfirmNewPassword == "" {
		respond.Error(w, http.StatusBadRequest, "New password and confirmation are required")
		return
	}

	user, err := h.service.UpdatePassword(r.Context(), email, req.NewPassword, req.ConfirmNewPassword)
	if err != nil {
		var policyErr *auth.PolicyError
		switch {
		case errors.Is(err, auth.ErrPasswordMismatch):
			respond.Error(w, http.StatusUnauthorized, "Password doesn't match")
		case errors.Is(err, storage.ErrNotFound):
			respond.Error(w, http.StatusNotFound, "User doesn't exist")
		case errors.As(err, &policyErr):
			respond.Error(w, http.StatusBadRequest, policyErr.Error())
		default:
			logrus.WithError(err).Error("password update failed")
			respond.Error(w, http.StatusInternalServerError, "Error occurred while updating user data")
		}
		return
	}

	respond.JSON(w, http.StatusOK, "User data updated successfully", user)
}
