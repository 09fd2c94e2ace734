package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"bakery-backend/internal/auth"
	"bakery-backend/internal/models"
	"bakery-backend/internal/store"
	"bakery-backend/pkg/utils"
)

type AuthHandler struct {
	Store store.Storage
	JWT   *auth.JWTManager
}

func NewAuthHandler(st store.Storage, jwtManager *auth.JWTManager) *AuthHandler {
	return &AuthHandler{Store: st, JWT: jwtManager}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var errs []utils.FieldError
	if req.Username == "" {
		errs = append(errs, utils.FieldError{Field: "username", Message: "required"})
	}
	if len(req.Password) < 6 {
		errs = append(errs, utils.FieldError{Field: "password", Message: "must be at least 6 characters"})
	}
	if len(errs) > 0 {
		utils.ValidationError(w, errs)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user := &models.User{Username: req.Username, Password: hash}
	if err := h.Store.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrConflict) {
			utils.Error(w, http.StatusConflict, "Username already taken")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	token, err := h.JWT.GenerateToken(user)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	utils.JSON(w, http.StatusOK, models.LoginResponse{Token: token, User: *user})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.Store.GetUserByUsername(r.Context(), req.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			utils.Error(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}
		utils.Error(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	if !auth.VerifyPassword(user.Password, req.Password) {
		utils.Error(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := h.JWT.GenerateToken(user)
	if err != nil {
		utils.Error(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	utils.JSON(w, http.StatusOK, models.LoginResponse{Token: token, User: *user})
}
