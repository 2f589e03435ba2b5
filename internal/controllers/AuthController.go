package controllers

import (
	"journald/internal/models"
	"journald/internal/providers"
	"journald/internal/services"
	"net/http"
)

type AuthController struct {
	logger providers.Logger
	auth   services.AuthServiceInterface
	users  services.UserServiceInterface
}

func NewAuthController(logger providers.Logger, auth services.AuthServiceInterface, users services.UserServiceInterface) *AuthController {
	return &AuthController{logger: logger, auth: auth, users: users}
}

type registerRequest struct {
	Username string `json:"username" validate:"required|minLen:3|maxLen:32"`
	Password string `json:"password" validate:"required|minLen:4|maxLen:64"`
	Email    string `json:"email" validate:"required|email"`
	Timezone string `json:"timezone" validate:"required"`
}

type checkUserRequest struct {
	Username string `json:"username" validate:"required"`
	Passcode string `json:"passcode" validate:"required"`
}

type updateTimezoneRequest struct {
	Username string `json:"username" validate:"required"`
	Timezone string `json:"timezone" validate:"required"`
}

type userResponse struct {
	Success        bool               `json:"success"`
	User           *models.RosterUser `json:"user,omitempty"`
	StoredRemotely *bool              `json:"storedRemotely,omitempty"`
}

func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, err, "")
		return
	}

	res, err := ac.users.Register(r.Context(), services.Registration{
		Username: req.Username,
		Password: req.Password,
		Email:    req.Email,
		Timezone: req.Timezone,
	})
	if err != nil {
		ac.logger.Warnf(providers.TypePost, "register %s: %v", req.Username, err)
		writeFailure(w, err, "Registration failed")
		return
	}
	writeJSON(w, http.StatusOK, userResponse{Success: true, User: &res.User, StoredRemotely: &res.StoredRemotely})
}

func (ac *AuthController) CheckUser(w http.ResponseWriter, r *http.Request) {
	var req checkUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, err, "")
		return
	}

	user, err := ac.auth.CheckUser(r.Context(), req.Username, req.Passcode)
	if err != nil {
		writeFailure(w, err, "Could not verify credentials")
		return
	}
	writeJSON(w, http.StatusOK, userResponse{Success: true, User: user})
}

func (ac *AuthController) UpdateTimezone(w http.ResponseWriter, r *http.Request) {
	var req updateTimezoneRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, err, "")
		return
	}

	if err := ac.users.UpdateTimezone(r.Context(), req.Username, req.Timezone); err != nil {
		ac.logger.Warnf(providers.TypePost, "update-timezone %s: %v", req.Username, err)
		writeFailure(w, err, "Failed to update timezone")
		return
	}
	writeJSON(w, http.StatusOK, userResponse{Success: true})
}
