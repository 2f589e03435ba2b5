package controllers

import (
	"bytes"
	"journald/internal/models"
	"journald/internal/providers"
	"journald/internal/services"
	"net/http"
)

type MailController struct {
	logger providers.Logger
	mail   services.MailServiceInterface
}

func NewMailController(logger providers.Logger, mail services.MailServiceInterface) *MailController {
	return &MailController{logger: logger, mail: mail}
}

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required|email"`
	Passcode string `json:"passcode" validate:"required"`
}

type bulkCredentialsRequest struct {
	Users []services.Credentials `json:"users" validate:"required"`
}

type testEmailRequest struct {
	Email string `json:"email" validate:"email"`
}

type sentResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func (mc *MailController) SendCredentials(w http.ResponseWriter, r *http.Request) {
	if !mc.mail.Enabled() {
		writeFailure(w, models.ErrMailerDisabled, "")
		return
	}
	var req credentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, err, "")
		return
	}

	err := mc.mail.SendCredentials(r.Context(), services.Credentials{
		Username: req.Username,
		Email:    req.Email,
		Passcode: req.Passcode,
	})
	if err != nil {
		mc.logger.Errorf(providers.TypeMail, "Credentials mail to %s failed: %v", req.Email, err)
		writeFailure(w, err, "Failed to send credentials email")
		return
	}
	writeJSON(w, http.StatusOK, sentResponse{Success: true, Message: "Credentials sent to " + req.Email})
}

func (mc *MailController) SendBulkCredentials(w http.ResponseWriter, r *http.Request) {
	if !mc.mail.Enabled() {
		writeFailure(w, models.ErrMailerDisabled, "")
		return
	}
	var req bulkCredentialsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeFailure(w, err, "")
		return
	}

	res := mc.mail.SendBulkCredentials(r.Context(), req.Users)
	if res.Failed > 0 {
		mc.logger.Warnf(providers.TypeMail, "Bulk credentials: %d sent, %d failed", res.Sent, res.Failed)
	}
	writeJSON(w, http.StatusOK, res)
}

// TestEmail sends to the sender account when no address is given.
func (mc *MailController) TestEmail(w http.ResponseWriter, r *http.Request) {
	if !mc.mail.Enabled() {
		writeFailure(w, models.ErrMailerDisabled, "")
		return
	}
	raw, err := readBody(w, r)
	if err != nil {
		writeFailure(w, err, "")
		return
	}
	var req testEmailRequest
	if len(bytes.TrimSpace(raw)) > 0 {
		if err = bind(raw, &req); err != nil {
			writeFailure(w, err, "")
			return
		}
	}

	if err = mc.mail.SendTest(r.Context(), req.Email); err != nil {
		mc.logger.Errorf(providers.TypeMail, "Test mail failed: %v", err)
		writeFailure(w, err, "Failed to send test email")
		return
	}
	writeJSON(w, http.StatusOK, sentResponse{Success: true, Message: "Test email sent"})
}
