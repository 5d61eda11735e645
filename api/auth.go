package api

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/zeptools/gw-invoice/auth"
	"github.com/zeptools/gw-invoice/requests"
	"github.com/zeptools/gw-invoice/responses"
)

type credentials struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// decodeCredentials treats an empty body as empty fields
func decodeCredentials(w http.ResponseWriter, r *http.Request) (credentials, bool) {
	var c credentials
	if err := requests.DecodeJSON(w, r, &c); err != nil && !errors.Is(err, requests.ErrEmptyBody) {
		badRequest(w, err.Error())
		return c, false
	}
	return c, true
}

// clientAuthError reports whether err is one of the user-facing auth errors
func clientAuthError(err error) bool {
	for _, target := range []error{
		auth.ErrMissingFields,
		auth.ErrEmailInUse,
		auth.ErrInvalidCredentials,
		auth.ErrEmailRequired,
		auth.ErrResetFields,
		auth.ErrPasswordTooShort,
		auth.ErrInvalidResetToken,
		auth.ErrUserNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	session, err := s.Auth.Register(r.Context(), c.Name, c.Email, c.Password)
	if err != nil {
		if clientAuthError(err) {
			badRequest(w, err.Error())
			return
		}
		s.serverError(w, r, "Registration failed", err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, session)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	session, err := s.Auth.Login(r.Context(), c.Email, c.Password)
	if err != nil {
		if clientAuthError(err) {
			badRequest(w, err.Error())
			return
		}
		s.serverError(w, r, "Login failed", err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, session)
}

type forgotPasswordResponse struct {
	Message    string `json:"message"`
	ResetToken string `json:"resetToken,omitempty"`
}

// forgotPassword answers the same way for known and unknown emails. The
// token itself is only echoed outside production.
func (s *Server) forgotPassword(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	token, err := s.Auth.ForgotPassword(r.Context(), c.Email)
	if err != nil {
		if clientAuthError(err) {
			badRequest(w, err.Error())
			return
		}
		s.serverError(w, r, "Error processing request", err)
		return
	}
	resp := forgotPasswordResponse{Message: auth.ForgotPasswordMessage}
	if s.env() != EnvProduction {
		resp.ResetToken = token
	}
	responses.EncodeWriteJSON(w, http.StatusOK, resp)
}

func (s *Server) resetPassword(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	if err := s.Auth.ResetPassword(r.Context(), c.Token, c.NewPassword); err != nil {
		if clientAuthError(err) {
			badRequest(w, err.Error())
			return
		}
		s.serverError(w, r, "Error resetting password", err)
		return
	}
	responses.EncodeWriteJSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully"})
}

type tokenValidity struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

func (s *Server) verifyResetToken(w http.ResponseWriter, r *http.Request) {
	c, ok := decodeCredentials(w, r)
	if !ok {
		return
	}
	valid, err := s.Auth.VerifyResetToken(r.Context(), c.Token)
	switch {
	case err != nil:
		s.logger().Error("verify reset token failed", zap.Error(err))
		responses.EncodeWriteJSON(w, http.StatusInternalServerError, tokenValidity{Message: "Error verifying token"})
	case !valid:
		responses.EncodeWriteJSON(w, http.StatusBadRequest, tokenValidity{Message: "Invalid or expired token"})
	default:
		responses.EncodeWriteJSON(w, http.StatusOK, tokenValidity{Valid: true, Message: "Token is valid"})
	}
}
