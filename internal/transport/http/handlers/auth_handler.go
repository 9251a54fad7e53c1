package handlers

import (
	"net/http"

	"github.com/vedran77/taskly/internal/service"
	"github.com/vedran77/taskly/internal/transport/http/response"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) error {
	var input service.SignupInput
	if err := decode(w, r, &input); err != nil {
		return err
	}

	resp, err := h.authService.Signup(r.Context(), input)
	if err != nil {
		return err
	}

	response.Success(w, http.StatusCreated, "User registered successfully", resp)
	return nil
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) error {
	var input service.LoginInput
	if err := decode(w, r, &input); err != nil {
		return err
	}

	resp, err := h.authService.Login(r.Context(), input)
	if err != nil {
		return err
	}

	response.Success(w, http.StatusOK, "Login successful", resp)
	return nil
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}

	response.Success(w, http.StatusOK, "User fetched successfully", map[string]any{"user": user})
	return nil
}

// Logout only acknowledges the request. Tokens are stateless and stay valid
// until they expire; the client discards its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) error {
	response.Success(w, http.StatusOK, "Logout successful", nil)
	return nil
}
