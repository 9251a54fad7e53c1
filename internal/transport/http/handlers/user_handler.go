package handlers

import (
	"net/http"

	"github.com/vedran77/taskly/internal/domain"
	"github.com/vedran77/taskly/internal/service"
	"github.com/vedran77/taskly/internal/transport/http/response"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}

	response.Success(w, http.StatusOK, "Profile fetched successfully", map[string]any{"user": user})
	return nil
}

func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}

	var input service.UpdateProfileInput
	if err := decode(w, r, &input); err != nil {
		return err
	}

	updated, err := h.userService.UpdateProfile(r.Context(), user.ID, input)
	if err != nil {
		return err
	}

	response.Success(w, http.StatusOK, "Profile updated successfully", map[string]any{"user": updated})
	return nil
}

func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}

	var input service.ChangePasswordInput
	if err := decode(w, r, &input); err != nil {
		return err
	}

	if err := h.userService.ChangePassword(r.Context(), user.ID, input); err != nil {
		return err
	}

	response.Success(w, http.StatusOK, "Password updated successfully", nil)
	return nil
}

func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}

	if err := h.userService.DeleteAccount(r.Context(), user.ID); err != nil {
		return err
	}

	response.Success(w, http.StatusOK, "Account deleted successfully", nil)
	return nil
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) error {
	users, err := h.userService.List(r.Context())
	if err != nil {
		return err
	}

	if users == nil {
		users = []domain.User{}
	}

	response.Success(w, http.StatusOK, "Users fetched successfully", map[string]any{
		"count": len(users),
		"users": users,
	})
	return nil
}

func (h *UserHandler) SetStatus(w http.ResponseWriter, r *http.Request) error {
	admin, err := currentUser(r)
	if err != nil {
		return err
	}

	var input service.SetActiveInput
	if err := decode(w, r, &input); err != nil {
		return err
	}

	user, err := h.userService.SetActive(r.Context(), admin.ID, r.PathValue("id"), input)
	if err != nil {
		return err
	}

	response.Success(w, http.StatusOK, "User status updated successfully", map[string]any{"user": user})
	return nil
}
