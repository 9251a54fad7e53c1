package handlers

import (
	"net/http"

	"github.com/vedran77/taskly/internal/domain"
	"github.com/vedran77/taskly/internal/service"
	"github.com/vedran77/taskly/internal/transport/http/response"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}

	q := r.URL.Query()
	tasks, err := h.taskService.List(r.Context(), user.ID, service.ListTasksInput{
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Search:   q.Get("search"),
		SortBy:   q.Get("sortBy"),
		Order:    q.Get("order"),
	})
	if err != nil {
		return err
	}

	if tasks == nil {
		tasks = []domain.Task{}
	}

	response.Success(w, http.StatusOK, "Tasks fetched successfully", map[string]any{
		"count": len(tasks),
		"tasks": tasks,
	})
	return nil
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}

	task, err := h.taskService.Get(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		return err
	}

	response.Success(w, http.StatusOK, "Task fetched successfully", map[string]any{"task": task})
	return nil
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}

	var input service.CreateTaskInput
	if err := decode(w, r, &input); err != nil {
		return err
	}

	task, err := h.taskService.Create(r.Context(), user.ID, input)
	if err != nil {
		return err
	}

	response.Success(w, http.StatusCreated, "Task created successfully", map[string]any{"task": task})
	return nil
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}

	var input service.UpdateTaskInput
	if err := decode(w, r, &input); err != nil {
		return err
	}

	task, err := h.taskService.Update(r.Context(), user.ID, r.PathValue("id"), input)
	if err != nil {
		return err
	}

	response.Success(w, http.StatusOK, "Task updated successfully", map[string]any{"task": task})
	return nil
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}

	if err := h.taskService.Delete(r.Context(), user.ID, r.PathValue("id")); err != nil {
		return err
	}

	response.Success(w, http.StatusOK, "Task deleted successfully", nil)
	return nil
}

func (h *TaskHandler) Stats(w http.ResponseWriter, r *http.Request) error {
	user, err := currentUser(r)
	if err != nil {
		return err
	}

	stats, err := h.taskService.Stats(r.Context(), user.ID)
	if err != nil {
		return err
	}

	response.Success(w, http.StatusOK, "Task statistics fetched successfully", map[string]any{"stats": stats})
	return nil
}
