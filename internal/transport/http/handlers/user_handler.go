package handlers

import (
	"log/slog"
	"net/http"

	"github.com/vedran77/jobly/internal/domain"
	"github.com/vedran77/jobly/internal/service"
	"github.com/vedran77/jobly/internal/transport/http/middleware"
)

type UserHandler struct {
	userService *service.UserService
	logger      *slog.Logger
}

func NewUserHandler(userService *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

func (h *UserHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateUserInput
	if err := decodeJSON(r, &input); err != nil {
		writeServiceError(w, h.logger, "create user", err)
		return
	}

	res, err := h.userService.Create(r.Context(), middleware.PrincipalFrom(r.Context()), input)
	if err != nil {
		writeServiceError(w, h.logger, "create user", err)
		return
	}

	writeJSON(w, http.StatusCreated, res)
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context(), middleware.PrincipalFrom(r.Context()))
	if err != nil {
		writeServiceError(w, h.logger, "list users", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Get(r.Context(), middleware.PrincipalFrom(r.Context()), r.PathValue("username"))
	if err != nil {
		writeServiceError(w, h.logger, "get user", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateUserInput
	if err := decodeJSON(r, &input); err != nil {
		writeServiceError(w, h.logger, "update user", err)
		return
	}

	user, err := h.userService.Update(r.Context(), middleware.PrincipalFrom(r.Context()), r.PathValue("username"), input)
	if err != nil {
		writeServiceError(w, h.logger, "update user", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"user": user})
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.userService.Delete(r.Context(), middleware.PrincipalFrom(r.Context()), r.PathValue("username"))
	if err != nil {
		writeServiceError(w, h.logger, "delete user", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

func (h *UserHandler) Apply(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(w, r, "id", domain.ErrJobNotFound)
	if !ok {
		return
	}

	applied, err := h.userService.ApplyToJob(r.Context(), middleware.PrincipalFrom(r.Context()), r.PathValue("username"), jobID)
	if err != nil {
		writeServiceError(w, h.logger, "apply to job", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"applied": applied})
}

func (h *UserHandler) UpdateApplication(w http.ResponseWriter, r *http.Request) {
	jobID, ok := pathID(w, r, "id", domain.ErrJobNotFound)
	if !ok {
		return
	}

	var body struct {
		State string `json:"state"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeServiceError(w, h.logger, "update application", err)
		return
	}

	state, err := h.userService.UpdateApplicationState(r.Context(), middleware.PrincipalFrom(r.Context()), r.PathValue("username"), jobID, body.State)
	if err != nil {
		writeServiceError(w, h.logger, "update application", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"updated": state})
}
