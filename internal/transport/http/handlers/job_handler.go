package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/vedran77/jobly/internal/domain"
	"github.com/vedran77/jobly/internal/service"
	"github.com/vedran77/jobly/internal/transport/http/middleware"
	"github.com/vedran77/jobly/pkg/validator"
)

type JobHandler struct {
	jobService *service.JobService
	logger     *slog.Logger
}

func NewJobHandler(jobService *service.JobService, logger *slog.Logger) *JobHandler {
	return &JobHandler{jobService: jobService, logger: logger}
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.CreateJobInput
	if err := decodeJSON(r, &input); err != nil {
		writeServiceError(w, h.logger, "create job", err)
		return
	}

	job, err := h.jobService.Create(r.Context(), middleware.PrincipalFrom(r.Context()), input)
	if err != nil {
		writeServiceError(w, h.logger, "create job", err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"job": job})
}

// List accepts the optional title, minSalary and hasEquity query filters.
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, errs := jobFilter(r)
	if errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	jobs, err := h.jobService.List(r.Context(), filter)
	if err != nil {
		writeServiceError(w, h.logger, "list jobs", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"jobs": jobs})
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", domain.ErrJobNotFound)
	if !ok {
		return
	}

	job, err := h.jobService.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, h.logger, "get job", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"job": job})
}

func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id", domain.ErrJobNotFound)
	if !ok {
		return
	}

	deleted, err := h.jobService.Delete(r.Context(), middleware.PrincipalFrom(r.Context()), id)
	if err != nil {
		writeServiceError(w, h.logger, "delete job", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"deleted": deleted})
}

func jobFilter(r *http.Request) (domain.JobFilter, validator.ValidationErrors) {
	q := r.URL.Query()
	errs := validator.ValidationErrors{}
	filter := domain.JobFilter{Title: q.Get("title")}

	if v := q.Get("minSalary"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs.Add("minSalary", "must be an integer")
		}
		filter.MinSalary = n
	}
	if v := q.Get("hasEquity"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs.Add("hasEquity", "must be true or false")
		}
		filter.HasEquity = b
	}
	return filter, errs
}
