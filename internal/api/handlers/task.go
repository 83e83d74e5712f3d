package handlers

import (
	"log/slog"
	"net/http"

	"github.com/rohits-web03/innerself/internal/apperr"
	"github.com/rohits-web03/innerself/internal/repositories"
)

type TaskHandler struct {
	tasks *repositories.TaskRepository
	log   *slog.Logger
}

func NewTaskHandler(tasks *repositories.TaskRepository, log *slog.Logger) *TaskHandler {
	return &TaskHandler{tasks: tasks, log: log}
}

// GET /api/tasks
// ListTasks godoc
// @Summary List tasks
// @Description In manual order
// @Tags Tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload{data=[]models.Task}
// @Router /api/tasks [get]
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.tasks.List(r.Context(), ownerID(r))
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Tasks retrieved successfully", tasks)
}

// POST /api/tasks
// CreateTask godoc
// @Summary Create a task
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body repositories.TaskInput true "Task"
// @Success 201 {object} utils.Payload{data=models.Task}
// @Failure 400 {object} utils.Payload "Task text is required"
// @Router /api/tasks [post]
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input repositories.TaskInput
	if !decode(w, r, &input) {
		return
	}
	task, err := h.tasks.Create(r.Context(), ownerID(r), input)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusCreated, "Task created successfully", task)
}

// PUT /api/tasks/{id}
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	var patch repositories.TaskPatch
	if !decode(w, r, &patch) {
		return
	}
	task, err := h.tasks.Update(r.Context(), ownerID(r), r.PathValue("id"), patch)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Task updated successfully", task)
}

// DELETE /api/tasks/{id}
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.tasks.Delete(r.Context(), ownerID(r), r.PathValue("id")); err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Task deleted successfully", nil)
}

// PUT /api/tasks/reorder
// ReorderTasks godoc
// @Summary Reorder tasks
// @Description Sets each task's order to its index in taskIds. Unknown ids are skipped.
// @Tags Tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.Payload{data=[]models.Task}
// @Failure 400 {object} utils.Payload "taskIds must be an array"
// @Router /api/tasks/reorder [put]
func (h *TaskHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TaskIDs []string `json:"taskIds"`
	}
	if !decode(w, r, &input) {
		return
	}
	if input.TaskIDs == nil {
		respondError(w, r, h.log, apperr.ValidationField("taskIds", "taskIds must be an array"))
		return
	}

	tasks, err := h.tasks.Reorder(r.Context(), ownerID(r), input.TaskIDs)
	if err != nil {
		respondError(w, r, h.log, err)
		return
	}
	respond(w, http.StatusOK, "Tasks reordered successfully", tasks)
}
