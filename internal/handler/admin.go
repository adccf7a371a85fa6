package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/sandhyasneha/it-project-planner/internal/broadcast"
)

type AdminHandler struct {
	reminder *broadcast.Reminder
	logger   *slog.Logger
}

func NewAdminHandler(reminder *broadcast.Reminder, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{reminder: reminder, logger: logger}
}

// Reminder triggers the weekday reminder mail broadcast and returns the
// per-recipient delivery report.
func (h *AdminHandler) Reminder(w http.ResponseWriter, r *http.Request) {
	report, err := h.reminder.Run()
	if err != nil {
		if errors.Is(err, broadcast.ErrNotScheduled) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
			return
		}
		h.logger.Error("reminder broadcast", "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "broadcast failed"})
		return
	}

	writeJSON(w, http.StatusOK, report)
}
