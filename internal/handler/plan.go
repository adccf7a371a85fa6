package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sandhyasneha/it-project-planner/internal/auth"
	"github.com/sandhyasneha/it-project-planner/internal/export"
	"github.com/sandhyasneha/it-project-planner/internal/store"
)

// Generator produces a project plan from a free-text description.
type Generator interface {
	Generate(ctx context.Context, description string) (string, error)
}

type PlanHandler struct {
	generator Generator
	artifacts *store.ArtifactStore
	drafts    *DraftState
	logger    *slog.Logger
}

func NewPlanHandler(g Generator, as *store.ArtifactStore, drafts *DraftState, logger *slog.Logger) *PlanHandler {
	return &PlanHandler{
		generator: g,
		artifacts: as,
		drafts:    drafts,
		logger:    logger,
	}
}

type generateRequest struct {
	Description string `json:"description"`
}

func (h *PlanHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	req.Description = strings.TrimSpace(req.Description)
	if req.Description == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "description is required"})
		return
	}

	plan, err := h.generator.Generate(r.Context(), req.Description)
	if err != nil {
		// The previous draft stays intact so a saved plan is never lost
		// to a flaky upstream.
		h.logger.Error("generate plan", "email", ac.Email, "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	h.drafts.SetGenerated(ac.SessionID, req.Description, plan)
	writeJSON(w, http.StatusOK, map[string]string{"plan": plan})
}

type saveRequest struct {
	Text string `json:"text"`
}

func (h *PlanHandler) Save(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	var req saveRequest
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&req)
	}

	text := strings.TrimSpace(req.Text)
	if text == "" {
		plan, ok := h.drafts.Plan(ac.SessionID)
		if !ok {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "no plan generated yet"})
			return
		}
		text = plan
	}

	// The draft survives the save; repeating the action appends another
	// row. Only logout discards it.
	artifact, err := h.artifacts.Save(ac.Email, text)
	if err != nil {
		h.logger.Error("save plan", "email", ac.Email, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save plan"})
		return
	}

	writeJSON(w, http.StatusCreated, artifact)
}

func (h *PlanHandler) History(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	artifacts, err := h.artifacts.ListForOwner(ac.Email)
	if err != nil {
		h.logger.Error("list plans", "email", ac.Email, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list plans"})
		return
	}

	// Stored in insertion order; history shows the newest first.
	for i, j := 0, len(artifacts)-1; i < j; i, j = i+1, j-1 {
		artifacts[i], artifacts[j] = artifacts[j], artifacts[i]
	}

	writeJSON(w, http.StatusOK, artifacts)
}

// Export downloads the most recently saved plan as a plain text file.
func (h *PlanHandler) Export(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	artifacts, err := h.artifacts.ListForOwner(ac.Email)
	if err != nil {
		h.logger.Error("export plan", "email", ac.Email, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load plans"})
		return
	}
	if len(artifacts) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "no saved plans"})
		return
	}

	latest := artifacts[len(artifacts)-1]
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.TextFilename(latest.CreatedAt)))
	w.Write([]byte(latest.Text))
}

// ExportWorkbook downloads the account's full history as an xlsx workbook.
func (h *PlanHandler) ExportWorkbook(w http.ResponseWriter, r *http.Request) {
	ac, _ := auth.FromContext(r.Context())

	artifacts, err := h.artifacts.ListForOwner(ac.Email)
	if err != nil {
		h.logger.Error("export history", "email", ac.Email, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to load plans"})
		return
	}

	buf, err := export.HistoryWorkbook(artifacts)
	if err != nil {
		h.logger.Error("build workbook", "email", ac.Email, "error", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to build workbook"})
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.WorkbookFilename(time.Now())))
	w.Write(buf.Bytes())
}
