package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/tieubaoca/docqa-be/types"
)

// QueryService is the pipeline behind the query endpoint.
type QueryService interface {
	ProcessQuery(ctx context.Context, documentURL string, questions []string) []string
}

type QueryHandler struct {
	engine QueryService
}

func NewQueryHandler(engine QueryService) *QueryHandler {
	return &QueryHandler{
		engine: engine,
	}
}

// HandleQuery serves the batch query contract: a document URL plus an
// ordered question list in, one answer per question out.
func (h *QueryHandler) HandleQuery() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		if r.Method != http.MethodPost {
			h.sendError(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req types.QueryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.sendError(w, "Invalid request body", http.StatusBadRequest)
			return
		}
		if req.Documents == "" {
			h.sendError(w, "documents is required", http.StatusBadRequest)
			return
		}
		if len(req.Questions) == 0 {
			h.sendError(w, "questions is required", http.StatusBadRequest)
			return
		}

		answers := h.engine.ProcessQuery(r.Context(), req.Documents, req.Questions)

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(types.QueryResponse{Answers: answers})
	})
}

func (h *QueryHandler) sendError(w http.ResponseWriter, message string, status int) {
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "error",
		"error":  message,
	})
}
