// Package handler exposes the simulation over HTTP. It is a thin
// collaborator: decode, validate, run the engine, encode. All succession
// semantics live in the engine.
package handler

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"succession-engine/internal/engine"
	"succession-engine/internal/model"
	"succession-engine/internal/params"
)

type Handler struct {
	log      *zap.Logger
	params   *params.LegalParameters
	validate *validator.Validate
}

func New(log *zap.Logger, p *params.LegalParameters) *Handler {
	if p == nil {
		p = params.Default()
	}
	return &Handler{
		log:      log,
		params:   p,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type SimulationMetadata struct {
	SimulationID          string `json:"simulation_id"`
	SimulationStartedAt   string `json:"simulation_started_at"`
	SimulationCompletedAt string `json:"simulation_completed_at"`
	SimulationDurationMs  int64  `json:"simulation_duration_ms"`
	SimulationOutcome     string `json:"simulation_outcome"`
}

type SimulationResponse struct {
	SimulationMetadata SimulationMetadata      `json:"simulation_metadata"`
	Result             *model.SuccessionOutput `json:"result"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

const OutcomeSuccess = "SUCCESS"

// Handle serves POST /simulate.
func (h *Handler) Handle(ctx *fasthttp.RequestCtx) {
	if string(ctx.Path()) != "/simulate" {
		h.writeError(ctx, fasthttp.StatusNotFound, "Not found")
		return
	}
	if !ctx.IsPost() {
		h.writeError(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var in model.SimulationInput
	if err := json.Unmarshal(ctx.PostBody(), &in); err != nil {
		h.writeError(ctx, fasthttp.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := h.validate.Struct(&in); err != nil {
		h.writeError(ctx, fasthttp.StatusBadRequest, "Invalid simulation input: "+err.Error())
		return
	}

	start := time.Now()
	out, err := engine.Simulate(&in, h.params)
	elapsed := time.Since(start)
	if err != nil {
		var inputErr *engine.InputError
		if errors.As(err, &inputErr) {
			h.writeError(ctx, fasthttp.StatusBadRequest, err.Error())
			return
		}
		h.log.Error("simulation failed", zap.Error(err))
		h.writeError(ctx, fasthttp.StatusInternalServerError, err.Error())
		return
	}

	now := time.Now().UTC()
	resp := SimulationResponse{
		SimulationMetadata: SimulationMetadata{
			SimulationID:          uuid.New().String(),
			SimulationStartedAt:   now.Add(-elapsed).Format(time.RFC3339),
			SimulationCompletedAt: now.Format(time.RFC3339),
			SimulationDurationMs:  elapsed.Milliseconds(),
			SimulationOutcome:     OutcomeSuccess,
		},
		Result: out,
	}

	h.log.Info("simulation completed",
		zap.Int("heirs", len(out.HeirsBreakdown)),
		zap.Int("warnings", len(out.Warnings)),
		zap.Duration("duration", elapsed))

	body, err := json.Marshal(resp)
	if err != nil {
		h.writeError(ctx, fasthttp.StatusInternalServerError, "Encoding failed: "+err.Error())
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(body)
}

func (h *Handler) writeError(ctx *fasthttp.RequestCtx, status int, message string) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(ErrorResponse{Status: status, Message: message})
	ctx.SetBody(body)
}
