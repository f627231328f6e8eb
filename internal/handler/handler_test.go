package handler

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
)

func doRequest(t *testing.T, h *Handler, method, path, body string) *fasthttp.RequestCtx {
	t.Helper()
	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	ctx.Request.SetBodyString(body)
	h.Handle(ctx)
	return ctx
}

const validBody = `{
	"matrimonial_regime": "SEPARATION",
	"death_date": "2025-01-01",
	"assets": [
		{"id": "livret", "estimated_value": "100000", "ownership_mode": "FULL", "asset_origin": "PERSONAL"}
	],
	"heirs": [
		{"id": "enfant", "birth_date": "1990-01-01", "relationship": "CHILD", "is_from_current_union": true}
	]
}`

func TestHandleSimulation(t *testing.T) {
	h := New(zap.NewNop(), nil)

	ctx := doRequest(t, h, fasthttp.MethodPost, "/simulate", validBody)
	if ctx.Response.StatusCode() != fasthttp.StatusOK {
		t.Fatalf("expected 200, got %d: %s", ctx.Response.StatusCode(), ctx.Response.Body())
	}

	var resp SimulationResponse
	if err := json.Unmarshal(ctx.Response.Body(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.SimulationMetadata.SimulationOutcome != OutcomeSuccess {
		t.Fatalf("expected SUCCESS, got %s", resp.SimulationMetadata.SimulationOutcome)
	}
	if resp.SimulationMetadata.SimulationID == "" {
		t.Fatal("expected a simulation id")
	}
	if resp.Result == nil || len(resp.Result.HeirsBreakdown) != 1 {
		t.Fatal("expected one heir in the result")
	}
}

func TestHandleRejectsInvalidJSON(t *testing.T) {
	h := New(zap.NewNop(), nil)

	ctx := doRequest(t, h, fasthttp.MethodPost, "/simulate", "{not json")
	if ctx.Response.StatusCode() != fasthttp.StatusBadRequest {
		t.Fatalf("expected 400, got %d", ctx.Response.StatusCode())
	}
}

func TestHandleRejectsMissingRequiredFields(t *testing.T) {
	h := New(zap.NewNop(), nil)

	ctx := doRequest(t, h, fasthttp.MethodPost, "/simulate", `{"matrimonial_regime": "SEPARATION"}`)
	if ctx.Response.StatusCode() != fasthttp.StatusBadRequest {
		t.Fatalf("expected 400, got %d", ctx.Response.StatusCode())
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(ctx.Response.Body(), &errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Status != fasthttp.StatusBadRequest {
		t.Fatalf("expected status 400 in body, got %d", errResp.Status)
	}
}

func TestHandleRejectsWrongMethod(t *testing.T) {
	h := New(zap.NewNop(), nil)

	ctx := doRequest(t, h, fasthttp.MethodGet, "/simulate", "")
	if ctx.Response.StatusCode() != fasthttp.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", ctx.Response.StatusCode())
	}
}

func TestHandleUnknownPath(t *testing.T) {
	h := New(zap.NewNop(), nil)

	ctx := doRequest(t, h, fasthttp.MethodPost, "/other", validBody)
	if ctx.Response.StatusCode() != fasthttp.StatusNotFound {
		t.Fatalf("expected 404, got %d", ctx.Response.StatusCode())
	}
}
