// Package trace accumulates the calculation steps, alerts and explanation
// keys a simulation emits. One Tracer belongs to one simulation; it is
// append-only and returned with the output, never shared.
package trace

import "succession-engine/internal/model"

type Tracer struct {
	steps  []model.CalculationStep
	alerts []model.Alert
	keys   []model.Explanation
}

func New() *Tracer {
	return &Tracer{}
}

// Step records a completed pipeline step.
func (t *Tracer) Step(number int, name, description, summary string) {
	t.steps = append(t.steps, model.CalculationStep{
		StepNumber:    number,
		StepName:      name,
		Description:   description,
		ResultSummary: summary,
	})
}

// Key records a global explanation key (Art. citation + context values).
func (t *Tracer) Key(key string, ctx map[string]string) {
	t.keys = append(t.keys, model.Explanation{Key: key, Context: ctx})
}

// Alert records a structured alert.
func (t *Tracer) Alert(sev model.AlertSeverity, aud model.AlertAudience, cat model.AlertCategory, message, details string, keys ...model.Explanation) {
	t.alerts = append(t.alerts, model.Alert{
		Severity:        sev,
		Audience:        aud,
		Category:        cat,
		Message:         message,
		Details:         details,
		ExplanationKeys: keys,
	})
}

// LegalWarning flags a devolution rule issue for the user.
func (t *Tracer) LegalWarning(message, details string, keys ...model.Explanation) {
	t.Alert(model.SeverityWarning, model.AudienceUser, model.CategoryLegal, message, details, keys...)
}

// FiscalNote records a tax point of vigilance for the notary.
func (t *Tracer) FiscalNote(message, details string, keys ...model.Explanation) {
	t.Alert(model.SeverityInfo, model.AudienceNotary, model.CategoryFiscal, message, details, keys...)
}

// DataWarning flags inconsistent input data.
func (t *Tracer) DataWarning(message, details string, keys ...model.Explanation) {
	t.Alert(model.SeverityWarning, model.AudienceUser, model.CategoryData, message, details, keys...)
}

// Error flags a blocking legal problem; the calculation still completes.
func (t *Tracer) Error(message, details string, keys ...model.Explanation) {
	t.Alert(model.SeverityError, model.AudienceUser, model.CategoryLegal, message, details, keys...)
}

func (t *Tracer) Steps() []model.CalculationStep {
	return t.steps
}

func (t *Tracer) Alerts() []model.Alert {
	if t.alerts == nil {
		return []model.Alert{}
	}
	return t.alerts
}

func (t *Tracer) Keys() []model.Explanation {
	return t.keys
}
