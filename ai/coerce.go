// ABOUTME: Coerces validated model payloads into internal result types
// ABOUTME: Scalars become one-element lists, nulls become empty values, amounts never go negative
package ai

import (
	"context"
	"strings"
	"time"

	"github.com/dexterfire861/ClarityWorks/models"
	"github.com/dexterfire861/ClarityWorks/parser"
	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
)

// request sends p and returns the payload once it passes schema.
func (a *Adapter) request(ctx context.Context, p Prompt, schema *gojsonschema.Schema) (gjson.Result, error) {
	content, err := a.complete(ctx, p)
	if err != nil {
		return gjson.Result{}, err
	}

	v := validate(schema, content)
	if !v.OK {
		a.logger.Debug("unusable model response",
			zap.String("kind", p.Kind),
			zap.String("reason", v.Reason),
			zap.String("content", content))
		return gjson.Result{}, &ParseError{Kind: p.Kind, Reason: v.Reason}
	}
	if len(v.Defaulted) > 0 {
		a.logger.Debug("defaulting malformed fields", zap.String("kind", p.Kind), zap.Strings("fields", v.Defaulted))
	}
	return gjson.Parse(content), nil
}

// stringList accepts an array, a lone scalar, or nothing.
func stringList(r gjson.Result) []string {
	out := []string{}
	if r.IsArray() {
		for _, el := range r.Array() {
			if s := parser.StringFrom(el); s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	if s := parser.StringFrom(r); s != "" {
		out = append(out, s)
	}
	return out
}

// confidenceFrom reads a 0..1 score, accepting percentages like 85 or "85%".
func confidenceFrom(r gjson.Result) float64 {
	f, _ := parser.AmountFrom(r).Float64()
	if f > 1 {
		f /= 100
	}
	if f > 1 {
		f = 1
	}
	return f
}

func priorityFrom(r gjson.Result) models.Priority {
	if p, ok := models.ParsePriority(parser.StringFrom(r)); ok {
		return p
	}
	return models.PriorityMedium
}

// dueDateFrom is nil unless the value is a readable YYYY-MM-DD date.
func dueDateFrom(r gjson.Result) *models.Date {
	d, err := models.ParseDate(parser.StringFrom(r))
	if err != nil {
		return nil
	}
	return &d
}

func timestampFrom(r gjson.Result, now time.Time) time.Time {
	s := strings.TrimSpace(parser.StringFrom(r))
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC()
	}
	if d, err := models.ParseDate(s); err == nil {
		return d.Time
	}
	return now.UTC()
}
