// ABOUTME: JSON Schemas for each model payload and the validation step that checks them
// ABOUTME: A wrong top-level shape fails; field deviations are reported for defaulting
package ai

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xeipuuv/gojsonschema"
)

const rootField = "(root)"

// Validation is the outcome of checking a payload against its schema.
// When OK is false, Reason says why and the payload must not be used.
// When OK is true, Defaulted lists the top-level fields that were missing
// or malformed and will be coerced.
type Validation struct {
	OK        bool
	Reason    string
	Defaulted []string
}

const meetingPrepSchemaJSON = `{
  "type": "object",
  "required": ["clientSnapshot", "recentContext", "keyTopicsToDiscuss", "openActionItems",
               "questionsToAsk", "potentialConcerns", "relationshipNotes"],
  "properties": {
    "clientSnapshot":     {"type": "string"},
    "recentContext":      {"type": "string"},
    "keyTopicsToDiscuss": {"type": "array", "items": {"type": "string"}},
    "openActionItems":    {"type": "array", "items": {"type": "string"}},
    "questionsToAsk":     {"type": "array", "items": {"type": "string"}},
    "potentialConcerns":  {"type": "string"},
    "relationshipNotes":  {"type": "string"}
  }
}`

const clientSchemaJSON = `{
  "type": "object",
  "required": ["name", "aum", "riskProfile", "goals", "accounts"],
  "properties": {
    "name":        {"type": "string"},
    "aum":         {"type": "number", "minimum": 0},
    "riskProfile": {"enum": ["Conservative", "Moderate", "Moderate-Aggressive", "Aggressive"]},
    "advisor":     {"type": "string"},
    "lastContact": {"type": "string"},
    "goals": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name":          {"type": "string"},
          "targetAmount":  {"type": "number", "minimum": 0},
          "currentAmount": {"type": "number", "minimum": 0},
          "targetDate":    {"type": "string"}
        }
      }
    },
    "accounts": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "name":    {"type": "string"},
          "type":    {"enum": ["IRA", "Brokerage", "401k", "Roth IRA", "Trust"]},
          "balance": {"type": "number", "minimum": 0}
        }
      }
    }
  }
}`

const crmUpdateSchemaJSON = `{
  "type": "object",
  "required": ["fieldUpdates", "tasks", "auditLog"],
  "properties": {
    "fieldUpdates": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["fieldName", "proposedValue"],
        "properties": {
          "fieldName":     {"type": "string"},
          "currentValue":  {"type": ["string", "null"]},
          "proposedValue": {"type": "string"},
          "confidence":    {"type": "number", "minimum": 0, "maximum": 1},
          "sourceSnippet": {"type": "string"}
        }
      }
    },
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["description"],
        "properties": {
          "owner":       {"type": "string"},
          "description": {"type": "string"},
          "dueDate":     {"type": ["string", "null"]},
          "priority":    {"enum": ["low", "medium", "high"]}
        }
      }
    },
    "auditLog": {
      "type": "object",
      "properties": {
        "summary":   {"type": "string"},
        "tags":      {"type": "array", "items": {"type": "string"}},
        "timestamp": {"type": "string"}
      }
    }
  }
}`

var (
	meetingPrepSchema = mustSchema(meetingPrepSchemaJSON)
	clientSchema      = mustSchema(clientSchemaJSON)
	crmUpdateSchema   = mustSchema(crmUpdateSchemaJSON)
)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("ai: invalid embedded schema: %v", err))
	}
	return s
}

// validate checks content against schema.
func validate(schema *gojsonschema.Schema, content string) Validation {
	if !gjson.Valid(content) {
		return Validation{Reason: "content is not valid JSON"}
	}
	if !gjson.Parse(content).IsObject() {
		return Validation{Reason: "content is not a JSON object"}
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(content))
	if err != nil {
		return Validation{Reason: err.Error()}
	}

	seen := map[string]bool{}
	for _, e := range result.Errors() {
		field := e.Field()
		if field == rootField {
			if e.Type() != "required" {
				return Validation{Reason: e.Description()}
			}
			field = fmt.Sprint(e.Details()["property"])
		}
		seen[topLevel(field)] = true
	}

	defaulted := make([]string, 0, len(seen))
	for f := range seen {
		defaulted = append(defaulted, f)
	}
	sort.Strings(defaulted)
	return Validation{OK: true, Defaulted: defaulted}
}

func topLevel(field string) string {
	if i := strings.IndexByte(field, '.'); i >= 0 {
		return field[:i]
	}
	return field
}
