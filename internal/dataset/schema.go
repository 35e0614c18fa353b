package dataset

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaError lists every schema violation found in a scores document.
type SchemaError struct {
	Problems []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("scores document failed schema validation: %s", strings.Join(e.Problems, "; "))
}

var scoresSchemaLoader = gojsonschema.NewStringLoader(scoresSchemaJSON)

// ValidateSchema checks raw JSON against the scores document schema.
func ValidateSchema(data []byte) error {
	result, err := gojsonschema.Validate(scoresSchemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}
	problems := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	return &SchemaError{Problems: problems}
}

const scoresSchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["benchmarkWeights", "modelBenchmarkData"],
  "properties": {
    "benchmarkWeights": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": {"type": "number", "minimum": 0}
    },
    "modelBenchmarkData": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "additionalProperties": {
          "type": "object",
          "additionalProperties": {"$ref": "#/definitions/score"}
        }
      }
    },
    "aggregatedScores": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["avg"],
        "properties": {
          "avg": {"type": "number"},
          "std": {"type": ["number", "null"], "minimum": 0},
          "n": {"type": "integer", "minimum": 0}
        }
      }
    },
    "stdData": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "additionalProperties": {
          "type": "object",
          "additionalProperties": {"type": "number", "minimum": 0}
        }
      }
    },
    "timeData": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["hours"],
        "properties": {
          "hours": {"type": "number", "minimum": 0},
          "time": {"type": "string"},
          "stdHours": {"type": ["number", "null"], "minimum": 0},
          "stdTime": {"type": ["string", "null"]},
          "n": {"type": "integer", "minimum": 0}
        }
      }
    }
  },
  "definitions": {
    "score": {
      "oneOf": [
        {"type": "number"},
        {
          "type": "object",
          "required": ["value"],
          "properties": {
            "value": {"type": "number"},
            "std": {"type": ["number", "null"], "minimum": 0},
            "fallbackType": {"type": ["boolean", "string", "null"]}
          }
        }
      ]
    }
  }
}`
