// Package validation checks the structural shape of request bodies before
// anything is stored.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const subscriptionsSchema = `{
  "type": "array"
}`

const notificationDataSchema = `{
  "type": "object",
  "required": ["formatVersion", "enabled", "notifications"],
  "properties": {
    "formatVersion": {"enum": [1]},
    "enabled": {"type": "boolean"},
    "notifications": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["id", "label", "price", "currency", "start", "frequency", "send"],
        "properties": {
          "id": {"type": "string"},
          "label": {"type": "string"},
          "price": {"type": "number"},
          "currency": {"type": "string"},
          "start": {"type": "string"},
          "send": {"type": "number"},
          "frequency": {
            "type": "object",
            "required": ["year", "month", "day"],
            "properties": {
              "year": {"type": "number"},
              "month": {"type": "number"},
              "day": {"type": "number"}
            }
          }
        }
      }
    }
  }
}`

var (
	subscriptions    = mustCompile(subscriptionsSchema)
	notificationData = mustCompile(notificationDataSchema)
)

func mustCompile(schema string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schema))
	if err != nil {
		panic(fmt.Sprintf("validation: invalid schema: %v", err))
	}
	return s
}

// Error lists every structural problem found in a document.
type Error struct {
	Details []string
}

func (e *Error) Error() string {
	return "invalid document: " + strings.Join(e.Details, "; ")
}

// Subscriptions checks that body is a JSON array. Elements are opaque push
// descriptors and are not inspected.
func Subscriptions(body []byte) error {
	return validate(subscriptions, body)
}

// NotificationData checks body against the NotificationData layout.
func NotificationData(body []byte) error {
	return validate(notificationData, body)
}

func validate(schema *gojsonschema.Schema, body []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		// gojsonschema reports unparsable input as an error rather than a result
		return &Error{Details: []string{fmt.Sprintf("malformed JSON: %v", err)}}
	}

	if !result.Valid() {
		details := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			details[i] = desc.String()
		}
		return &Error{Details: details}
	}

	return nil
}
