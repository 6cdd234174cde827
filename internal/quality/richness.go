package quality

import (
	"reflect"
	"strings"

	"github.com/prospect-analyzer/data-validation/internal/models"
)

// identifierKeywords mark field names that carry unique identifiers.
var identifierKeywords = []string{"url", "id", "link"}

// AnalyzeRichness walks the record payload and quantifies how much usable
// content it carries. Metrics are structural only; no field is validated here.
func AnalyzeRichness(rec models.Record) RichnessMetrics {
	var metrics RichnessMetrics

	payload := rec.Payload()
	if payload == nil {
		return metrics
	}

	value := reflect.ValueOf(payload)
	for value.Kind() == reflect.Ptr {
		if value.IsNil() {
			return metrics
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return metrics
	}

	structType := value.Type()
	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		if !field.IsExported() {
			continue
		}
		metrics.FieldCount++

		fieldValue := value.Field(i)
		if isEmptyValue(fieldValue) {
			continue
		}
		metrics.NonEmptyFields++

		for fieldValue.Kind() == reflect.Ptr {
			fieldValue = fieldValue.Elem()
		}

		switch fieldValue.Kind() {
		case reflect.Slice:
			metrics.ListFields++
			if fieldValue.Len() >= 3 {
				metrics.RichFields++
			}
		case reflect.Map:
			metrics.NestedObjects++
			if fieldValue.Len() >= 3 {
				metrics.RichFields++
			}
		case reflect.Struct:
			metrics.NestedObjects++
			if populatedFieldCount(fieldValue) >= 3 {
				metrics.RichFields++
			}
		case reflect.String:
			text := fieldValue.String()
			metrics.TextContentLength += len(text)
			if len(text) >= 50 {
				metrics.RichFields++
			}
			if containsIdentifierKeyword(fieldName(field)) {
				metrics.UniqueIdentifiers++
			}
		}
	}

	if metrics.FieldCount > 0 {
		metrics.CompletenessRatio = float64(metrics.NonEmptyFields) / float64(metrics.FieldCount)
		metrics.RichnessRatio = float64(metrics.RichFields) / float64(metrics.FieldCount)
	}
	return metrics
}

// fieldName resolves the wire name of a struct field, falling back to the Go
// name when no json tag is present.
func fieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}
	if idx := strings.Index(tag, ","); idx >= 0 {
		tag = tag[:idx]
	}
	if tag == "" {
		return field.Name
	}
	return tag
}

func containsIdentifierKeyword(name string) bool {
	lower := strings.ToLower(name)
	for _, keyword := range identifierKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		return v.IsNil()
	case reflect.Slice, reflect.Map:
		return v.Len() == 0
	case reflect.String:
		return v.String() == ""
	default:
		return v.IsZero()
	}
}

func populatedFieldCount(v reflect.Value) int {
	if v.Kind() != reflect.Struct {
		return 0
	}
	count := 0
	for i := 0; i < v.NumField(); i++ {
		if v.Type().Field(i).IsExported() && !isEmptyValue(v.Field(i)) {
			count++
		}
	}
	return count
}
