package utils

import (
	"fmt"
	"reflect"
	"strings"
)

var ColumnTag = "db"

// columnName returns the column for a struct field, or "" when the field is
// unexported or not mapped.
func columnName(field reflect.StructField) string {
	if field.PkgPath != "" {
		return ""
	}

	tagValue, _, _ := strings.Cut(field.Tag.Get(ColumnTag), ",")
	if tagValue == "-" {
		return ""
	}
	return tagValue
}

func structValue(input any) reflect.Value {
	v := reflect.ValueOf(input)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}

	if v.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}

	return v
}

// StructTagValues lists the column names of a struct in field order.
func StructTagValues(input any) []string {
	targetValue := structValue(input)
	targetType := targetValue.Type()

	result := make([]string, 0, targetValue.NumField())
	for i := 0; i < targetValue.NumField(); i++ {
		if name := columnName(targetType.Field(i)); name != "" {
			result = append(result, name)
		}
	}

	return result
}

// StructToMap maps column names to field values.
func StructToMap(input any) map[string]any {
	itemValue := structValue(input)
	itemType := itemValue.Type()

	result := make(map[string]any)
	for i := 0; i < itemValue.NumField(); i++ {
		if name := columnName(itemType.Field(i)); name != "" {
			result[name] = itemValue.Field(i).Interface()
		}
	}

	return result
}

func ErrorWrapOrNil(err error, msg string) error {
	if err == nil {
		return nil
	}

	if msg == "" {
		return err
	}

	return fmt.Errorf("%s: %w", msg, err)

}
