package util

import (
	"fmt"
	"reflect"
)

// IsStructInitialized reports the first zero field of the struct v points to.
// Fields tagged `ready:"optional"` may stay unset.
func IsStructInitialized(v any) error {
	val := reflect.Indirect(reflect.ValueOf(v))
	if val.Kind() != reflect.Struct {
		return fmt.Errorf("expected struct, got %s", val.Kind())
	}

	typ := val.Type()
	for i := range val.NumField() {
		field := typ.Field(i)
		if !field.IsExported() || field.Tag.Get("ready") == "optional" {
			continue
		}

		if val.Field(i).IsZero() {
			return fmt.Errorf("struct field %q is not initialized", field.Name)
		}
	}

	return nil
}
