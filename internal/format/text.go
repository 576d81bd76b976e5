package format

import (
	"fmt"
	"reflect"
)

// TextFormatter handles simple text output formatting
type TextFormatter struct{}

// NewTextFormatter creates a new text formatter
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{}
}

// Format formats data as simple key: value text
func (f *TextFormatter) Format(data interface{}) error {
	if data == nil {
		fmt.Fprintln(Out, "No data")
		return nil
	}

	switch v := data.(type) {
	case string:
		fmt.Fprintln(Out, v)
		return nil
	case map[string]interface{}:
		for _, key := range sortedKeys(v) {
			fmt.Fprintf(Out, "%s: %v\n", prettyKey(key), v[key])
		}
		return nil
	}

	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			fmt.Fprintln(Out, "No data")
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		f.printStruct(v, "")
		return nil
	case reflect.Slice:
		if v.Len() == 0 {
			fmt.Fprintln(Out, "No data")
			return nil
		}
		for i := 0; i < v.Len(); i++ {
			if i > 0 {
				fmt.Fprintln(Out)
			}
			fmt.Fprintf(Out, "Item %d:\n", i+1)
			item := v.Index(i)
			if item.Kind() == reflect.Ptr {
				item = item.Elem()
			}
			if item.Kind() == reflect.Struct {
				f.printStruct(item, "  ")
			} else {
				fmt.Fprintf(Out, "  %v\n", item.Interface())
			}
		}
		return nil
	default:
		fmt.Fprintf(Out, "%v\n", data)
		return nil
	}
}

func (f *TextFormatter) printStruct(v reflect.Value, indent string) {
	for _, fi := range visibleFields(v.Type()) {
		fmt.Fprintf(Out, "%s%s: %v\n", indent, prettyKey(fi.Name), v.FieldByIndex(fi.Index).Interface())
	}
}
