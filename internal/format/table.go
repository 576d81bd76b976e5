package format

import (
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

// TableFormatter handles table output formatting
type TableFormatter struct {
	useColors bool
}

// NewTableFormatter creates a new table formatter
func NewTableFormatter(useColors bool) *TableFormatter {
	return &TableFormatter{
		useColors: useColors,
	}
}

// Format formats data as a table. Slices of structs render one row per
// element with columns in field declaration order; single structs and maps
// render as vertical property tables.
func (f *TableFormatter) Format(data interface{}) error {
	if data == nil {
		fmt.Fprintln(Out, "No data to display")
		return nil
	}

	switch v := data.(type) {
	case map[string]interface{}:
		return f.formatMap(v)
	case []map[string]interface{}:
		return f.formatMapSlice(v)
	}

	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			fmt.Fprintln(Out, "No data to display")
			return nil
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Struct:
		return f.formatStruct(v)
	case reflect.Slice:
		return f.formatSlice(v)
	default:
		fmt.Fprintf(Out, "%v\n", data)
		return nil
	}
}

// formatSlice renders a slice of structs as one table, anything else as a
// single Value column.
func (f *TableFormatter) formatSlice(v reflect.Value) error {
	if v.Len() == 0 {
		fmt.Fprintln(Out, "No data to display")
		return nil
	}

	elem := v.Index(0)
	if elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}
	if elem.Kind() != reflect.Struct {
		table := f.newTable([]string{"Value"})
		for i := 0; i < v.Len(); i++ {
			table.Append([]string{f.formatValue(v.Index(i).Interface())})
		}
		table.Render()
		return nil
	}

	fields := visibleFields(elem.Type())
	headers := make([]string, len(fields))
	for i, fi := range fields {
		headers[i] = prettyKey(fi.Name)
	}

	table := f.newTable(headers)
	for i := 0; i < v.Len(); i++ {
		row := v.Index(i)
		if row.Kind() == reflect.Ptr {
			row = row.Elem()
		}
		values := make([]string, len(fields))
		for j, fi := range fields {
			values[j] = f.formatValue(row.FieldByIndex(fi.Index).Interface())
		}
		table.Append(values)
	}
	table.Render()
	return nil
}

// formatStruct renders a single struct as a vertical Property/Value table.
func (f *TableFormatter) formatStruct(v reflect.Value) error {
	table := f.newTable([]string{"Property", "Value"})
	for _, fi := range visibleFields(v.Type()) {
		table.Append([]string{
			prettyKey(fi.Name),
			f.formatValue(v.FieldByIndex(fi.Index).Interface()),
		})
	}
	table.Render()
	return nil
}

// formatMap renders a map as a vertical table with sorted keys.
func (f *TableFormatter) formatMap(data map[string]interface{}) error {
	table := f.newTable([]string{"Property", "Value"})
	for _, key := range sortedKeys(data) {
		table.Append([]string{prettyKey(key), f.formatValue(data[key])})
	}
	table.Render()
	return nil
}

// formatMapSlice renders a slice of maps, taking headers from the sorted
// keys of the first element.
func (f *TableFormatter) formatMapSlice(data []map[string]interface{}) error {
	if len(data) == 0 {
		fmt.Fprintln(Out, "No data to display")
		return nil
	}

	keys := sortedKeys(data[0])
	headers := make([]string, len(keys))
	for i, key := range keys {
		headers[i] = prettyKey(key)
	}

	table := f.newTable(headers)
	for _, row := range data {
		values := make([]string, len(keys))
		for i, key := range keys {
			values[i] = f.formatValue(row[key])
		}
		table.Append(values)
	}
	table.Render()
	return nil
}

// newTable creates a tablewriter with the shared appearance settings.
func (f *TableFormatter) newTable(headers []string) *tablewriter.Table {
	table := tablewriter.NewWriter(Out)
	table.SetHeader(headers)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")
	table.SetNoWhiteSpace(true)

	if f.useColors {
		colors := make([]tablewriter.Colors, len(headers))
		for i := range colors {
			colors[i] = tablewriter.Colors{tablewriter.Bold, tablewriter.FgHiBlueColor}
		}
		table.SetHeaderColor(colors...)
	}
	return table
}

// formatValue formats a value for display
func (f *TableFormatter) formatValue(value interface{}) string {
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case int, int8, int16, int32, int64:
		return fmt.Sprintf("%d", v)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", v)
	case float32, float64:
		return fmt.Sprintf("%.2f", v)
	case bool:
		if f.useColors {
			if v {
				return color.GreenString("true")
			}
			return color.RedString("false")
		}
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// visibleFields returns the exported non-struct fields of t in declaration
// order. Nested slices and structs are skipped; they do not fit in a cell.
func visibleFields(t reflect.Type) []reflect.StructField {
	fields := make([]reflect.StructField, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		fi := t.Field(i)
		if !fi.IsExported() {
			continue
		}
		switch fi.Type.Kind() {
		case reflect.Slice, reflect.Map, reflect.Struct:
			continue
		}
		fields = append(fields, fi)
	}
	return fields
}

// prettyKey converts snake_case or CamelCase keys to Title Case headers.
func prettyKey(key string) string {
	words := strings.Split(key, "_")
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

// sortedKeys returns map keys in a stable order.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
