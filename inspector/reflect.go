package inspector

import (
	"fmt"
	"image/color"
	"reflect"
	"strconv"
	"strings"
)

// Widget selects how the inspector panel draws a field.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetBool
	WidgetSwatch
	WidgetSkip
)

var widgetNames = map[string]Widget{
	"label":  WidgetLabel,
	"bar":    WidgetBar,
	"bool":   WidgetBool,
	"swatch": WidgetSwatch,
	"skip":   WidgetSkip,
}

// Field is one exported field of a particle or its material, ready to draw.
// Name is the struct field name unless the tag carries a name option.
type Field struct {
	Name    string
	Value   interface{}
	Widget  Widget
	Options map[string]string
}

// ParseTag splits an inspect struct tag into its widget and options.
// components.Particle and materials.Material carry these tags, e.g.
//
//	`inspect:"bar"`              adhesion in [0, 1]
//	`inspect:"label,fmt:%.2f"`   gravity
//	`inspect:"label,name:Last cell"`
//	`inspect:"skip"`             bookkeeping fields such as the tick stamp
//
// Unknown widget names fall back to WidgetAuto.
func ParseTag(tag string) (Widget, map[string]string) {
	options := make(map[string]string)
	if tag == "" {
		return WidgetAuto, options
	}

	parts := strings.Split(tag, ",")
	widget, ok := widgetNames[strings.TrimSpace(parts[0])]
	if !ok {
		widget = WidgetAuto
	}
	for _, part := range parts[1:] {
		if k, v, found := strings.Cut(strings.TrimSpace(part), ":"); found {
			options[k] = v
		}
	}
	return widget, options
}

// ExtractFields lists the exported, non-skipped fields of a struct or pointer
// to struct in declaration order. Anything else yields nil.
func ExtractFields(component interface{}) []Field {
	v := reflect.ValueOf(component)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	t := v.Type()
	var fields []Field
	for i := 0; i < v.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		widget, options := ParseTag(sf.Tag.Get("inspect"))
		if widget == WidgetSkip {
			continue
		}
		fv := v.Field(i).Interface()
		if widget == WidgetAuto {
			widget = autoWidget(fv)
		}
		name := sf.Name
		if n, ok := options["name"]; ok {
			name = n
		}
		fields = append(fields, Field{Name: name, Value: fv, Widget: widget, Options: options})
	}
	return fields
}

func autoWidget(v interface{}) Widget {
	switch v.(type) {
	case bool:
		return WidgetBool
	case color.RGBA:
		return WidgetSwatch
	}
	return WidgetLabel
}

// FormatValue renders a field value as text. Stringers such as vmath.Cell and
// components.State use their own form, floats get two decimals and colors
// print as #rrggbb. A non-empty fmtStr overrides all of that.
func FormatValue(value interface{}, fmtStr string) string {
	if fmtStr != "" {
		return fmt.Sprintf(fmtStr, value)
	}
	switch v := value.(type) {
	case fmt.Stringer:
		return v.String()
	case color.RGBA:
		return fmt.Sprintf("#%02x%02x%02x", v.R, v.G, v.B)
	case float32, float64:
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%v", value)
}

// GetMax returns the bar's max option, 1 when absent or malformed.
func GetMax(options map[string]string) float32 {
	if s, ok := options["max"]; ok {
		if m, err := strconv.ParseFloat(s, 32); err == nil {
			return float32(m)
		}
	}
	return 1
}

// GetFloatValue converts the numeric field kinds found on particles and
// materials to float32.
func GetFloatValue(value interface{}) (float32, bool) {
	switch v := value.(type) {
	case float32:
		return v, true
	case float64:
		return float32(v), true
	case int:
		return float32(v), true
	case uint64:
		return float32(v), true
	}
	return 0, false
}
