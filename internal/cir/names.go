package cir

import "strings"

// canonicalNames maps every camelCase alias to the snake_case canonical
// form layout/render code matches against. Per §3, "both camelCase and
// snake_case map to one canonical form" — this runtime's canonical form
// is snake_case, matching the oxide.toml manifest's own convention.
var canonicalNames = map[string]string{
	"backgroundColor": "background_color",
	"borderColor":     "border_color",
	"borderWidth":     "border_width",
	"borderRadius":    "border_radius",
	"fontSize":        "font_size",
	"fontWeight":      "font_weight",
	"lineHeight":      "line_height",
	"minWidth":        "min_width",
	"minHeight":       "min_height",
	"maxWidth":        "max_width",
	"maxHeight":       "max_height",
	"flexGrow":        "flex_grow",
	"flexShrink":      "flex_shrink",
	"flexBasis":       "flex_basis",
	"flexWrap":        "flex_wrap",
	"flexDirection":   "flex_direction",
	"aspectRatio":     "aspect_ratio",
	"alignItems":      "align",
	"justifyContent":  "justify",
	"clipsChildren":   "clips_children",
	"onClick":         "click",
	"onDoubleClick":   "doubleclick",
	"onMouseDown":     "mousedown",
	"onMouseUp":       "mouseup",
	"onMouseEnter":    "mouseenter",
	"onMouseLeave":    "mouseleave",
	"onMouseMove":     "mousemove",
	"onFocus":         "focus",
	"onBlur":          "blur",
	"onKeyDown":       "keydown",
	"onKeyUp":         "keyup",
	"onInput":         "input",
}

// CanonicalName normalises a property or handler name to its single
// canonical snake_case form. Names with a registered alias map to it;
// any other name is converted from camelCase to snake_case, so names
// already in snake_case come back unchanged.
func CanonicalName(name string) string {
	if canon, ok := canonicalNames[name]; ok {
		return canon
	}
	return toSnakeCase(name)
}

func toSnakeCase(s string) string {
	if !strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		return s
	}
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
