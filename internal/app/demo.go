package app

import "github.com/oxidekit/oxidekit-core/internal/cir"

// buildDemoTree returns the fallback CIR tree shown when no compiled UI
// is supplied and — per §4.10 — reused verbatim as the CompilationError
// fallback too, rather than defining a second tree for that case: a
// centered card with a title bar (three window-control dots), a row of
// colored swatches, and a row of buttons.
func buildDemoTree() *cir.Node {
	return &cir.Node{
		Kind: cir.KindContainer,
		ID:   "root",
		Style: []cir.Property{
			{Name: "width", Value: cir.String("fill")},
			{Name: "height", Value: cir.String("fill")},
			{Name: "justify", Value: cir.String("center")},
			{Name: "align", Value: cir.String("center")},
			{Name: "background_color", Value: cir.String("#1e1e24")},
		},
		Children: []*cir.Node{demoCard()},
	}
}

func demoCard() *cir.Node {
	return &cir.Node{
		Kind: cir.KindColumn,
		ID:   "demo.card",
		Style: []cir.Property{
			{Name: "width", Value: cir.Number(420)},
			{Name: "height", Value: cir.String("auto")},
			{Name: "padding", Value: cir.String("0")},
			{Name: "background_color", Value: cir.String("#2a2a33")},
			{Name: "border_color", Value: cir.String("#3d3d48")},
			{Name: "border_width", Value: cir.Number(1)},
			{Name: "border_radius", Value: cir.Number(10)},
			{Name: "overflow", Value: cir.String("hidden")},
		},
		Children: []*cir.Node{
			demoTitleBar(),
			demoSwatchRow(),
			demoButtonRow(),
		},
	}
}

func demoTitleBar() *cir.Node {
	return &cir.Node{
		Kind: cir.KindRow,
		ID:   "demo.titlebar",
		Style: []cir.Property{
			{Name: "width", Value: cir.String("fill")},
			{Name: "height", Value: cir.Number(40)},
			{Name: "padding", Value: cir.String("0 12")},
			{Name: "align", Value: cir.String("center")},
			{Name: "gap", Value: cir.Number(8)},
			{Name: "background_color", Value: cir.String("#22222a")},
		},
		Children: []*cir.Node{
			demoDot("demo.dot.close", "#ff5f57"),
			demoDot("demo.dot.minimize", "#febc2e"),
			demoDot("demo.dot.maximize", "#28c840"),
			{
				Kind: cir.KindText,
				ID:   "demo.title",
				Props: []cir.Property{
					{Name: "text", Value: cir.String("OxideKit")},
				},
				Style: []cir.Property{
					{Name: "color", Value: cir.String("#d8d8e0")},
					{Name: "font_size", Value: cir.Number(14)},
					{Name: "margin", Value: cir.String("0 0 0 4")},
				},
			},
		},
	}
}

func demoDot(id, color string) *cir.Node {
	return &cir.Node{
		Kind: cir.KindContainer,
		ID:   id,
		Style: []cir.Property{
			{Name: "width", Value: cir.Number(12)},
			{Name: "height", Value: cir.Number(12)},
			{Name: "border_radius", Value: cir.Number(6)},
			{Name: "background_color", Value: cir.String(color)},
		},
	}
}

func demoSwatchRow() *cir.Node {
	colors := []string{"#ff6b6b", "#ffd166", "#06d6a0", "#4cc9f0", "#a78bfa"}
	row := &cir.Node{
		Kind: cir.KindRow,
		ID:   "demo.swatches",
		Style: []cir.Property{
			{Name: "width", Value: cir.String("fill")},
			{Name: "padding", Value: cir.String("20 20 8 20")},
			{Name: "gap", Value: cir.Number(10)},
			{Name: "justify", Value: cir.String("space-between")},
		},
	}
	for i, c := range colors {
		row.Children = append(row.Children, &cir.Node{
			Kind: cir.KindContainer,
			ID:   "demo.swatch." + string(rune('a'+i)),
			Style: []cir.Property{
				{Name: "width", Value: cir.Number(48)},
				{Name: "height", Value: cir.Number(48)},
				{Name: "border_radius", Value: cir.Number(8)},
				{Name: "background_color", Value: cir.String(c)},
			},
		})
	}
	return row
}

func demoButtonRow() *cir.Node {
	return &cir.Node{
		Kind: cir.KindRow,
		ID:   "demo.buttons",
		Style: []cir.Property{
			{Name: "width", Value: cir.String("fill")},
			{Name: "padding", Value: cir.String("8 20 20 20")},
			{Name: "gap", Value: cir.Number(10)},
			{Name: "justify", Value: cir.String("end")},
		},
		Children: []*cir.Node{
			demoButton("demo.button.secondary", "Cancel", "#3d3d48", "state.cancel_count += 1"),
			demoButton("demo.button.primary", "Continue", "#4f8cff", "state.continue_count += 1"),
		},
	}
}

func demoButton(id, label, bg, onClick string) *cir.Node {
	return &cir.Node{
		Kind: cir.KindButton,
		ID:   id,
		Style: []cir.Property{
			{Name: "padding", Value: cir.String("8 16")},
			{Name: "border_radius", Value: cir.Number(6)},
			{Name: "background_color", Value: cir.String(bg)},
			{Name: "justify", Value: cir.String("center")},
			{Name: "align", Value: cir.String("center")},
		},
		Handlers: []cir.Handler{
			{Event: cir.EventClick, Expression: onClick},
		},
		Children: []*cir.Node{
			{
				Kind: cir.KindText,
				ID:   id + ".label",
				Props: []cir.Property{
					{Name: "text", Value: cir.String(label)},
				},
				Style: []cir.Property{
					{Name: "color", Value: cir.String("#ffffff")},
					{Name: "font_size", Value: cir.Number(13)},
				},
			},
		},
	}
}
