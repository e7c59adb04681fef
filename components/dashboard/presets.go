package dashboard

// ChartPreset holds the static styling defaults for one chart kind plus the
// JSON schema constraining caller-supplied overrides. Presets are data, not
// code: adding a kind means registering another entry.
type ChartPreset struct {
	Kind   ChartKind
	Args   map[string]any
	Schema map[string]any
}

func borderArgs(top, bottom, left, right int) map[string]any {
	return map[string]any{"top": top, "bottom": bottom, "left": left, "right": right}
}

// DefaultChartPresets returns the stock presets for the three supported
// kinds. The numbers mirror the service's reference styling.
func DefaultChartPresets() []ChartPreset {
	return []ChartPreset{
		{
			Kind: ChartLine,
			Args: map[string]any{
				"width":               512,
				"height":              256,
				"border":              borderArgs(10, 50, 70, 20),
				"titleVerticalOffset": -230,
				"fontFamily":          "Calibri",
			},
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": map[string]any{"type": "string"},
				},
				"additionalProperties": false,
			},
		},
		{
			Kind: ChartBar,
			Args: map[string]any{
				"width":               512,
				"height":              256,
				"border":              borderArgs(10, 40, 70, 20),
				"xUnit":               "",
				"colorScheme":         "green",
				"fontFamily":          "Calibri",
				"fontSize":            1,
				"titleVerticalOffset": -230,
				"titleFontSize":       23,
			},
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title": map[string]any{"type": "string"},
					"yMax":  map[string]any{"type": "number"},
					"yUnit": map[string]any{"type": "string"},
				},
				"additionalProperties": false,
			},
		},
		{
			Kind: ChartPie,
			Args: map[string]any{
				"width":               400,
				"height":              230,
				"border":              borderArgs(15, 35, 80, 0),
				"colorScheme":         "green",
				"innerRadiusPercent":  0.5,
				"legendPosition":      "left",
				"fontFamily":          "Calibri",
				"fontSize":            16,
				"titleVerticalOffset": -210,
				"titleFontSize":       20,
			},
			Schema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"title":                  map[string]any{"type": "string"},
					"legendHorizontalOffset": map[string]any{"type": "number"},
				},
				"additionalProperties": false,
			},
		},
	}
}
