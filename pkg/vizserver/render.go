package vizserver

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	dashboard "github.com/vitalboard/go-vitalboard/components/dashboard"
)

// Visualizations advertised by the help listing.
var supportedVisualizations = []string{
	string(dashboard.ChartLine),
	string(dashboard.ChartBar),
	string(dashboard.ChartPie),
}

// Render turns processed series into an HTML fragment for the requested
// chart type. Styling args beyond title/width/height are accepted but only
// the ones echarts understands are honored.
func Render(spec dashboard.VisualizationSpec, series []Series) (string, error) {
	if len(series) == 0 {
		return "", fmt.Errorf("vizserver: nothing to render")
	}
	switch dashboard.ChartKind(spec.Type) {
	case dashboard.ChartLine:
		return renderLine(spec, series)
	case dashboard.ChartBar:
		return renderBar(spec, series)
	case dashboard.ChartPie:
		return renderPie(spec, series)
	default:
		return "", fmt.Errorf("vizserver: unsupported visualization type %q", spec.Type)
	}
}

func renderLine(spec dashboard.VisualizationSpec, series []Series) (string, error) {
	line := charts.NewLine()
	line.SetGlobalOptions(globalOptions(spec)...)
	line.SetXAxis(axisLabels(series))
	for _, s := range series {
		data := make([]opts.LineData, len(s.Points))
		for i, p := range s.Points {
			data[i] = opts.LineData{Name: p.Label, Value: p.Value}
		}
		line.AddSeries(s.ID, data)
	}
	return renderChart(line)
}

func renderBar(spec dashboard.VisualizationSpec, series []Series) (string, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(globalOptions(spec)...)
	bar.SetXAxis(axisLabels(series))
	for _, s := range series {
		data := make([]opts.BarData, len(s.Points))
		for i, p := range s.Points {
			data[i] = opts.BarData{Name: p.Label, Value: p.Value}
		}
		bar.AddSeries(s.ID, data)
	}
	return renderChart(bar)
}

func renderPie(spec dashboard.VisualizationSpec, series []Series) (string, error) {
	pie := charts.NewPie()
	pie.SetGlobalOptions(globalOptions(spec)...)
	for _, s := range series {
		data := make([]opts.PieData, 0, len(s.Points))
		for _, p := range s.Points {
			if p.Value == 0 {
				continue
			}
			data = append(data, opts.PieData{Name: p.Label, Value: p.Value})
		}
		pie.AddSeries(s.ID, data)
	}
	return renderChart(pie)
}

func renderChart(renderable interface{ Render(io.Writer) error }) (string, error) {
	var buf bytes.Buffer
	if err := renderable.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func globalOptions(spec dashboard.VisualizationSpec) []charts.GlobalOpts {
	title, _ := spec.Args["title"].(string)
	options := []charts.GlobalOpts{
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:  dimension(spec.Args, "width", "512px"),
			Height: dimension(spec.Args, "height", "256px"),
		}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	}
	if colors := schemeColors(spec.Args); len(colors) > 0 {
		options = append(options, charts.WithColorsOpts(opts.Colors(colors)))
	}
	return options
}

func dimension(args map[string]any, key, fallback string) string {
	switch v := args[key].(type) {
	case float64:
		return fmt.Sprintf("%dpx", int(v))
	case int:
		return fmt.Sprintf("%dpx", v)
	case string:
		return v
	default:
		return fallback
	}
}

// axisLabels takes the longest series' labels so shorter series still align.
func axisLabels(series []Series) []string {
	var labels []string
	for _, s := range series {
		if len(s.Points) > len(labels) {
			labels = make([]string, len(s.Points))
			for i, p := range s.Points {
				labels[i] = p.Label
			}
		}
	}
	return labels
}
