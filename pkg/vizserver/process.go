package vizserver

import (
	"fmt"
	"time"

	dashboard "github.com/vitalboard/go-vitalboard/components/dashboard"
)

// Processing methods and their parameters advertised by the help listing.
var supportedProcessingMethods = []string{
	dashboard.MethodAggregation,
	dashboard.MethodAccumulation,
}

// Point is a labeled value ready for rendering.
type Point struct {
	Label string
	Value float64
}

// Series is the processed output for one dataset.
type Series struct {
	ID     string
	Points []Point
}

var weekdayLabels = [7]string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Process applies the request's processor pipeline to the selected samples.
// An empty pipeline plots raw samples with timestamp labels.
func Process(procs []dashboard.ProcessorSpec, selected map[string][]Sample) ([]Series, error) {
	if len(procs) == 0 {
		return rawSeries(selected), nil
	}
	if len(procs) > 1 {
		return nil, fmt.Errorf("vizserver: at most one processor is supported, got %d", len(procs))
	}
	proc := procs[0]
	switch proc.Method {
	case dashboard.MethodAggregation:
		return aggregate(proc.Args, selected)
	case dashboard.MethodAccumulation:
		return accumulate(proc.Args, selected)
	default:
		return nil, fmt.Errorf("vizserver: unknown processing method %q", proc.Method)
	}
}

func rawSeries(selected map[string][]Sample) []Series {
	out := make([]Series, 0, len(selected))
	for id, samples := range selected {
		points := make([]Point, len(samples))
		for i, sample := range samples {
			points[i] = Point{
				Label: time.UnixMilli(sample.T).UTC().Format("02.01. 15:04"),
				Value: sample.Value,
			}
		}
		out = append(out, Series{ID: id, Points: points})
	}
	sortSeries(out)
	return out
}

// aggregate buckets samples by hour of day or weekday and reduces each bucket
// with sum or mean.
func aggregate(args dashboard.ProcessorArgs, selected map[string][]Sample) ([]Series, error) {
	buckets, labels, err := bucketsFor(args.Param)
	if err != nil {
		return nil, err
	}
	out := make([]Series, 0, len(selected))
	for id, samples := range selected {
		sums := make([]float64, buckets)
		counts := make([]int, buckets)
		for _, sample := range samples {
			idx := bucketIndex(args.Param, sample.T)
			sums[idx] += sample.Value
			counts[idx]++
		}
		points := make([]Point, buckets)
		for i := range points {
			value := sums[i]
			if args.Mode == dashboard.ModeMean && counts[i] > 0 {
				value = sums[i] / float64(counts[i])
			}
			points[i] = Point{Label: labels[i], Value: value}
		}
		out = append(out, Series{ID: outputID(args, id), Points: points})
	}
	sortSeries(out)
	return out, nil
}

// accumulate replaces each sample with the running total so far.
func accumulate(args dashboard.ProcessorArgs, selected map[string][]Sample) ([]Series, error) {
	out := make([]Series, 0, len(selected))
	for id, samples := range selected {
		total := 0.0
		points := make([]Point, len(samples))
		for i, sample := range samples {
			total += sample.Value
			points[i] = Point{
				Label: time.UnixMilli(sample.T).UTC().Format("02.01. 15:04"),
				Value: total,
			}
		}
		out = append(out, Series{ID: outputID(args, id), Points: points})
	}
	sortSeries(out)
	return out, nil
}

func bucketsFor(param string) (int, []string, error) {
	switch param {
	case dashboard.ParamHour:
		labels := make([]string, 24)
		for i := range labels {
			labels[i] = fmt.Sprintf("%02d", i)
		}
		return 24, labels, nil
	case dashboard.ParamWeekday:
		return 7, weekdayLabels[:], nil
	default:
		return 0, nil, fmt.Errorf("vizserver: unknown aggregation param %q", param)
	}
}

func bucketIndex(param string, t int64) int {
	at := time.UnixMilli(t).UTC()
	if param == dashboard.ParamHour {
		return at.Hour()
	}
	if at.Weekday() == time.Sunday {
		return 6
	}
	return int(at.Weekday()) - 1
}

// outputID honors the request's idMapping: samples of dataset X render under
// the mapped id, defaulting to X itself.
func outputID(args dashboard.ProcessorArgs, id string) string {
	if mapped, ok := args.IDMapping[id]; ok && mapped != "" {
		return mapped
	}
	return id
}

func sortSeries(series []Series) {
	for i := 1; i < len(series); i++ {
		for j := i; j > 0 && series[j].ID < series[j-1].ID; j-- {
			series[j], series[j-1] = series[j-1], series[j]
		}
	}
}
