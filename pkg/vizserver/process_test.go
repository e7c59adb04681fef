package vizserver

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dashboard "github.com/vitalboard/go-vitalboard/components/dashboard"
)

func millis(y int, m time.Month, d, hour int) int64 {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC).UnixMilli()
}

func TestProcessRawSamples(t *testing.T) {
	series, err := Process(nil, map[string][]Sample{
		"ds-1": {{T: millis(2024, time.May, 15, 8), Value: 120}},
	})
	require.NoError(t, err)
	require.Len(t, series, 1)
	require.Len(t, series[0].Points, 1)
	assert.Equal(t, "15.05. 08:00", series[0].Points[0].Label)
	assert.Equal(t, 120.0, series[0].Points[0].Value)
}

func TestProcessAggregationSumByHour(t *testing.T) {
	procs := []dashboard.ProcessorSpec{{
		Method: dashboard.MethodAggregation,
		Args: dashboard.ProcessorArgs{
			IDMapping: map[string]string{"ds-1": "ds-1"},
			Mode:      dashboard.ModeSum,
			Param:     dashboard.ParamHour,
		},
	}}
	series, err := Process(procs, map[string][]Sample{
		"ds-1": {
			{T: millis(2024, time.May, 13, 8), Value: 100},
			{T: millis(2024, time.May, 14, 8), Value: 50},
			{T: millis(2024, time.May, 14, 9), Value: 25},
		},
	})
	require.NoError(t, err)
	require.Len(t, series, 1)
	require.Len(t, series[0].Points, 24)
	assert.Equal(t, "08", series[0].Points[8].Label)
	assert.Equal(t, 150.0, series[0].Points[8].Value)
	assert.Equal(t, 25.0, series[0].Points[9].Value)
	assert.Equal(t, 0.0, series[0].Points[10].Value)
}

func TestProcessAggregationMeanByWeekday(t *testing.T) {
	procs := []dashboard.ProcessorSpec{{
		Method: dashboard.MethodAggregation,
		Args: dashboard.ProcessorArgs{
			Mode:  dashboard.ModeMean,
			Param: dashboard.ParamWeekday,
		},
	}}
	series, err := Process(procs, map[string][]Sample{
		"ds-1": {
			// Monday 2024-05-13 and Sunday 2024-05-19.
			{T: millis(2024, time.May, 13, 8), Value: 100},
			{T: millis(2024, time.May, 13, 9), Value: 200},
			{T: millis(2024, time.May, 19, 8), Value: 70},
		},
	})
	require.NoError(t, err)
	require.Len(t, series[0].Points, 7)
	assert.Equal(t, "Mon", series[0].Points[0].Label)
	assert.Equal(t, 150.0, series[0].Points[0].Value)
	// Sunday lands in the last bucket, not the first.
	assert.Equal(t, "Sun", series[0].Points[6].Label)
	assert.Equal(t, 70.0, series[0].Points[6].Value)
}

func TestProcessAccumulationKeepsRunningTotal(t *testing.T) {
	procs := []dashboard.ProcessorSpec{{
		Method: dashboard.MethodAccumulation,
		Args:   dashboard.ProcessorArgs{},
	}}
	series, err := Process(procs, map[string][]Sample{
		"ds-1": {
			{T: millis(2024, time.May, 13, 8), Value: 10},
			{T: millis(2024, time.May, 13, 9), Value: 5},
			{T: millis(2024, time.May, 13, 10), Value: 20},
		},
	})
	require.NoError(t, err)
	values := []float64{
		series[0].Points[0].Value,
		series[0].Points[1].Value,
		series[0].Points[2].Value,
	}
	assert.Equal(t, []float64{10, 15, 35}, values)
}

func TestProcessHonorsIDMapping(t *testing.T) {
	procs := []dashboard.ProcessorSpec{{
		Method: dashboard.MethodAggregation,
		Args: dashboard.ProcessorArgs{
			IDMapping: map[string]string{"ds-1": "steps"},
			Mode:      dashboard.ModeSum,
			Param:     dashboard.ParamHour,
		},
	}}
	series, err := Process(procs, map[string][]Sample{
		"ds-1": {{T: millis(2024, time.May, 13, 8), Value: 1}},
	})
	require.NoError(t, err)
	assert.Equal(t, "steps", series[0].ID)
}

func TestProcessRejectsPipelines(t *testing.T) {
	procs := []dashboard.ProcessorSpec{
		{Method: dashboard.MethodAggregation},
		{Method: dashboard.MethodAccumulation},
	}
	_, err := Process(procs, nil)
	assert.Error(t, err)
}

func TestProcessRejectsUnknownMethod(t *testing.T) {
	_, err := Process([]dashboard.ProcessorSpec{{Method: "interpolation"}}, nil)
	assert.Error(t, err)
}

func TestProcessRejectsUnknownParam(t *testing.T) {
	procs := []dashboard.ProcessorSpec{{
		Method: dashboard.MethodAggregation,
		Args:   dashboard.ProcessorArgs{Mode: dashboard.ModeSum, Param: "month"},
	}}
	_, err := Process(procs, map[string][]Sample{"ds-1": {}})
	assert.Error(t, err)
}
