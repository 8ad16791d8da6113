package tracker

import "strconv"

// Dataset labels and line colours of the trend chart.
const (
	TimeDatasetLabel        = "Time (Minutes)"
	TemperatureDatasetLabel = "Temperature (°C)"
	TimeDatasetColor        = "rgba(75, 192, 192, 1)"
	TemperatureDatasetColor = "rgba(255, 99, 132, 1)"
)

// ChartData is a line chart payload: one label per point and two series.
type ChartData struct {
	Labels   []string  `json:"labels"`
	Datasets []Dataset `json:"datasets"`
}

type Dataset struct {
	Label       string   `json:"label"`
	Data        []Number `json:"data"`
	BorderColor string   `json:"borderColor"`
	Fill        bool     `json:"fill"`
}

// ChartData labels points "Point 1".."Point N" after the time series length.
func (t *Tracker) ChartData() ChartData {
	times := t.TimeSeries()
	labels := make([]string, len(times))
	for i := range times {
		labels[i] = "Point " + strconv.Itoa(i+1)
	}
	return ChartData{
		Labels: labels,
		Datasets: []Dataset{
			{Label: TimeDatasetLabel, Data: times, BorderColor: TimeDatasetColor},
			{Label: TemperatureDatasetLabel, Data: t.TemperatureSeries(), BorderColor: TemperatureDatasetColor},
		},
	}
}
