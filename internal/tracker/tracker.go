package tracker

import (
	"fmt"
	"strings"
)

// Fixed thresholds and labels.
const (
	HighLevelThresholdC = 70
	RangeMinMinutes     = 15
	RangeMaxMinutes     = 20

	RangeMessage = "The epoxy is within range and no loose."
	LevelHigh    = "High"
	LevelLow     = "Low"
	Cartridge    = "SMO"
)

// NotificationPolicy controls what an out-of-range evaluation does to the notification.
type NotificationPolicy int

const (
	// PolicySticky keeps the notification once it has been raised.
	PolicySticky NotificationPolicy = iota
	// PolicyLive clears the notification when elapsed time leaves the range.
	PolicyLive
)

func (p NotificationPolicy) String() string {
	if p == PolicyLive {
		return "live"
	}
	return "sticky"
}

// ParsePolicy maps "sticky" (or "") and "live" to a policy.
func ParsePolicy(s string) (NotificationPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sticky":
		return PolicySticky, nil
	case "live":
		return PolicyLive, nil
	default:
		return PolicySticky, fmt.Errorf("unknown notification policy %q: must be sticky or live", s)
	}
}

// Observation is the current form input.
type Observation struct {
	Hours        Number `json:"hours"`
	Minutes      Number `json:"minutes"`
	Seconds      Number `json:"seconds"`
	TemperatureC Number `json:"temperature_c"`
}

func zeroObservation() Observation {
	return Observation{Hours: Int(0), Minutes: Int(0), Seconds: Int(0), TemperatureC: Int(0)}
}

// Tracker holds the input of one monitoring session, its derived metrics
// and the bounded history used by the trend chart.
// It is not safe for concurrent use; callers serialize access per session.
type Tracker struct {
	obs          Observation
	timeSeries   *SeriesBuffer
	tempSeries   *SeriesBuffer
	notification string
	policy       NotificationPolicy
}

type Option func(*Tracker)

func WithPolicy(p NotificationPolicy) Option {
	return func(t *Tracker) { t.policy = p }
}

// New returns a tracker with zero time, zero temperature and empty history.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		obs:        zeroObservation(),
		timeSeries: NewSeriesBuffer(),
		tempSeries: NewSeriesBuffer(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetElapsedTime replaces the time components as given.
func (t *Tracker) SetElapsedTime(hours, minutes, seconds Number) {
	t.obs.Hours = hours
	t.obs.Minutes = minutes
	t.obs.Seconds = seconds
}

// SetTemperature replaces the temperature as given.
func (t *Tracker) SetTemperature(v Number) {
	t.obs.TemperatureC = v
}

func (t *Tracker) Observation() Observation {
	return t.obs
}

func (t *Tracker) Notification() string {
	return t.notification
}

func (t *Tracker) Policy() NotificationPolicy {
	return t.policy
}

// RangeMinutes is hours*60 + minutes + seconds/60, used by the range check.
func (t *Tracker) RangeMinutes() Number {
	return t.obs.Hours.Mul(Int(60)).Add(t.obs.Minutes).Add(t.obs.Seconds.Div(Int(60)))
}

// RawMinutes is hours*60 + minutes + seconds, the value plotted on the chart.
// Seconds are added as whole units; this is not the same quantity as RangeMinutes.
func (t *Tracker) RawMinutes() Number {
	return t.obs.Hours.Mul(Int(60)).Add(t.obs.Minutes).Add(t.obs.Seconds)
}

// EvaluateRangeNotification raises RangeMessage when RangeMinutes is in
// [RangeMinMinutes, RangeMaxMinutes]. Under PolicySticky an out-of-range
// value leaves the previous notification in place.
func (t *Tracker) EvaluateRangeNotification() {
	total := t.RangeMinutes()
	if total.GreaterOrEqual(Int(RangeMinMinutes)) && total.LessOrEqual(Int(RangeMaxMinutes)) {
		t.notification = RangeMessage
		return
	}
	if t.policy == PolicyLive {
		t.notification = ""
	}
}

// ClassifyEpoxyLevel returns LevelHigh at or above HighLevelThresholdC, LevelLow otherwise.
func (t *Tracker) ClassifyEpoxyLevel() string {
	if t.obs.TemperatureC.GreaterOrEqual(Int(HighLevelThresholdC)) {
		return LevelHigh
	}
	return LevelLow
}

// RecordSample appends RawMinutes and the temperature to their series.
func (t *Tracker) RecordSample() {
	t.timeSeries.Append(t.RawMinutes())
	t.tempSeries.Append(t.obs.TemperatureC)
}

// Update evaluates the range notification, then records a sample.
func (t *Tracker) Update() {
	t.EvaluateRangeNotification()
	t.RecordSample()
}

func (t *Tracker) TimeSeries() []Number {
	return t.timeSeries.Values()
}

func (t *Tracker) TemperatureSeries() []Number {
	return t.tempSeries.Values()
}

// Snapshot is everything the presentation layer renders for a session.
type Snapshot struct {
	Hours             Number    `json:"hours"`
	Minutes           Number    `json:"minutes"`
	Seconds           Number    `json:"seconds"`
	TemperatureC      Number    `json:"temperature_c"`
	Notification      string    `json:"notification"`
	EpoxyLevel        string    `json:"epoxy_level"`
	Cartridge         string    `json:"cartridge"`
	TimeSeries        []Number  `json:"time_series"`
	TemperatureSeries []Number  `json:"temperature_series"`
	Chart             ChartData `json:"chart"`
}

func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		Hours:             t.obs.Hours,
		Minutes:           t.obs.Minutes,
		Seconds:           t.obs.Seconds,
		TemperatureC:      t.obs.TemperatureC,
		Notification:      t.notification,
		EpoxyLevel:        t.ClassifyEpoxyLevel(),
		Cartridge:         Cartridge,
		TimeSeries:        t.TimeSeries(),
		TemperatureSeries: t.TemperatureSeries(),
		Chart:             t.ChartData(),
	}
}
