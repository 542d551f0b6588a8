package services

import (
	"fmt"
	"sort"
	"time"

	"polymath-backend/domain/core/entities"
)

// MinTemporalSamples is the smallest note set the detector will interpret.
const MinTemporalSamples = 5

const (
	offHoursStart       = 18
	offHoursThresholdPc = 60.0
	hoursPerCapture     = 0.25
	topTimeBuckets      = 5
	minToneSeries       = 3
)

// TimeBucket is a (day-of-week, hour-of-day) capture count.
type TimeBucket struct {
	Day   string `json:"day"`
	Hour  int    `json:"hour"`
	Count int    `json:"count"`
}

// WeekCount is the number of captures in one week, keyed by its start date.
type WeekCount struct {
	WeekStart string `json:"week_start"`
	Count     int    `json:"count"`
}

// MonthHours estimates capture time invested in one calendar month.
type MonthHours struct {
	Month          string  `json:"month"`
	EstimatedHours float64 `json:"estimated_hours"`
}

// TonePoint is one entry of the sentiment continuity series.
type TonePoint struct {
	Date string `json:"date"`
	Tone string `json:"tone"`
}

// TemporalReport carries every pattern insight the detector produced.
type TemporalReport struct {
	Insights []*entities.PatternInsight `json:"insights"`
}

// TemporalPatternDetector mines note creation timestamps for recurring
// capture windows, weekly velocity, and off-hours concentration. Each
// computation is independent and contributes an insight only when its own
// preconditions hold.
type TemporalPatternDetector struct{}

// NewTemporalPatternDetector creates a detector.
func NewTemporalPatternDetector() *TemporalPatternDetector {
	return &TemporalPatternDetector{}
}

// Detect runs all temporal computations over the note set. Below the sample
// minimum it returns the typed insufficient-data result instead of insights;
// that is not an error.
func (d *TemporalPatternDetector) Detect(notes []*entities.Item) (*TemporalReport, *entities.InsufficientData) {
	if len(notes) < MinTemporalSamples {
		return nil, &entities.InsufficientData{Current: len(notes), Needed: MinTemporalSamples}
	}

	ordered := make([]*entities.Item, len(notes))
	copy(ordered, notes)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt().Before(ordered[j].CreatedAt())
	})

	report := &TemporalReport{}
	if insight := d.bestThinkingTime(ordered); insight != nil {
		report.Insights = append(report.Insights, insight)
	}
	if insight := d.thoughtVelocity(ordered); insight != nil {
		report.Insights = append(report.Insights, insight)
	}
	if insight := d.offHoursConcentration(ordered); insight != nil {
		report.Insights = append(report.Insights, insight)
	}
	if insight := d.sentimentContinuity(ordered); insight != nil {
		report.Insights = append(report.Insights, insight)
	}
	return report, nil
}

// bestThinkingTime buckets captures by (day-of-week, hour) and surfaces the
// top windows.
func (d *TemporalPatternDetector) bestThinkingTime(notes []*entities.Item) *entities.PatternInsight {
	type key struct {
		day  time.Weekday
		hour int
	}
	counts := make(map[key]int)
	for _, note := range notes {
		t := note.CreatedAt()
		counts[key{t.Weekday(), t.Hour()}]++
	}
	if len(counts) == 0 {
		return nil
	}

	buckets := make([]TimeBucket, 0, len(counts))
	for k, c := range counts {
		buckets = append(buckets, TimeBucket{Day: k.day.String(), Hour: k.hour, Count: c})
	}
	sort.SliceStable(buckets, func(i, j int) bool {
		if buckets[i].Count != buckets[j].Count {
			return buckets[i].Count > buckets[j].Count
		}
		if buckets[i].Day != buckets[j].Day {
			return buckets[i].Day < buckets[j].Day
		}
		return buckets[i].Hour < buckets[j].Hour
	})
	if len(buckets) > topTimeBuckets {
		buckets = buckets[:topTimeBuckets]
	}

	best := buckets[0]
	insight, err := entities.NewPatternInsight(
		entities.InsightBestThinkingTime,
		"Best thinking time",
		fmt.Sprintf("You capture the most thoughts on %s around %02d:00 (%d notes).", best.Day, best.Hour, best.Count),
	)
	if err != nil {
		return nil
	}
	return insight.WithData(map[string]interface{}{"buckets": buckets})
}

// thoughtVelocity counts captures per week and compares the most recent week
// to the all-time average.
func (d *TemporalPatternDetector) thoughtVelocity(notes []*entities.Item) *entities.PatternInsight {
	counts := make(map[string]int)
	starts := make([]string, 0)
	for _, note := range notes {
		ws := weekStart(note.CreatedAt()).Format("2006-01-02")
		if _, seen := counts[ws]; !seen {
			starts = append(starts, ws)
		}
		counts[ws]++
	}
	if len(starts) == 0 {
		return nil
	}
	sort.Strings(starts)

	weeks := make([]WeekCount, 0, len(starts))
	total := 0
	for _, ws := range starts {
		weeks = append(weeks, WeekCount{WeekStart: ws, Count: counts[ws]})
		total += counts[ws]
	}

	average := float64(total) / float64(len(weeks))
	recent := weeks[len(weeks)-1].Count
	trend := "steady"
	if float64(recent) > average {
		trend = "increasing"
	}

	insight, err := entities.NewPatternInsight(
		entities.InsightThoughtVelocity,
		"Thought velocity",
		fmt.Sprintf("You captured %d notes this week against an average of %.1f per week; your pace is %s.", recent, average, trend),
	)
	if err != nil {
		return nil
	}
	return insight.WithData(map[string]interface{}{
		"weeks":   weeks,
		"average": average,
		"recent":  recent,
		"trend":   trend,
	})
}

// offHoursConcentration measures how much capture happens evenings and
// weekends, with a fixed per-capture time heuristic for the monthly series.
func (d *TemporalPatternDetector) offHoursConcentration(notes []*entities.Item) *entities.PatternInsight {
	offHours := 0
	monthCounts := make(map[string]int)
	months := make([]string, 0)

	for _, note := range notes {
		t := note.CreatedAt()
		if isOffHours(t) {
			offHours++
		}
		month := t.Format("2006-01")
		if _, seen := monthCounts[month]; !seen {
			months = append(months, month)
		}
		monthCounts[month]++
	}
	sort.Strings(months)

	percent := float64(offHours) / float64(len(notes)) * 100

	series := make([]MonthHours, 0, len(months))
	for _, month := range months {
		series = append(series, MonthHours{
			Month:          month,
			EstimatedHours: float64(monthCounts[month]) * hoursPerCapture,
		})
	}

	description := fmt.Sprintf("%.0f%% of your captures happen on evenings or weekends.", percent)
	insight, err := entities.NewPatternInsight(entities.InsightOffHours, "Off-hours concentration", description)
	if err != nil {
		return nil
	}
	insight.WithData(map[string]interface{}{
		"off_hours_percent": percent,
		"monthly_hours":     series,
		"predominant":       percent > offHoursThresholdPc,
	})
	if percent > offHoursThresholdPc {
		insight.WithAction("Most of your thinking is a side project. Consider protecting that evening and weekend time.")
	}
	return insight
}

// sentimentContinuity surfaces the ordered (date, tone) series when enough
// notes carry a tone label. Availability only; no interpretation.
func (d *TemporalPatternDetector) sentimentContinuity(notes []*entities.Item) *entities.PatternInsight {
	series := make([]TonePoint, 0)
	for _, note := range notes {
		if note.Tone() != "" {
			series = append(series, TonePoint{
				Date: note.CreatedAt().Format("2006-01-02"),
				Tone: note.Tone(),
			})
		}
	}
	if len(series) <= minToneSeries {
		return nil
	}

	insight, err := entities.NewPatternInsight(
		entities.InsightSentiment,
		"Sentiment over time",
		fmt.Sprintf("Tone labels are available for %d notes.", len(series)),
	)
	if err != nil {
		return nil
	}
	return insight.WithData(map[string]interface{}{"series": series})
}

// weekStart returns the date the timestamp's week began on, weeks starting
// Sunday.
func weekStart(t time.Time) time.Time {
	t = t.AddDate(0, 0, -int(t.Weekday()))
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// isOffHours reports whether a capture happened in the evening or on a
// weekend.
func isOffHours(t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return true
	}
	return t.Hour() >= offHoursStart
}
