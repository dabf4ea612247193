package mood

import (
	"fmt"
	"sort"
	"time"
)

const dateLayout = "2006-01-02"

// AggregateWeekly averages the five metrics per calendar day over the
// trailing seven days ending at today. Days with no logs are omitted,
// not zero-filled; a bucket only exists when at least one log
// contributed, so the averages never divide by zero.
func AggregateWeekly(logs []Log, today time.Time) []Point {
	start := startOfDay(today).AddDate(0, 0, -6)
	end := endOfDay(today)

	buckets := make(map[string][]Log)
	for _, l := range logs {
		d, err := time.ParseInLocation(dateLayout, l.Date, today.Location())
		if err != nil {
			continue
		}
		if d.Before(start) || d.After(end) {
			continue
		}
		buckets[l.Date] = append(buckets[l.Date], l)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	points := make([]Point, 0, len(keys))
	for _, k := range keys {
		points = append(points, average(k, buckets[k]))
	}
	return points
}

// AggregateMonthly averages per week over the trailing thirty days.
// Each log lands in the bucket of the Sunday starting its week; the
// label spans that Sunday through the following Saturday as "D/M - D/M".
func AggregateMonthly(logs []Log, today time.Time) []Point {
	start := startOfDay(today).AddDate(0, 0, -29)
	end := endOfDay(today)

	buckets := make(map[string][]Log)
	for _, l := range logs {
		d, err := time.ParseInLocation(dateLayout, l.Date, today.Location())
		if err != nil {
			continue
		}
		if d.Before(start) || d.After(end) {
			continue
		}
		weekStart := d.AddDate(0, 0, -int(d.Weekday()))
		buckets[weekStart.Format(dateLayout)] = append(buckets[weekStart.Format(dateLayout)], l)
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	points := make([]Point, 0, len(keys))
	for _, k := range keys {
		weekStart, _ := time.ParseInLocation(dateLayout, k, today.Location())
		weekEnd := weekStart.AddDate(0, 0, 6)
		label := fmt.Sprintf("%d/%d - %d/%d",
			weekStart.Day(), int(weekStart.Month()),
			weekEnd.Day(), int(weekEnd.Month()))
		points = append(points, average(label, buckets[k]))
	}
	return points
}

func average(label string, logs []Log) Point {
	p := Point{Label: label}
	for _, l := range logs {
		p.Stress += float64(l.Stress)
		p.Happiness += float64(l.Happiness)
		p.Energy += float64(l.Energy)
		p.Focus += float64(l.Focus)
		p.Calmness += float64(l.Calmness)
	}
	n := float64(len(logs))
	p.Stress /= n
	p.Happiness /= n
	p.Energy /= n
	p.Focus /= n
	p.Calmness /= n
	return p
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
