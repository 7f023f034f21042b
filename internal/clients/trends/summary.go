package trends

import (
	"math"
	"time"
)

type Direction string

const (
	Rising  Direction = "rising"
	Falling Direction = "falling"
	Flat    Direction = "flat"
)

// directionBand is the relative change between the first and last quarter of
// the series below which interest counts as flat.
const directionBand = 0.10

type Point struct {
	Time      time.Time `json:"time"`
	Label     string    `json:"label"`
	Value     int       `json:"value"`
	HasData   bool      `json:"-"`
	IsPartial bool      `json:"-"`
}

type Interest struct {
	Keyword   string    `json:"keyword"`
	Geo       string    `json:"geo"`
	Timeframe string    `json:"timeframe"`
	Points    []Point   `json:"points"`
	Average   float64   `json:"average"`
	Peak      int       `json:"peak"`
	PeakLabel string    `json:"peakLabel,omitempty"`
	Direction Direction `json:"direction"`
}

// Summarize drops incomplete points and reports average, peak and direction.
func Summarize(keyword, geo, timeframe string, raw []Point) *Interest {
	points := make([]Point, 0, len(raw))
	for _, p := range raw {
		if p.IsPartial || !p.HasData {
			continue
		}
		points = append(points, p)
	}
	out := &Interest{
		Keyword:   keyword,
		Geo:       geo,
		Timeframe: timeframe,
		Points:    points,
		Direction: Flat,
	}
	if len(points) == 0 {
		return out
	}

	sum := 0
	for i, p := range points {
		sum += p.Value
		if i == 0 || p.Value > out.Peak {
			out.Peak = p.Value
			out.PeakLabel = p.Label
		}
	}
	out.Average = math.Round(float64(sum)/float64(len(points))*10) / 10
	out.Direction = direction(points)
	return out
}

func direction(points []Point) Direction {
	q := len(points) / 4
	if q == 0 {
		return Flat
	}
	first := mean(points[:q])
	last := mean(points[len(points)-q:])
	if first == 0 {
		if last > 0 {
			return Rising
		}
		return Flat
	}
	change := (last - first) / first
	switch {
	case change > directionBand:
		return Rising
	case change < -directionBand:
		return Falling
	default:
		return Flat
	}
}

func mean(points []Point) float64 {
	if len(points) == 0 {
		return 0
	}
	sum := 0
	for _, p := range points {
		sum += p.Value
	}
	return float64(sum) / float64(len(points))
}
