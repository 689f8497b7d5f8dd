package calendar

import (
	"math"
	"time"

	"github.com/campus-compass/calendar-manager/pkg/model"
)

// aggregate summarises occurrences. Hours are rounded to two decimals and the average duration to
// whole minutes.
func aggregate(occurrences []model.Occurrence) model.Statistics {
	statistics := model.Statistics{
		TotalEvents:  len(occurrences),
		EventsByType: make(map[model.EventType]int),
	}

	var total time.Duration
	for _, o := range occurrences {
		total += o.Duration()
		statistics.EventsByType[o.Type]++
	}

	statistics.TotalHours = round(total.Hours(), 2)
	if len(occurrences) > 0 {
		statistics.AverageDurationMinutes = round(total.Minutes()/float64(len(occurrences)), 0)
	}

	return statistics
}

func round(value float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(value*p) / p
}
