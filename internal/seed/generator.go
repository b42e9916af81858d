// Package seed generates a synthetic day of floor activity for demos and
// local development. Output goes through the normal upsert path.
package seed

import (
	"math/rand"
	"time"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/domain"
)

const (
	// IntervalsPerDay 8 hours of 15-minute intervals
	IntervalsPerDay = 32
	IntervalMinutes = 15
	StartHour       = 8
	// BreakHour every pair is absent for this whole hour
	BreakHour = 12
)

// Pair a worker assigned to one workstation for the day
type Pair struct {
	Worker      domain.Worker
	Workstation domain.Workstation
	// BaseCount typical units per product_count interval
	BaseCount int
}

// Roster fixed demo roster, W<n> always sits at S<n>
func Roster() []Pair {
	return []Pair{
		{domain.Worker{WorkerID: "W1", Name: "Alice Johnson"}, domain.Workstation{StationID: "S1", Name: "Assembly Line A", Type: "assembly"}, 5},
		{domain.Worker{WorkerID: "W2", Name: "Bob Smith"}, domain.Workstation{StationID: "S2", Name: "Assembly Line B", Type: "assembly"}, 6},
		{domain.Worker{WorkerID: "W3", Name: "Carol Williams"}, domain.Workstation{StationID: "S3", Name: "Quality Check", Type: "inspection"}, 10},
		{domain.Worker{WorkerID: "W4", Name: "David Brown"}, domain.Workstation{StationID: "S4", Name: "Packing Station", Type: "packaging"}, 8},
		{domain.Worker{WorkerID: "W5", Name: "Emma Davis"}, domain.Workstation{StationID: "S5", Name: "CNC Machine", Type: "machining"}, 4},
		{domain.Worker{WorkerID: "W6", Name: "Frank Miller"}, domain.Workstation{StationID: "S6", Name: "Welding Bay", Type: "welding"}, 3},
	}
}

// Generator produces events for the roster. Not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

// NewGenerator rng and now may be nil, defaulting to a time-seeded source and time.Now
func NewGenerator(rng *rand.Rand, now func() time.Time) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if now == nil {
		now = time.Now
	}
	return &Generator{rng: rng, now: now}
}

// DayStart 08:00 UTC of the generator's current day
func (g *Generator) DayStart() time.Time {
	n := g.now().UTC()
	return time.Date(n.Year(), n.Month(), n.Day(), StartHour, 0, 0, 0, time.UTC)
}

// Generate one event per pair per interval, pairs in roster order
func (g *Generator) Generate(pairs []Pair) []domain.Event {
	start := g.DayStart()
	events := make([]domain.Event, 0, len(pairs)*IntervalsPerDay)

	for _, p := range pairs {
		for interval := 0; interval < IntervalsPerDay; interval++ {
			ts := start.Add(time.Duration(interval*IntervalMinutes) * time.Minute)
			e := domain.Event{
				Timestamp:     ts,
				WorkerID:      p.Worker.WorkerID,
				WorkstationID: p.Workstation.StationID,
			}

			if ts.Hour() == BreakHour {
				e.EventType = domain.EventTypeAbsent
				e.Confidence = 0.98 + g.rng.Float64()*0.02
				events = append(events, e)
				continue
			}

			r := g.rng.Float64()
			switch {
			case r < 0.5:
				e.EventType = domain.EventTypeWorking
			case r < 0.65:
				e.EventType = domain.EventTypeIdle
			default:
				e.EventType = domain.EventTypeProductCount
				e.Count = p.BaseCount + g.rng.Intn(3) - 1
				if e.Count < 0 {
					e.Count = 0
				}
			}
			e.Confidence = 0.85 + g.rng.Float64()*0.15
			events = append(events, e)
		}
	}
	return events
}
