// Package metrics turns the full event history into worker, workstation and
// factory views. The engine holds no state besides its Config and never
// returns an error for data-shape issues: empty input yields zero-valued views.
package metrics

import (
	"fmt"
	"math"
	"sort"

	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/domain"
	"github.com/Anshuman122/worker-productivity-dashboard-final/internal/repository"
)

const (
	DefaultIntervalMinutes = 15
	DefaultShiftHours      = 8
)

// Config engine constants. ShiftHours is reported in the assumptions block only.
type Config struct {
	IntervalMinutes int
	ShiftHours      int
}

// DefaultConfig 15-minute intervals, 8-hour shift
func DefaultConfig() Config {
	return Config{IntervalMinutes: DefaultIntervalMinutes, ShiftHours: DefaultShiftHours}
}

// Engine computes a Report from a repository.Snapshot
type Engine struct {
	cfg Config
}

// NewEngine copies cfg; non-positive values fall back to the defaults
func NewEngine(cfg Config) *Engine {
	if cfg.IntervalMinutes <= 0 {
		cfg.IntervalMinutes = DefaultIntervalMinutes
	}
	if cfg.ShiftHours <= 0 {
		cfg.ShiftHours = DefaultShiftHours
	}
	return &Engine{cfg: cfg}
}

// Config returns the engine's constants
func (e *Engine) Config() Config {
	return e.cfg
}

// WorkerMetrics per-worker view
type WorkerMetrics struct {
	WorkerID               string  `json:"worker_id"`
	Name                   string  `json:"name"`
	TotalActiveTimeMinutes int     `json:"total_active_time_minutes"`
	TotalIdleTimeMinutes   int     `json:"total_idle_time_minutes"`
	TotalAbsentTimeMinutes int     `json:"total_absent_time_minutes"`
	UtilizationPercentage  float64 `json:"utilization_percentage"`
	TotalUnitsProduced     int     `json:"total_units_produced"`
	UnitsPerHour           float64 `json:"units_per_hour"`
}

// WorkstationMetrics per-workstation view
type WorkstationMetrics struct {
	StationID             string  `json:"station_id"`
	Name                  string  `json:"name"`
	Type                  string  `json:"type"`
	OccupancyTimeMinutes  int     `json:"occupancy_time_minutes"`
	UtilizationPercentage float64 `json:"utilization_percentage"`
	TotalUnitsProduced    int     `json:"total_units_produced"`
	ThroughputRate        float64 `json:"throughput_rate"`
}

// FactoryMetrics factory-wide view
type FactoryMetrics struct {
	TotalProductiveTimeMinutes int     `json:"total_productive_time_minutes"`
	TotalProductionCount       int     `json:"total_production_count"`
	AverageProductionRate      float64 `json:"average_production_rate"`
	AverageUtilization         float64 `json:"average_utilization"`
	TotalWorkers               int     `json:"total_workers"`
	TotalWorkstations          int     `json:"total_workstations"`
	TotalEvents                int     `json:"total_events"`
}

// Assumptions fixed explanation block returned with every report
type Assumptions struct {
	IntervalMinutes int      `json:"interval_minutes"`
	ShiftHours      int      `json:"shift_hours"`
	Notes           []string `json:"notes"`
}

// Report full metrics response
type Report struct {
	Workers      []WorkerMetrics      `json:"workers"`
	Workstations []WorkstationMetrics `json:"workstations"`
	Factory      FactoryMetrics       `json:"factory"`
	Assumptions  Assumptions          `json:"assumptions"`
}

// tally raw per-type counts for one grouping key
type tally struct {
	working      int
	idle         int
	absent       int
	productCount int
	units        int
}

func (t *tally) add(e *domain.Event) {
	switch e.EventType {
	case domain.EventTypeWorking:
		t.working++
	case domain.EventTypeIdle:
		t.idle++
	case domain.EventTypeAbsent:
		t.absent++
	case domain.EventTypeProductCount:
		t.productCount++
		t.units += e.Count
	}
}

func (t *tally) total() int {
	return t.working + t.idle + t.absent + t.productCount
}

// Compute aggregates the whole snapshot. Workers and workstations appear when
// referenced by at least one event; names come from the identity tables and
// stay empty for orphan ids. Both lists are ordered by id.
func (e *Engine) Compute(snap *repository.Snapshot) *Report {
	if snap == nil {
		snap = &repository.Snapshot{}
	}
	interval := e.cfg.IntervalMinutes

	workerNames := make(map[string]string, len(snap.Workers))
	for _, w := range snap.Workers {
		workerNames[w.WorkerID] = w.Name
	}
	stations := make(map[string]domain.Workstation, len(snap.Workstations))
	for _, ws := range snap.Workstations {
		stations[ws.StationID] = ws
	}

	byWorker := map[string]*tally{}
	byStation := map[string]*tally{}
	var factory tally

	for i := range snap.Events {
		ev := &snap.Events[i]

		wt, ok := byWorker[ev.WorkerID]
		if !ok {
			wt = &tally{}
			byWorker[ev.WorkerID] = wt
		}
		wt.add(ev)

		st, ok := byStation[ev.WorkstationID]
		if !ok {
			st = &tally{}
			byStation[ev.WorkstationID] = st
		}
		st.add(ev)

		factory.add(ev)
	}

	report := &Report{
		Workers:      make([]WorkerMetrics, 0, len(byWorker)),
		Workstations: make([]WorkstationMetrics, 0, len(byStation)),
		Assumptions:  e.assumptions(),
	}

	for _, id := range sortedKeys(byWorker) {
		t := byWorker[id]
		active := t.working * interval
		report.Workers = append(report.Workers, WorkerMetrics{
			WorkerID:               id,
			Name:                   workerNames[id],
			TotalActiveTimeMinutes: active,
			TotalIdleTimeMinutes:   t.idle * interval,
			TotalAbsentTimeMinutes: t.absent * interval,
			UtilizationPercentage:  percentage(t.working, t.working+t.idle),
			TotalUnitsProduced:     t.units,
			UnitsPerHour:           perHour(t.units, active),
		})
	}

	for _, id := range sortedKeys(byStation) {
		t := byStation[id]
		occupied := t.working + t.productCount
		occupiedMinutes := occupied * interval
		ws := stations[id]
		report.Workstations = append(report.Workstations, WorkstationMetrics{
			StationID:             id,
			Name:                  ws.Name,
			Type:                  ws.Type,
			OccupancyTimeMinutes:  occupiedMinutes,
			UtilizationPercentage: percentage(occupied, t.total()),
			TotalUnitsProduced:    t.units,
			ThroughputRate:        perHour(t.units, occupiedMinutes),
		})
	}

	productive := factory.working * interval
	report.Factory = FactoryMetrics{
		TotalProductiveTimeMinutes: productive,
		TotalProductionCount:       factory.units,
		AverageProductionRate:      perHour(factory.units, productive),
		AverageUtilization:         percentage(factory.working, factory.working+factory.idle),
		TotalWorkers:               len(snap.Workers),
		TotalWorkstations:          len(snap.Workstations),
		TotalEvents:                len(snap.Events),
	}

	return report
}

func (e *Engine) assumptions() Assumptions {
	return Assumptions{
		IntervalMinutes: e.cfg.IntervalMinutes,
		ShiftHours:      e.cfg.ShiftHours,
		Notes: []string{
			fmt.Sprintf("Each event represents a %d-minute time interval", e.cfg.IntervalMinutes),
			"Utilization is calculated as working time / (working + idle time)",
			"Absent time is excluded from utilization calculations",
			"Units per hour is calculated based on active working time only",
			"Duplicate events are handled via unique constraint on timestamp/worker/workstation/event_type",
		},
	}
}

// percentage num/den*100 rounded to 1 decimal, 0 when den is 0
func percentage(num, den int) float64 {
	return round(safeDiv(float64(num), float64(den))*100, 1)
}

// perHour units per hour of minutes, rounded to 2 decimals, 0 when minutes is 0
func perHour(units, minutes int) float64 {
	return round(safeDiv(float64(units), float64(minutes)/60.0), 2)
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

// round half away from zero, matching SQL ROUND on numerics
func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	r := math.Round(v*p) / p
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return r
}

func sortedKeys(m map[string]*tally) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
