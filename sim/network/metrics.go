package network

import (
	"fmt"
	"io"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/epidemic-sim/epidemic-sim/sim"
)

// Distribution captures statistical summary of a metric across regions.
type Distribution struct {
	Mean  float64
	P50   float64
	P95   float64
	Min   float64
	Max   float64
	Count int
}

// NewDistribution computes a Distribution from raw values.
// Returns zero-value Distribution for empty input.
func NewDistribution(values []float64) Distribution {
	if len(values) == 0 {
		return Distribution{}
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Distribution{
		Mean:  stat.Mean(sorted, nil),
		P50:   stat.Quantile(0.5, stat.LinInterp, sorted, nil),
		P95:   stat.Quantile(0.95, stat.LinInterp, sorted, nil),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Count: len(sorted),
	}
}

// RegionMetrics summarizes one region's trajectory.
type RegionMetrics struct {
	Name               string
	PeakInfectious     float64
	PeakDay            float64
	PeakHospitalized   float64
	HospitalOverload   bool // peak hospitalized exceeded MaxHospitalCapacity
	FinalDead          float64
	FinalRecovered     float64
	FinalPopulation    float64
	AttackRate         float64 // (R + D at end) / initial population
	MaxPopulationDrift float64 // max |P - (S+E+I+R)| over the run
}

// NewRegionMetrics computes metrics from a finished region result.
func NewRegionMetrics(res RegionResult) RegionMetrics {
	m := RegionMetrics{Name: res.Name}
	if len(res.Series) == 0 {
		return m
	}
	for i, s := range res.Series {
		if s[sim.Infectious] > m.PeakInfectious {
			m.PeakInfectious = s[sim.Infectious]
			m.PeakDay = res.Times[i]
		}
		m.PeakHospitalized = math.Max(m.PeakHospitalized, s[sim.Hospitalized])
		m.MaxPopulationDrift = math.Max(m.MaxPopulationDrift, math.Abs(s.PopulationDrift()))
	}
	last := res.Series[len(res.Series)-1]
	m.FinalDead = last[sim.Dead]
	m.FinalRecovered = last[sim.Recovered]
	m.FinalPopulation = last[sim.Population]
	if res.Params != nil {
		m.HospitalOverload = m.PeakHospitalized > res.Params.MaxHospitalCapacity
		if res.Params.InitialPopulation > 0 {
			m.AttackRate = (last[sim.Recovered] + last[sim.Dead]) / res.Params.InitialPopulation
		}
	}
	return m
}

// Metrics holds network-level metrics aggregated after a run.
type Metrics struct {
	Regions           []RegionMetrics
	PeakInfectious    Distribution
	AttackRate        Distribution
	TotalDead         float64
	OverloadedRegions int
}

// CollectMetrics aggregates per-region metrics in result order.
func CollectMetrics(results []RegionResult) *Metrics {
	m := &Metrics{Regions: make([]RegionMetrics, len(results))}
	peaks := make([]float64, len(results))
	attack := make([]float64, len(results))
	for i, res := range results {
		rm := NewRegionMetrics(res)
		m.Regions[i] = rm
		peaks[i] = rm.PeakInfectious
		attack[i] = rm.AttackRate
		m.TotalDead += rm.FinalDead
		if rm.HospitalOverload {
			m.OverloadedRegions++
		}
	}
	m.PeakInfectious = NewDistribution(peaks)
	m.AttackRate = NewDistribution(attack)
	return m
}

// Print writes the metrics block to w.
func (m *Metrics) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Metrics ===")
	fmt.Fprintf(w, "Regions              : %d\n", len(m.Regions))
	fmt.Fprintf(w, "Total Dead           : %.1f\n", m.TotalDead)
	fmt.Fprintf(w, "Overloaded Hospitals : %d\n", m.OverloadedRegions)
	fmt.Fprintf(w, "Peak Infectious      : mean %.1f, p50 %.1f, p95 %.1f, max %.1f\n",
		m.PeakInfectious.Mean, m.PeakInfectious.P50, m.PeakInfectious.P95, m.PeakInfectious.Max)
	fmt.Fprintf(w, "Attack Rate          : mean %.3f, min %.3f, max %.3f\n",
		m.AttackRate.Mean, m.AttackRate.Min, m.AttackRate.Max)
	fmt.Fprintln(w, "--- Per Region ---")
	for _, r := range m.Regions {
		fmt.Fprintf(w, "%-16s peak I %10.1f on day %6.1f | dead %9.1f | attack %.3f | drift %.2g\n",
			r.Name, r.PeakInfectious, r.PeakDay, r.FinalDead, r.AttackRate, r.MaxPopulationDrift)
	}
}
