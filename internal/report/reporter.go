// Package report renders simulation results for humans (colored text) and
// machines (JSON). All output goes to explicit writers; nothing here touches
// process-global streams.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	"github.com/joshharrison/pertcast/internal/cpm"
	"github.com/joshharrison/pertcast/internal/graph"
	"github.com/joshharrison/pertcast/internal/sim"
	"github.com/joshharrison/pertcast/internal/ui"
)

// workWeekDays converts day figures into 5-day work weeks for the summary.
const workWeekDays = 5.0

const histogramBuckets = 12
const histogramWidth = 40

// Reporter renders one simulation result.
type Reporter struct {
	Graph  *graph.TaskGraph
	Result *sim.Result
}

// New creates a Reporter.
func New(g *graph.TaskGraph, res *sim.Result) *Reporter {
	return &Reporter{Graph: g, Result: res}
}

// PrintMethodology describes the run before it starts.
func PrintMethodology(w io.Writer, iterations int, source string) {
	fmt.Fprintf(w, "%s\n", ui.BoldCyan("🎲 Monte Carlo schedule simulation"))
	fmt.Fprintf(w, "   Each iteration samples a duration per task from its PERT distribution,\n")
	fmt.Fprintf(w, "   runs a critical-path forward pass, then applies hidden-task (10-15%%)\n")
	fmt.Fprintf(w, "   and systemic risk (1.00-1.35x) overlays.\n")
	fmt.Fprintf(w, "   • Tasks:      %s\n", source)
	fmt.Fprintf(w, "   • Iterations: %d\n\n", iterations)
}

// PrintTasks lists the loaded tasks with their derived PERT parameters.
func PrintTasks(w io.Writer, g *graph.TaskGraph) {
	fmt.Fprintf(w, "%s\n", ui.Bold("📋 Loaded tasks"))
	for _, id := range g.IDs() {
		t := g.Tasks[id]
		deps := ""
		if len(t.Predecessors) > 0 {
			deps = ui.Dim(" ← " + strings.Join(t.Predecessors, ", "))
		}
		fmt.Fprintf(w, "   • %s %s (%.1f ± %.1f days)%s\n",
			ui.Cyan(id), t.Name, t.Expected, t.StdDev, deps)
	}
	fmt.Fprintln(w)
}

// PrintText writes the full human-readable result report.
func (r *Reporter) PrintText(w io.Writer) {
	res := r.Result

	fmt.Fprintf(w, "%s\n", ui.BoldCyan("📈 Simulation results"))
	if res.Incomplete {
		fmt.Fprintf(w, "   %s run was cancelled after %d of %d iterations; statistics cover the completed ones only\n",
			ui.BoldYellow("⚠ incomplete:"), res.Completed, res.Iterations)
	}
	fmt.Fprintf(w, "   %s\n\n", ui.Dim(fmt.Sprintf("%d iterations, seed %d, %.2fs", res.Completed, res.Seed, res.Elapsed.Seconds())))

	r.printStatistics(w)
	r.printDistribution(w)
	r.printHistogram(w)
	r.printBufferAnalysis(w)
	r.printCriticalPath(w)
	r.printRecommendations(w)
}

// PrintJSON writes the result as indented JSON.
func (r *Reporter) PrintJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r.Result)
}

func days(v float64) string {
	return fmt.Sprintf("%.1f days (%.1f work weeks)", v, v/workWeekDays)
}

func (r *Reporter) printStatistics(w io.Writer) {
	res := r.Result
	fmt.Fprintf(w, "%s\n", ui.Bold("🎯 Basic statistics"))
	fmt.Fprintf(w, "   • Mean:    %s\n", days(res.Mean))
	fmt.Fprintf(w, "   • Median:  %s\n", days(res.Median))
	fmt.Fprintf(w, "   • Minimum: %s\n", days(res.Min))
	fmt.Fprintf(w, "   • Maximum: %s\n\n", days(res.Max))
}

func (r *Reporter) printDistribution(w io.Writer) {
	res := r.Result
	fmt.Fprintf(w, "%s\n", ui.Bold("🎲 Completion probability"))
	fmt.Fprintf(w, "   • 50%%: within %s\n", days(res.Median))
	fmt.Fprintf(w, "   • 80%%: within %s\n", ui.Green(days(res.P80)))
	fmt.Fprintf(w, "   • 95%%: within %s\n\n", days(res.P95))
}

func (r *Reporter) printHistogram(w io.Writer) {
	durations := r.Result.Durations
	if len(durations) < 2 || r.Result.Max <= r.Result.Min {
		return
	}

	counts := make([]int, histogramBuckets)
	span := r.Result.Max - r.Result.Min
	for _, d := range durations {
		b := int((d - r.Result.Min) / span * histogramBuckets)
		if b >= histogramBuckets {
			b = histogramBuckets - 1
		}
		counts[b]++
	}
	peak := 0
	for _, c := range counts {
		if c > peak {
			peak = c
		}
	}

	fmt.Fprintf(w, "%s\n", ui.Bold("📊 Distribution"))
	for b, c := range counts {
		lo := r.Result.Min + span*float64(b)/histogramBuckets
		width := int(math.Round(float64(c) / float64(peak) * histogramWidth))
		fmt.Fprintf(w, "   %7.1f %s %s\n", lo, ui.Bar(width, histogramWidth), ui.Dim(fmt.Sprintf("%d", c)))
	}
	fmt.Fprintln(w)
}

func (r *Reporter) printBufferAnalysis(w io.Writer) {
	res := r.Result
	fmt.Fprintf(w, "%s\n", ui.Bold("📋 Buffer analysis"))
	buffer80 := res.P80 - res.Mean
	buffer95 := res.P95 - res.Mean
	fmt.Fprintf(w, "   • 80%% confidence: +%.1f days over the mean (%.1f%%)\n", buffer80, pct(buffer80, res.Mean))
	fmt.Fprintf(w, "   • 95%% confidence: +%.1f days over the mean (%.1f%%)\n", buffer95, pct(buffer95, res.Mean))
	fmt.Fprintf(w, "   • Avg hidden tasks:     +%.1f days (%.1f%% of base)\n", res.AvgHidden, pct(res.AvgHidden, res.AvgBase))
	fmt.Fprintf(w, "   • Avg risk multiplier:  x%.2f (+%.1f%%)\n\n", res.AvgRiskMultiplier, (res.AvgRiskMultiplier-1)*100)
}

func (r *Reporter) printCriticalPath(w io.Writer) {
	res := r.Result
	fmt.Fprintf(w, "%s\n", ui.Bold("🛤  Critical path (expected durations)"))
	fmt.Fprintf(w, "   • Tasks:    %s\n", ui.Cyan(strings.Join(res.CriticalPath, " → ")))
	fmt.Fprintf(w, "   • Duration: %.1f days\n\n", res.CriticalPathDuration)
}

func (r *Reporter) printRecommendations(w io.Writer) {
	res := r.Result
	fmt.Fprintf(w, "%s\n", ui.Bold("💡 Recommendations"))
	fmt.Fprintf(w, "   • Quote %s work weeks (%.0f days) — the 80%% confidence estimate\n",
		ui.BoldGreen(fmt.Sprintf("%.0f", math.Ceil(res.P80/workWeekDays))), math.Ceil(res.P80))
	extra := math.Max(res.P95-res.P80, workWeekDays)
	fmt.Fprintf(w, "   • Hold %.0f more days in reserve to reach 95%% confidence\n", math.Ceil(extra))
	fmt.Fprintf(w, "   • Watch the critical path tasks; delaying any of them delays the project\n")
}

// PrintSchedule writes the deterministic expected-duration schedule: a
// per-task ES/EF table and the critical path. Used by the path subcommand.
func PrintSchedule(w io.Writer, p *cpm.Plan, g *graph.TaskGraph) {
	durations := p.ExpectedDurations(nil)
	starts := make([]float64, p.Size())
	finishes := make([]float64, p.Size())
	makespan := p.Forward(durations, starts, finishes)
	critical := p.CriticalPath(durations, starts, makespan)

	onPath := make(map[string]bool, len(critical))
	for _, id := range critical {
		onPath[id] = true
	}

	// Widest id first so the table aligns.
	width := 0
	for _, id := range p.IDs() {
		if len(id) > width {
			width = len(id)
		}
	}

	type row struct {
		id     string
		name   string
		start  float64
		finish float64
	}
	rows := make([]row, p.Size())
	for i, id := range p.IDs() {
		rows[i] = row{id: id, name: g.Tasks[id].Name, start: starts[i], finish: finishes[i]}
	}
	sort.Slice(rows, func(a, b int) bool {
		if rows[a].start != rows[b].start {
			return rows[a].start < rows[b].start
		}
		return rows[a].id < rows[b].id
	})

	fmt.Fprintf(w, "%s\n", ui.BoldCyan("🛤  Expected-duration schedule"))
	fmt.Fprintf(w, "   %-*s  %8s  %8s\n", width, "task", "start", "finish")
	for _, r := range rows {
		mark := "  "
		id := r.id
		if onPath[r.id] {
			mark = ui.Red("★ ")
			id = ui.Bold(r.id)
		}
		pad := strings.Repeat(" ", width-len(r.id))
		fmt.Fprintf(w, "   %s%s%s  %8.1f  %8.1f  %s\n", mark, id, pad, r.start, r.finish, ui.Dim(r.name))
	}
	fmt.Fprintf(w, "\n   • Critical path: %s\n", ui.Cyan(strings.Join(critical, " → ")))
	fmt.Fprintf(w, "   • Duration:      %.1f days\n", makespan)
}

func pct(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}
