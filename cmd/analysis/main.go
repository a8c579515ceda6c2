//go:build analysis

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"axiom-trust/prof"
	"axiom-trust/qzkp"
	"axiom-trust/vss"
)

// opStat is one aggregated timing row of the sweep report.
type opStat struct {
	Op      string  `json:"op"`
	Param   int     `json:"param"`
	Count   int     `json:"count"`
	MeanMS  float64 `json:"mean_ms"`
	MinMS   float64 `json:"min_ms"`
	MaxMS   float64 `json:"max_ms"`
	TotalMS float64 `json:"total_ms"`
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}

// ------------------------------ sweep helpers ------------------------------

func parseIntList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid sweep value %q: %w", part, err)
		}
		out = append(out, n)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty sweep list")
	}
	return out, nil
}

func sweepVector(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = math.Sin(float64(i + 1))
	}
	return v
}

// sweepProofs times prove, verify and cached verify across state dimensions.
func sweepProofs(dims []int, level, runs int) ([]opStat, []string, map[string][]float64, error) {
	var stats []opStat
	labels := make([]string, 0, len(dims))
	series := map[string][]float64{"prove": nil, "verify": nil, "verify-cached": nil}
	for _, dim := range dims {
		engine, err := qzkp.New(qzkp.Config{Dimensions: dim, SecurityLevel: level, CacheSize: 1024})
		if err != nil {
			return nil, nil, nil, err
		}
		vector := sweepVector(dim)
		var col prof.Collector
		for run := 0; run < runs; run++ {
			identifier := fmt.Sprintf("sweep-%d-%d", dim, run)
			start := time.Now()
			commitment, proof, err := engine.ProveVectorKnowledge(vector, identifier)
			col.Track(start, "prove")
			if err != nil {
				return nil, nil, nil, fmt.Errorf("prove dim=%d: %w", dim, err)
			}
			start = time.Now()
			ok := engine.VerifyProof(commitment, proof, identifier)
			col.Track(start, "verify")
			if !ok {
				return nil, nil, nil, fmt.Errorf("dim=%d run=%d: proof rejected", dim, run)
			}
			start = time.Now()
			engine.VerifyProof(commitment, proof, identifier)
			col.Track(start, "verify-cached")
		}
		labels = append(labels, strconv.Itoa(dim))
		for _, s := range prof.Aggregate(col.SnapshotAndReset()) {
			stats = append(stats, opStat{
				Op: s.Label, Param: dim, Count: s.Count,
				MeanMS: ms(s.Mean), MinMS: ms(s.Min), MaxMS: ms(s.Max), TotalMS: ms(s.Total),
			})
			series[s.Label] = append(series[s.Label], ms(s.Mean))
			log.Printf("[analysis] dim=%-4d %-14s mean=%-12s min=%-12s max=%-12s n=%d",
				dim, s.Label, s.Mean, s.Min, s.Max, s.Count)
		}
	}
	return stats, labels, series, nil
}

// sweepShares times split and reconstruct across the share count.
func sweepShares(totals []int, threshold, coords, runs int) ([]opStat, []string, map[string][]float64, error) {
	engine, err := vss.New(vss.Config{
		ScaleFactor: vss.DefaultConfig().ScaleFactor,
		Precision:   vss.DefaultConfig().Precision,
		Threshold:   threshold,
	})
	if err != nil {
		return nil, nil, nil, err
	}
	vector := sweepVector(coords)

	var stats []opStat
	labels := make([]string, 0, len(totals))
	series := map[string][]float64{"split": nil, "reconstruct": nil}
	for _, total := range totals {
		if total < threshold {
			return nil, nil, nil, fmt.Errorf("share count %d below threshold %d", total, threshold)
		}
		var col prof.Collector
		for run := 0; run < runs; run++ {
			start := time.Now()
			groups, err := engine.SplitSecret(vector, threshold, total)
			col.Track(start, "split")
			if err != nil {
				return nil, nil, nil, fmt.Errorf("split n=%d: %w", total, err)
			}
			start = time.Now()
			_, err = engine.ReconstructSecret(groups, threshold, engine.IssuerKey())
			col.Track(start, "reconstruct")
			if err != nil {
				return nil, nil, nil, fmt.Errorf("reconstruct n=%d: %w", total, err)
			}
		}
		labels = append(labels, strconv.Itoa(total))
		for _, s := range prof.Aggregate(col.SnapshotAndReset()) {
			stats = append(stats, opStat{
				Op: s.Label, Param: total, Count: s.Count,
				MeanMS: ms(s.Mean), MinMS: ms(s.Min), MaxMS: ms(s.Max), TotalMS: ms(s.Total),
			})
			series[s.Label] = append(series[s.Label], ms(s.Mean))
			log.Printf("[analysis] n=%-4d %-14s mean=%-12s min=%-12s max=%-12s n=%d",
				total, s.Label, s.Mean, s.Min, s.Max, s.Count)
		}
	}
	return stats, labels, series, nil
}

// ------------------------- plotting: go-echarts HTML -------------------------

func toLineItems(vals []float64) []opts.LineData {
	out := make([]opts.LineData, len(vals))
	for i, v := range vals {
		out[i] = opts.LineData{Value: v}
	}
	return out
}

func newLatencyChart(title, xName string, xLabels []string, order []string, series map[string][]float64) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{PageTitle: title, Width: "1200px", Height: "600px"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName}),
		charts.WithYAxisOpts(opts.YAxis{Name: "latency (ms)"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "inside"}, opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(xLabels)
	for _, name := range order {
		line.AddSeries(name, toLineItems(series[name]))
	}
	line.SetSeriesOptions(charts.WithLabelOpts(opts.Label{Show: opts.Bool(false)}))
	return line
}

func saveJSON(path string, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// ------------------------------- main routine -------------------------------

func main() {
	runs := flag.Int("runs", 20, "iterations per sweep point")
	dimsFlag := flag.String("dims", "2,4,8,16,32", "state dimensions to sweep")
	level := flag.Int("level", 128, "proof security level in bits")
	sharesFlag := flag.String("shares", "3,5,7,9", "share counts to sweep")
	threshold := flag.Int("t", 3, "reconstruction threshold for the share sweep")
	coords := flag.Int("coords", 4, "secret vector length for the share sweep")
	outDir := flag.String("out", "analysis_reports", "output directory for reports")
	flag.Parse()

	dims, err := parseIntList(*dimsFlag)
	if err != nil {
		log.Fatalf("dims: %v", err)
	}
	totals, err := parseIntList(*sharesFlag)
	if err != nil {
		log.Fatalf("shares: %v", err)
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		log.Fatalf("mkdir: %v", err)
	}

	proofStats, proofLabels, proofSeries, err := sweepProofs(dims, *level, *runs)
	if err != nil {
		log.Fatalf("proof sweep: %v", err)
	}
	shareStats, shareLabels, shareSeries, err := sweepShares(totals, *threshold, *coords, *runs)
	if err != nil {
		log.Fatalf("share sweep: %v", err)
	}

	ts := time.Now().Format("20060102_150405")
	jsonPath := filepath.Join(*outDir, fmt.Sprintf("latency_stats_%s.json", ts))
	if err := saveJSON(jsonPath, map[string][]opStat{
		"proofs": proofStats,
		"shares": shareStats,
	}); err != nil {
		log.Printf("warn: save stats: %v", err)
	}

	page := components.NewPage()
	page.AddCharts(
		newLatencyChart(
			fmt.Sprintf("Proof latency vs. dimensions (level=%d, runs=%d)", *level, *runs),
			"dimensions", proofLabels,
			[]string{"prove", "verify", "verify-cached"}, proofSeries),
		newLatencyChart(
			fmt.Sprintf("Sharing latency vs. share count (t=%d, coords=%d, runs=%d)", *threshold, *coords, *runs),
			"shares", shareLabels,
			[]string{"split", "reconstruct"}, shareSeries),
	)

	htmlPath := filepath.Join(*outDir, fmt.Sprintf("latency_charts_%s.html", ts))
	f, err := os.Create(htmlPath)
	if err != nil {
		log.Fatalf("create html: %v", err)
	}
	defer f.Close()
	if err := page.Render(f); err != nil {
		log.Fatalf("render html: %v", err)
	}
	fmt.Println("Latency charts:", htmlPath)
	fmt.Println("Stats JSON:", jsonPath)
}
