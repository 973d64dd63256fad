package main

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/walkersim/internal/analysis"
	"github.com/san-kum/walkersim/internal/experiment"
	"github.com/san-kum/walkersim/internal/export"
	"github.com/san-kum/walkersim/internal/storage"
	"github.com/san-kum/walkersim/internal/viz"
)

const labelWidth = 22

// batchStats is what stats and the post-run summary print for one batch.
type batchStats struct {
	Agent        string
	Runs         int
	Final        analysis.Summary
	Explored     analysis.Summary
	Fractions    []float64
	Fitness      []float64
	MeanFitness  float64
	Metrics      map[string]float64
	Displacement []float64
}

// summarizeBatch derives batch statistics from stored trajectories and the
// per-run scalars in meta.
func summarizeBatch(meta storage.BatchMetadata, runs []storage.StoredRun) batchStats {
	bs := batchStats{
		Agent:   meta.Agent,
		Runs:    len(runs),
		Fitness: meta.Fitness,
		Metrics: averageMetrics(meta.Metrics),
	}

	finals := make([]float64, 0, len(runs))
	disps := make([][]float64, 0, len(runs))
	for _, r := range runs {
		if n := len(r.Displacement); n > 0 {
			finals = append(finals, r.Displacement[n-1])
		}
		disps = append(disps, r.Displacement)
	}
	bs.Final = analysis.Summarize(finals)
	bs.Displacement = analysis.AverageDisplacement(disps)

	if len(meta.Explorations) > 0 {
		fractions := make([]float64, 0, len(meta.Explorations))
		for i, e := range meta.Explorations {
			if i >= len(runs) {
				break
			}
			fractions = append(fractions, analysis.ExploredFraction(runs[i].X, runs[i].Y, e))
		}
		bs.Fractions = fractions
		bs.Explored = analysis.Summarize(fractions)
	}

	if len(meta.Fitness) > 0 {
		bs.MeanFitness = analysis.MeanFitness(meta.Fitness)
	}
	return bs
}

func averageMetrics(runs []map[string]float64) map[string]float64 {
	if len(runs) == 0 {
		return nil
	}
	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, m := range runs {
		for k, v := range m {
			sums[k] += v
			counts[k]++
		}
	}
	for k := range sums {
		sums[k] /= float64(counts[k])
	}
	return sums
}

func printReport(runID string, report *experiment.Report) {
	steps := 0
	for _, b := range report.Batches {
		for _, w := range b.Walkers {
			steps += w.Trajectory.Len() - 1
		}
		for _, v := range b.Vehicles {
			steps += v.Trajectory.Len() - 1
		}
	}

	var lines []string
	lines = append(lines, viz.Title.Render("run "+runID))
	lines = append(lines, viz.Metric("elapsed", report.Elapsed.String(), labelWidth))
	lines = append(lines, viz.Metric("steps simulated", humanize.Comma(int64(steps)), labelWidth))

	for _, b := range report.Batches {
		lines = append(lines, "", viz.HeaderStyle.Render(b.Agent))

		if len(b.Walkers) > 0 {
			finals := make([]float64, len(b.Walkers))
			explored := make([]float64, len(b.Walkers))
			for i, w := range b.Walkers {
				finals[i] = w.Displacement[len(w.Displacement)-1]
				explored[i] = float64(w.Exploration)
			}
			lines = append(lines,
				viz.Metric("mean displacement", fmt.Sprintf("%.3f", analysis.Summarize(finals).Mean), labelWidth),
				viz.Metric("mean cells explored", fmt.Sprintf("%.1f", analysis.Summarize(explored).Mean), labelWidth),
			)
		}

		if len(b.Vehicles) > 0 {
			scores := make([]float64, len(b.Vehicles))
			for i, v := range b.Vehicles {
				scores[i] = v.Fitness
			}
			lines = append(lines, viz.Metric("total fitness", fmt.Sprintf("%.4f", analysis.MeanFitness(scores)), labelWidth))
		}
	}

	fmt.Println(viz.Panel.Render(strings.Join(lines, "\n")))
}

func statsRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	batches, err := st.LoadTrajectories(runID)
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render("run " + meta.ID))
	fmt.Println(viz.Metric("agent", meta.Agent, labelWidth))
	fmt.Println(viz.Metric("duration", humanize.Comma(int64(meta.Duration)), labelWidth))
	fmt.Println(viz.Metric("seed", fmt.Sprint(meta.Seed), labelWidth))
	fmt.Println(viz.Metric("recorded", humanize.Time(meta.Timestamp), labelWidth))

	stats := make([]batchStats, len(meta.Batches))
	for bi, bm := range meta.Batches {
		var runs []storage.StoredRun
		if bi < len(batches) {
			runs = batches[bi]
		}
		stats[bi] = summarizeBatch(bm, runs)
	}
	edges, explored := explorationHistograms(stats, bins)

	for bi, bs := range stats {
		fmt.Println()
		fmt.Println(viz.HeaderStyle.Render(fmt.Sprintf("%s (%d runs)", bs.Agent, bs.Runs)))
		printSummary("final displacement", bs.Final)
		if len(bs.Fractions) > 0 {
			printSummary("explored fraction", bs.Explored)
			printBins(edges, explored[bi])
		}
		if len(bs.Fitness) > 0 {
			fmt.Println(viz.Metric("total fitness", fmt.Sprintf("%.4f", bs.MeanFitness), labelWidth))
			fitnessEdges := analysis.HistogramEdges(bs.Fitness, bins)
			printBins(fitnessEdges, analysis.Histogram(bs.Fitness, fitnessEdges))
		}
		for _, k := range slices.Sorted(maps.Keys(bs.Metrics)) {
			fmt.Println(viz.Metric(k, fmt.Sprintf("%.3f", bs.Metrics[k]), labelWidth))
		}
		fmt.Println(viz.SparklineChart(bs.Displacement, 60))
	}

	return nil
}

func printSummary(label string, s analysis.Summary) {
	fmt.Println(viz.Metric(label,
		fmt.Sprintf("mean %.3f  median %.3f  min %.3f  max %.3f  sd %.3f", s.Mean, s.Median, s.Min, s.Max, s.StdDev),
		labelWidth))
}

// explorationHistograms bins each batch's explored fractions against one
// set of edges spanning every batch, so walker types compare bin for bin.
func explorationHistograms(stats []batchStats, bins int) ([]float64, [][]int) {
	var all []float64
	for _, bs := range stats {
		all = append(all, bs.Fractions...)
	}
	edges := analysis.HistogramEdges(all, bins)
	if edges == nil {
		return nil, make([][]int, len(stats))
	}
	counts := make([][]int, len(stats))
	for i, bs := range stats {
		counts[i] = analysis.Histogram(bs.Fractions, edges)
	}
	return edges, counts
}

func printBins(edges []float64, counts []int) {
	peak := 0
	for _, c := range counts {
		peak = max(peak, c)
	}
	for i, c := range counts {
		bar := ""
		if peak > 0 {
			bar = strings.Repeat("█", c*30/peak)
		}
		fmt.Printf("  [%.3f, %.3f] %s %d\n", edges[i], edges[i+1], viz.SparkHigh.Render(bar), c)
	}
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	batches, err := st.LoadTrajectories(runID)
	if err != nil {
		return err
	}
	if len(batches) == 0 {
		return fmt.Errorf("no data to plot")
	}

	if showPath {
		return plotPath(meta, batches)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("agent: %s\n\n", meta.Agent)

	for bi, runs := range batches {
		disps := make([][]float64, len(runs))
		for i, r := range runs {
			disps[i] = r.Displacement
		}
		avg := analysis.AverageDisplacement(disps)
		if len(avg) == 0 {
			continue
		}

		caption := fmt.Sprintf("batch %d average displacement", bi)
		if bi < len(meta.Batches) {
			caption = meta.Batches[bi].Agent + " average displacement"
		}

		graph := asciigraph.Plot(avg,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func plotPath(meta *storage.RunMetadata, batches [][]storage.StoredRun) error {
	if batchIdx < 0 || batchIdx >= len(batches) {
		return fmt.Errorf("batch %d out of range (0-%d)", batchIdx, len(batches)-1)
	}
	runs := batches[batchIdx]
	if runIdx < 0 || runIdx >= len(runs) {
		return fmt.Errorf("run %d out of range (0-%d)", runIdx, len(runs)-1)
	}
	r := runs[runIdx]

	opts := viz.PathOptions{Width: 60, Height: 20}
	if batchIdx < len(meta.Batches) {
		if lights := meta.Batches[batchIdx].Lights; runIdx < len(lights) {
			opts.HasLight = true
			opts.LightX = float64(lights[runIdx].X)
			opts.LightY = float64(lights[runIdx].Y)
		}
	}

	fmt.Printf("run: %s  batch: %d  run: %d  points: %s\n\n",
		meta.ID, batchIdx, runIdx, humanize.Comma(int64(len(r.X))))
	fmt.Print(viz.RenderPath(r.X, r.Y, opts))
	fmt.Println(viz.Subtle.Render(fmt.Sprintf("%c start  %c end  %c light", viz.StartGlyph, viz.EndGlyph, viz.LightGlyph)))

	if svgPath != "" {
		var markers []export.Marker
		if opts.HasLight {
			markers = append(markers, export.Marker{X: opts.LightX, Y: opts.LightY, Color: "#ffcc00"})
		}
		if err := export.WriteSVG(svgPath, export.TrajectoryToSVG(r.X, r.Y, 800, 800, "#00ff88", markers...)); err != nil {
			return err
		}
		logger.Info("wrote svg", "path", svgPath)
	}
	return nil
}
