package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/therekim/GeoBioTool/pkg/analysis"
	"github.com/therekim/GeoBioTool/pkg/canopy"
	"github.com/therekim/GeoBioTool/pkg/config"
	"github.com/therekim/GeoBioTool/pkg/diversity"
	"github.com/therekim/GeoBioTool/pkg/pointio"
	"github.com/therekim/GeoBioTool/pkg/raster"
	"github.com/therekim/GeoBioTool/pkg/render"
)

func main() {
	defaults := config.Default()

	// Parse command line arguments
	tool := flag.String("tool", "", "Analysis to run: shannon, simpson, diversity, fhd, rumple, laivci")
	input := flag.String("input", "", "Input file: ASCII raster grid (shannon/simpson) or delimited point table (fhd/rumple/laivci)")
	out := flag.String("out", "", "Output text report path (raster tools; default: stdout)")
	outCSV := flag.String("out-csv", "", "Output CSV path (point tools)")
	outPNG := flag.String("out-png", "", "Optional heatmap PNG path (point tools; laivci appends _lai/_vci)")
	outHTML := flag.String("out-html", "", "Optional heatmap HTML path (point tools; laivci appends _lai/_vci)")
	classSpec := flag.String("classes", defaults.Diversity.Classes, "Optional class selection such as \"1,3-5,9\" (raster tools)")
	gridSize := flag.Float64("grid-size", defaults.Grid.Size, "Grid cell size in coordinate units")
	wholeExtent := flag.Bool("whole-extent", defaults.Grid.WholeExtent, "Treat the whole cloud as a single cell")
	minPoints := flag.Int("min-points", defaults.Grid.MinCellPoints, "Minimum points per cell; smaller cells are dropped")
	groundThreshold := flag.Float64("z0", defaults.Canopy.GroundThreshold, "LAI/VCI ground threshold height")
	layerThickness := flag.Float64("dz", defaults.Canopy.LayerThickness, "LAI/VCI layer thickness")
	verbose := flag.Bool("verbose", defaults.Output.Verbose, "Print progress messages")
	configPath := flag.String("config", "", "Optional YAML configuration file")
	initConfig := flag.String("init-config", "", "Write a default configuration file to the given path and exit")
	flag.Parse()

	if *initConfig != "" {
		if err := config.CreateDefaultFile(*initConfig); err != nil {
			log.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *initConfig)
		return
	}

	// Apply config file values for flags the user did not set explicitly.
	if *configPath != "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		set := make(map[string]bool)
		flag.Visit(func(f *flag.Flag) { set[f.Name] = true })
		if !set["classes"] {
			*classSpec = cfg.Diversity.Classes
		}
		if !set["grid-size"] {
			*gridSize = cfg.Grid.Size
		}
		if !set["whole-extent"] {
			*wholeExtent = cfg.Grid.WholeExtent
		}
		if !set["min-points"] {
			*minPoints = cfg.Grid.MinCellPoints
		}
		if !set["z0"] {
			*groundThreshold = cfg.Canopy.GroundThreshold
		}
		if !set["dz"] {
			*layerThickness = cfg.Canopy.LayerThickness
		}
		if !set["verbose"] {
			*verbose = cfg.Output.Verbose
		}
	}

	if *tool == "" || *input == "" {
		flag.Usage()
		os.Exit(1)
	}

	var feedback analysis.Feedback
	if *verbose {
		feedback = func(msg string) { fmt.Println(msg) }
	}

	startTime := time.Now()

	switch strings.ToLower(*tool) {
	case "shannon":
		runDiversity(*input, *out, *classSpec, feedback, diversity.ShannonWiener)
	case "simpson":
		runDiversity(*input, *out, *classSpec, feedback, diversity.SimpsonIndex)
	case "diversity":
		runDiversity(*input, *out, *classSpec, feedback, diversity.ShannonWiener, diversity.SimpsonIndex)
	case "fhd":
		runCanopy(*input, *outCSV, *outPNG, *outHTML, canopy.WithFHD, canopyParams(*gridSize, *wholeExtent, *minPoints, *groundThreshold, *layerThickness), feedback)
	case "rumple":
		runCanopy(*input, *outCSV, *outPNG, *outHTML, canopy.WithRumple, canopyParams(*gridSize, *wholeExtent, *minPoints, *groundThreshold, *layerThickness), feedback)
	case "laivci":
		runCanopy(*input, *outCSV, *outPNG, *outHTML, canopy.WithLAI|canopy.WithVCI, canopyParams(*gridSize, *wholeExtent, *minPoints, *groundThreshold, *layerThickness), feedback)
	default:
		log.Fatalf("Unknown tool %q (expected shannon, simpson, diversity, fhd, rumple or laivci)", *tool)
	}

	if *verbose {
		fmt.Printf("Completed in %.2f seconds\n", time.Since(startTime).Seconds())
	}
}

func canopyParams(gridSize float64, wholeExtent bool, minPoints int, z0, dz float64) analysis.CanopyParams {
	return analysis.CanopyParams{
		CellSize:      gridSize,
		WholeExtent:   wholeExtent,
		MinCellPoints: minPoints,
		Layering: canopy.Params{
			GroundThreshold: z0,
			LayerThickness:  dz,
		},
	}
}

func runDiversity(input, out, classSpec string, feedback analysis.Feedback, kinds ...diversity.Kind) {
	band, err := raster.ReadASCIIGridFile(input)
	if err != nil {
		log.Fatalf("Failed to read raster: %v", err)
	}

	report, err := analysis.RunDiversity(band, classSpec, feedback, kinds...)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	if out == "" {
		fmt.Print(report)
		return
	}
	if err := os.WriteFile(out, []byte(report), 0644); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}
	fmt.Printf("Report saved to %s\n", out)
}

func runCanopy(input, outCSV, outPNG, outHTML string, metrics canopy.Set, params analysis.CanopyParams, feedback analysis.Feedback) {
	if outCSV == "" {
		log.Fatalf("Point tools require -out-csv")
	}

	points, err := pointio.ReadPointsFile(input)
	if err != nil {
		log.Fatalf("Failed to read points: %v", err)
	}

	params.Metrics = metrics
	result, err := analysis.RunCanopy(points, params, feedback)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	if err := result.WriteCSVFile(outCSV); err != nil {
		log.Fatalf("Failed to write CSV: %v", err)
	}
	fmt.Printf("CSV saved to %s\n", outCSV)

	columns := metrics.Columns()
	for _, col := range columns {
		matrix := result.MatrixFor(col)

		if outPNG != "" {
			path := heatmapPath(outPNG, col, len(columns) > 1)
			if err := render.SavePNG(matrix, col, path); err != nil {
				log.Printf("Warning: failed to render %s heatmap: %v", col, err)
				continue
			}
			fmt.Printf("Heatmap saved to %s\n", path)
		}
		if outHTML != "" {
			path := heatmapPath(outHTML, col, len(columns) > 1)
			if err := render.SaveHTML(matrix, col, path); err != nil {
				log.Printf("Warning: failed to render %s heatmap: %v", col, err)
				continue
			}
			fmt.Printf("Heatmap saved to %s\n", path)
		}
	}
}

// heatmapPath derives a per-metric output path when a tool emits more than
// one heatmap, inserting the lowercased metric name before the extension.
func heatmapPath(base, column string, multi bool) string {
	if !multi {
		return base
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_" + strings.ToLower(column) + ext
}
