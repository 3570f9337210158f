// Command pupil-report computes mean pupil diameters per on-surface fixation
// from a Pupil-style recording export, reports the run counts, and optionally
// writes the results to CSV, PNG, HTML, or a sqlite results store. With
// -serve it also hosts a small viewer over the store.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/WeiFangping/pupil-tutorials/internal/api"
	"github.com/WeiFangping/pupil-tutorials/internal/config"
	"github.com/WeiFangping/pupil-tutorials/internal/exports"
	"github.com/WeiFangping/pupil-tutorials/internal/gaze"
	"github.com/WeiFangping/pupil-tutorials/internal/report"
	"github.com/WeiFangping/pupil-tutorials/internal/store"
	"github.com/WeiFangping/pupil-tutorials/internal/units"
	"github.com/WeiFangping/pupil-tutorials/internal/viz"
)

var (
	exportDir    = flag.String("export-dir", "", "Pupil export directory (derives input paths)")
	pupilPath    = flag.String("pupil", "", "pupil_positions.csv path (overrides -export-dir)")
	fixationPath = flag.String("fixations", "", "fixations_on_surface CSV path (overrides -export-dir)")
	surface      = flag.String("surface", "", "surface name used to locate the fixation export")
	confidence   = flag.Float64("confidence", -1, "minimum detector confidence in [0,1]")
	unitsFlag    = flag.String("units", "", "diameter units: mm (eye model) or px (image space)")
	configPath   = flag.String("config", "", "JSON analysis defaults file")
	recording    = flag.String("recording", "", "recording label stored with the run")
	outPath      = flag.String("out", "", "write per-fixation summaries to this CSV file")
	plotPath     = flag.String("plot", "", "write a scatter PNG to this file")
	chartPath    = flag.String("chart", "", "write an interactive scatter HTML page to this file")
	dbPath       = flag.String("db", "", "save the run to this sqlite results database")
	listen       = flag.String("serve", "", "serve the viewer on this address (requires -db)")
	devMode      = flag.Bool("dev", false, "attach SQL debug routes to the viewer")
)

func main() {
	flag.Parse()

	// Subcommand dispatch before the analysis flow.
	if args := flag.Args(); len(args) > 0 && args[0] == "migrate" {
		path := *dbPath
		if path == "" {
			path = "results.db"
		}
		store.RunMigrateCommand(args[1:], path)
		return
	}

	cfg := config.EmptyAnalysisConfig()
	if *configPath != "" {
		loaded, err := config.LoadAnalysisConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	// Flags override config, config overrides built-in defaults.
	minConfidence := cfg.GetMinConfidence()
	if *confidence >= 0 {
		minConfidence = *confidence
	}
	if minConfidence > 1 {
		log.Fatalf("Confidence threshold %v out of range [0,1]", minConfidence)
	}
	diameterUnits := cfg.GetDiameterUnits()
	if *unitsFlag != "" {
		diameterUnits = *unitsFlag
	}
	if !units.IsValid(diameterUnits) {
		log.Fatalf("Invalid units %q (valid: %s)", diameterUnits, units.GetValidUnitsString())
	}
	surfaceName := cfg.GetSurface()
	if *surface != "" {
		surfaceName = *surface
	}

	pupilCSV, fixationsCSV := *pupilPath, *fixationPath
	if *exportDir != "" {
		derivedPupil, derivedFixations := exports.ResolveExportPaths(*exportDir, surfaceName)
		if pupilCSV == "" {
			pupilCSV = derivedPupil
		}
		if fixationsCSV == "" {
			fixationsCSV = derivedFixations
		}
	}
	if pupilCSV == "" || fixationsCSV == "" {
		log.Fatal("Input files required: set -export-dir, or both -pupil and -fixations")
	}

	samples, err := exports.LoadPupilPositions(pupilCSV, diameterUnits)
	if err != nil {
		log.Fatalf("Failed to load pupil positions: %v", err)
	}
	fixations, err := exports.LoadSurfaceFixations(fixationsCSV)
	if err != nil {
		log.Fatalf("Failed to load surface fixations: %v", err)
	}

	summaries := gaze.Aggregate(samples, fixations, minConfidence)
	run := report.Build(samples, fixations, summaries, minConfidence)
	run.Log()

	if *outPath != "" {
		if err := exports.WriteSummaries(*outPath, summaries); err != nil {
			log.Fatalf("Failed to write summaries: %v", err)
		}
		log.Printf("Wrote %s", *outPath)
	}

	if *plotPath != "" {
		if err := viz.ScatterPNG(*plotPath, summaries, diameterUnits); err != nil {
			log.Fatalf("Failed to write plot: %v", err)
		}
		log.Printf("Wrote %s", *plotPath)
	}

	subtitle := fmt.Sprintf("recording=%s surface=%s fixations=%d undefined=%d min_confidence=%.2f",
		*recording, surfaceName, run.SummariesEmitted, run.UndefinedMeans, minConfidence)

	if *chartPath != "" {
		f, err := os.Create(*chartPath)
		if err != nil {
			log.Fatalf("Failed to create chart file: %v", err)
		}
		if err := viz.RenderScatterHTML(f, summaries, diameterUnits, subtitle); err != nil {
			log.Fatalf("Failed to render chart: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("Failed to close chart file: %v", err)
		}
		log.Printf("Wrote %s", *chartPath)
	}

	if *dbPath == "" {
		if *listen != "" {
			log.Fatal("-serve requires -db")
		}
		return
	}

	resultStore, err := store.Open(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open results database: %v", err)
	}
	defer resultStore.Close()

	storedRun := &store.AnalysisRun{
		Recording:      *recording,
		Surface:        surfaceName,
		DiameterUnits:  diameterUnits,
		MinConfidence:  minConfidence,
		SamplesSeen:    run.SamplesSeen,
		FixationRows:   run.FixationRowsSeen,
		FixationGroups: run.FixationGroups,
		SkippedOffSurf: run.SkippedOffSurf,
		UndefinedMeans: run.UndefinedMeans,
	}
	if err := resultStore.SaveRun(storedRun, summaries); err != nil {
		log.Fatalf("Failed to save run: %v", err)
	}
	log.Printf("Saved run %s to %s", storedRun.RunID, *dbPath)

	if *listen == "" {
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := api.NewServer(resultStore)
	mux := server.ServeMux()
	if *devMode {
		resultStore.AttachAdminRoutes(mux)
		log.Print("dev mode: SQL debug routes attached under /debug/")
	}

	httpServer := &http.Server{
		Addr:    *listen,
		Handler: api.LoggingMiddleware(mux),
	}

	go func() {
		log.Printf("Viewer listening on %s (chart at http://%s/chart)", *listen, *listen)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Print("Shutting down viewer...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
}
