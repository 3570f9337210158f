// Command gen-recording generates a synthetic Pupil-style surface export for
// demos and tests: a pupil_positions.csv sample stream and a matching
// fixations_on_surface CSV, including the exporter's duplicate-row quirk,
// off-surface fixations, and low-confidence samples.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
)

func main() {
	output := flag.String("o", "export", "output export directory")
	surface := flag.String("surface", "unnamed", "surface name for the fixation file")
	fixations := flag.Int("n", 40, "number of fixations")
	rate := flag.Float64("rate", 120, "pupil sample rate in Hz")
	seed := flag.Int64("seed", 1, "random seed")
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(filepath.Join(*output, "surfaces"), 0755); err != nil {
		log.Fatalf("failed to create export directory: %v", err)
	}

	pupilPath := filepath.Join(*output, "pupil_positions.csv")
	fixationsPath := filepath.Join(*output, "surfaces", fmt.Sprintf("fixations_on_surface_%s.csv", *surface))

	// Fixations tile the recording with small gaps; roughly a quarter land
	// off-surface and a few windows get starved of confident samples.
	var fixes []fixation
	clock := 10.0
	for i := 0; i < *fixations; i++ {
		dur := 150 + rng.Float64()*600 // ms
		fixes = append(fixes, fixation{
			id:        i + 1,
			start:     clock,
			dur:       dur,
			onSurface: rng.Float64() > 0.25,
		})
		clock += dur/1000 + 0.05 + rng.Float64()*0.4
	}

	if err := writeFixations(fixationsPath, fixes, rng); err != nil {
		log.Fatalf("failed to write fixations: %v", err)
	}

	pf, err := os.Create(pupilPath)
	if err != nil {
		log.Fatalf("failed to create pupil positions: %v", err)
	}
	defer pf.Close()

	w := csv.NewWriter(pf)
	// Extra columns mimic the real export; the loader ignores them.
	if err := w.Write([]string{"pupil_timestamp", "world_index", "eye_id", "confidence", "diameter", "diameter_3d"}); err != nil {
		log.Fatalf("failed to write header: %v", err)
	}

	samples := 0
	step := 1.0 / *rate
	base := 3.2 + rng.Float64()
	for t := 10.0; t < clock; t += step {
		confidence := 0.85 + rng.Float64()*0.15
		if rng.Float64() < 0.15 {
			confidence = rng.Float64() * 0.7 // blink or tracking loss
		}
		diaMM := base + 0.6*rng.NormFloat64()*0.15
		diaPX := diaMM * 11.5
		row := []string{
			fmt.Sprintf("%.4f", t),
			fmt.Sprintf("%d", samples/4),
			fmt.Sprintf("%d", samples%2),
			fmt.Sprintf("%.4f", confidence),
			fmt.Sprintf("%.3f", diaPX),
			fmt.Sprintf("%.4f", diaMM),
		}
		if err := w.Write(row); err != nil {
			log.Fatalf("failed to write sample: %v", err)
		}
		samples++
	}
	w.Flush()
	if err := w.Error(); err != nil {
		log.Fatalf("failed to flush pupil positions: %v", err)
	}

	log.Printf("✓ Created: %s (%d samples, %d fixations)", *output, samples, *fixations)
}

type fixation struct {
	id         int
	start, dur float64
	onSurface  bool
}

func writeFixations(path string, fixes []fixation, rng *rand.Rand) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"world_index", "fixation_id", "start_timestamp", "duration", "on_surf"}); err != nil {
		return err
	}

	world := 0
	for _, fx := range fixes {
		// One row per surface-detection frame, like the real exporter.
		rows := 1 + rng.Intn(3)
		for r := 0; r < rows; r++ {
			onSurf := fx.onSurface
			// Later duplicate rows occasionally disagree with the first.
			if r > 0 && rng.Float64() < 0.1 {
				onSurf = !onSurf
			}
			record := []string{
				fmt.Sprintf("%d", world),
				fmt.Sprintf("%d", fx.id),
				fmt.Sprintf("%.4f", fx.start),
				fmt.Sprintf("%.2f", fx.dur),
				fmt.Sprintf("%v", onSurf),
			}
			if err := w.Write(record); err != nil {
				return err
			}
			world++
		}
	}
	w.Flush()
	return w.Error()
}
