// Package main fits the vessel's thrust and drag so that cruise speed and
// coast-down time match chosen targets.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/optimize"

	"github.com/pthm-cable/velamare/config"
)

// logRow is one line of calibrate_log.csv.
type logRow struct {
	Eval        int     `csv:"eval"`
	Fitness     float64 `csv:"fitness"`
	CruiseSpeed float64 `csv:"cruise_speed"`
	CoastTime   float64 `csv:"coast_time"`
	ThrustForce float64 `csv:"thrust_force"`
	LinearDrag  float64 `csv:"linear_drag"`
	WakeDrag    float64 `csv:"wake_drag"`
}

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	cruise := flag.Float64("cruise", 18, "Target cruise speed (units/s)")
	coast := flag.Float64("coast", 3, "Target coast-down time (s)")
	maxEvals := flag.Int("max-evals", 200, "Maximum number of evaluations")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	// Load base config
	baseCfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	params := NewParamVector()
	targets := Targets{CruiseSpeed: *cruise, CoastTime: *coast}
	evaluator := NewFitnessEvaluator(params, baseCfg.Vessel, targets, baseCfg.World.DT)
	initX := params.Normalize(params.ExtractFromConfig(baseCfg.Vessel))

	logFile, err := os.Create(filepath.Join(*outputDir, "calibrate_log.csv"))
	if err != nil {
		log.Fatalf("failed to create log file: %v", err)
	}
	defer logFile.Close()

	evalCount := 0
	bestFitness := 1e9
	var bestParams []float64
	startTime := time.Now()

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			raw := params.Clamp(params.Denormalize(x))
			fitness := evaluator.Evaluate(raw)
			evalCount++
			if fitness < bestFitness {
				bestFitness = fitness
				bestParams = raw
			}

			tr := evaluator.LastTrial()
			row := []logRow{{
				Eval:        evalCount,
				Fitness:     fitness,
				CruiseSpeed: tr.CruiseSpeed,
				CoastTime:   tr.CoastTime,
				ThrustForce: raw[0],
				LinearDrag:  raw[1],
				WakeDrag:    raw[2],
			}}
			var werr error
			if evalCount == 1 {
				werr = gocsv.Marshal(row, logFile)
			} else {
				werr = gocsv.MarshalWithoutHeaders(row, logFile)
			}
			if werr != nil {
				log.Printf("failed to write log row: %v", werr)
			}

			if evalCount%10 == 0 {
				fmt.Printf("Eval %d/%d: cruise=%.2f coast=%.2fs fitness=%.5f (best=%.5f)\n",
					evalCount, *maxEvals, tr.CruiseSpeed, tr.CoastTime, fitness, bestFitness)
			}
			return fitness
		},
	}

	settings := &optimize.Settings{FuncEvaluations: *maxEvals}
	method := &optimize.NelderMead{}

	fmt.Printf("Calibrating %d parameters: target cruise=%.2f coast=%.2fs, max_evals=%d\n",
		params.Dim(), targets.CruiseSpeed, targets.CoastTime, *maxEvals)

	result, err := optimize.Minimize(problem, initX, settings, method)
	if err != nil {
		log.Printf("optimization ended: %v", err)
	}
	if bestParams == nil && result != nil {
		bestParams = params.Clamp(params.Denormalize(result.X))
	}
	if bestParams == nil {
		log.Fatal("no evaluations completed")
	}

	fmt.Printf("\nCalibration complete after %d evaluations in %s\n", evalCount, time.Since(startTime).Round(time.Millisecond))
	final := RunTrial(applied(baseCfg.Vessel, params, bestParams), baseCfg.World.DT)
	fmt.Printf("Best fitness: %.6f (cruise=%.2f coast=%.2fs)\n", bestFitness, final.CruiseSpeed, final.CoastTime)
	for i, spec := range params.Specs {
		fmt.Printf("  %s: %.6f\n", spec.Path, bestParams[i])
	}

	params.ApplyToConfig(&baseCfg.Vessel, bestParams)
	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := baseCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("\nBest config saved to: %s\n", configOutPath)
	}
}

func applied(base config.VesselConfig, params *ParamVector, values []float64) config.VesselConfig {
	params.ApplyToConfig(&base, values)
	return base
}
