// Command registryd replays a sequenced interaction log against a registry
// state snapshot. It reads one interaction envelope per line from stdin (or
// a file), applies each in order, and writes the resulting state snapshot.
// Rejected interactions are logged and skipped; the sequence never rolls
// back.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/GNSR-Network/registry_core/internal/config"
	"github.com/GNSR-Network/registry_core/internal/contract"
	"github.com/GNSR-Network/registry_core/internal/engine"
	"github.com/GNSR-Network/registry_core/internal/metrics"
	"github.com/GNSR-Network/registry_core/pkg/logger"
)

func main() {
	statePath := flag.String("state", "", "State snapshot to load; empty starts from genesis")
	outPath := flag.String("out", "", "Where to write the resulting snapshot (default: -state, or stdout)")
	owner := flag.String("owner", "", "Genesis owner address (required when starting from genesis)")
	settingsPath := flag.String("settings", "", "Optional YAML settings file overriding the genesis defaults")
	inPath := flag.String("interactions", "", "Interaction log, one JSON envelope per line (default stdin)")
	listen := flag.String("listen", "", "Optional address to serve Prometheus metrics on")
	flag.Parse()

	state, err := loadState(*statePath, *owner, *settingsPath)
	if err != nil {
		log.Fatalf("load state: %v", err)
	}

	reg := prometheus.NewRegistry()
	eng := engine.New(state,
		engine.WithLogger(logger.NewDefault("engine")),
		engine.WithMetrics(metrics.New(reg)))

	if *listen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		go func() {
			if err := http.ListenAndServe(*listen, mux); err != nil {
				log.Fatalf("metrics listener: %v", err)
			}
		}()
	}

	in := os.Stdin
	if *inPath != "" {
		f, err := os.Open(*inPath)
		if err != nil {
			log.Fatalf("open interactions: %v", err)
		}
		defer f.Close()
		in = f
	}

	applied, rejected, err := replay(eng, in)
	if err != nil {
		log.Fatalf("replay: %v", err)
	}
	log.Printf("replay complete: %d applied, %d rejected", applied, rejected)

	if err := writeState(eng.State(), *outPath, *statePath); err != nil {
		log.Fatalf("write state: %v", err)
	}
}

func loadState(path, owner, settingsPath string) (*contract.State, error) {
	if path == "" {
		if owner == "" {
			return nil, fmt.Errorf("-owner is required when starting from genesis")
		}
		state := config.InitialState(owner)
		if settingsPath != "" {
			settings, err := config.Load(settingsPath)
			if err != nil {
				return nil, err
			}
			state.Settings = settings
		}
		return state, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var state contract.State
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return &state, nil
}

func replay(eng *engine.Engine, in io.Reader) (applied, rejected int, err error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var envelope contract.Interaction
		if err := json.Unmarshal(raw, &envelope); err != nil {
			return applied, rejected, fmt.Errorf("line %d: %w", line, err)
		}
		if err := eng.Apply(envelope); err != nil {
			rejected++
			log.Printf("line %d rejected (%s): %v", line, contract.KindOf(err), err)
			continue
		}
		applied++
	}
	return applied, rejected, scanner.Err()
}

func writeState(state *contract.State, outPath, statePath string) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	path := outPath
	if path == "" {
		path = statePath
	}
	if path == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
