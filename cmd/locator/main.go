package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/marchon-locator/internal/calendar"
	"github.com/marchon-locator/internal/layers"
	"github.com/marchon-locator/internal/pkg/logger"
	"github.com/marchon-locator/internal/usecase"
)

// набор, под которым CLI держит файл фич
const fileDataset = "file"

type rootOptions struct {
	file       string
	layersFile string
	graceDays  int
	verbose    bool
}

// app - usecases поверх одного GeoJSON-файла
type app struct {
	nearest *usecase.NearestUseCase
	events  *usecase.EventUseCase
	layers  *usecase.LayerUseCase
}

func (o *rootOptions) build() (*app, error) {
	if o.file == "" {
		return nil, fmt.Errorf("--file is required")
	}

	log := zap.NewNop()
	if o.verbose {
		l, err := logger.New("debug", "locator-cli")
		if err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
		log = l
	}

	catalogue := layers.Default()
	if o.layersFile != "" {
		c, err := layers.LoadFile(o.layersFile)
		if err != nil {
			return nil, fmt.Errorf("load layers: %w", err)
		}
		catalogue = c
	}

	cal := usecase.CalendarSettings{
		Clock:     calendar.RealClock{},
		GraceDays: o.graceDays,
	}

	features := usecase.NewFeatureSetUseCase(newFileSource(o.file), nil, []string{fileDataset}, fileDataset, 0, nil, log)
	return &app{
		nearest: usecase.NewNearestUseCase(features, catalogue, cal, nil, log),
		events:  usecase.NewEventUseCase(features, catalogue, cal, log),
		layers:  usecase.NewLayerUseCase(features, catalogue, cal, log),
	}, nil
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "locator",
		Short:         "Query a MarchOn features file offline",
		Long:          "Runs nearest lookup, event classification and layer partitioning against a local GeoJSON FeatureCollection.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVarP(&opts.file, "file", "f", "", "GeoJSON FeatureCollection to read")
	root.PersistentFlags().StringVar(&opts.layersFile, "layers", "", "YAML layer catalogue (default: built-in)")
	root.PersistentFlags().IntVar(&opts.graceDays, "grace-days", 1, "days after which an event counts as past")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log to stdout")

	root.AddCommand(
		newNearestCmd(opts),
		newEventsCmd(opts),
		newLayersCmd(opts),
	)
	return root
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
