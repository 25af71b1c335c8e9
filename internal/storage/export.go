package storage

import (
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/heatsim/internal/sim"
)

type ExportData struct {
	Plant      string             `json:"plant"`
	Controller string             `json:"controller"`
	Interval   float64            `json:"interval"`
	Duration   float64            `json:"duration"`
	Steps      int                `json:"steps"`
	Samples    []sim.Sample       `json:"samples"`
	Metrics    map[string]float64 `json:"metrics"`
}

func exportJSON(w io.Writer, plant, controller string, interval, duration float64, result *sim.Result) error {
	data := ExportData{
		Plant:      plant,
		Controller: controller,
		Interval:   interval,
		Duration:   duration,
		Steps:      len(result.Samples),
		Samples:    result.Samples,
		Metrics:    result.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

func ExportJSON(path string, plant, controller string, interval, duration float64, result *sim.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return exportJSON(file, plant, controller, interval, duration, result)
}

func ExportJSONStdout(plant, controller string, interval, duration float64, result *sim.Result) error {
	return exportJSON(os.Stdout, plant, controller, interval, duration, result)
}
