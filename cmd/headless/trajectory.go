package main

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/milk9111/drivesim/sim"
)

var trajectoryHeader = []string{
	"frame", "t", "dt",
	"x", "z", "heading", "vx", "vz", "speed",
	"eye_x", "eye_y", "eye_z", "target_x", "target_y", "target_z",
}

// trajectoryWriter writes one CSV row per simulated frame.
type trajectoryWriter struct {
	w   *csv.Writer
	row []string
}

func newTrajectoryWriter(out io.Writer) (*trajectoryWriter, error) {
	w := csv.NewWriter(out)
	if err := w.Write(trajectoryHeader); err != nil {
		return nil, err
	}
	return &trajectoryWriter{w: w, row: make([]string, len(trajectoryHeader))}, nil
}

func (t *trajectoryWriter) Write(f sim.Frame, elapsed float64) error {
	t.row[0] = strconv.Itoa(f.Index)
	vals := []float64{
		elapsed, f.DT,
		f.State.X, f.State.Z, f.State.Heading, f.State.VX, f.State.VZ, f.State.Speed(),
		f.Pose.Eye.X, f.Pose.Eye.Y, f.Pose.Eye.Z, f.Pose.Target.X, f.Pose.Target.Y, f.Pose.Target.Z,
	}
	for i, v := range vals {
		t.row[i+1] = strconv.FormatFloat(v, 'f', 6, 64)
	}
	return t.w.Write(t.row)
}

func (t *trajectoryWriter) Flush() error {
	t.w.Flush()
	return t.w.Error()
}
