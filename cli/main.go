package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/biotinker/handkinematics"
	handpose "github.com/biotinker/handkinematics/hand_pose"
	"github.com/biotinker/handkinematics/internal/frames"

	"github.com/golang/geo/r3"
	"go.viam.com/rdk/logging"
)

func main() {
	framesPath := flag.String("frames", "", "path to recorded keypoint frames JSON file")
	configPath := flag.String("config", "", "path to solver tuning overrides JSON file (optional)")
	pcdDir := flag.String("pcd-dir", "", "directory to dump per-frame PCD point clouds into (optional)")
	flag.Parse()

	logger := logging.NewLogger("handkinematics-cli")

	if *framesPath == "" {
		logger.Fatal("-frames flag is required")
	}

	recording, err := frames.Load(*framesPath)
	if err != nil {
		logger.Fatal(err)
	}
	logger.Infof("Loaded %d frames", len(recording.Frames))

	opts := []handkinematics.TrackerOption{}
	if recording.FrameName != "" {
		opts = append(opts, handkinematics.WithFrame(recording.FrameName))
	}
	if *configPath != "" {
		cfg, err := loadConfig(*configPath)
		if err != nil {
			logger.Fatal(err)
		}
		opts = append(opts, handkinematics.WithConfig(cfg))
		logger.Infof("Solver overrides applied from %s", *configPath)
	}
	if *pcdDir != "" {
		if err := os.MkdirAll(*pcdDir, 0o755); err != nil {
			logger.Fatal(err)
		}
	}

	tracker := handkinematics.NewTracker(logger, opts...)

	for i, frame := range recording.Frames {
		hand, err := handpose.ParseHandedness(frame.Hand)
		if err != nil {
			logger.Fatalf("frame %d: %v", i, err)
		}

		set, err := tracker.Observe(hand, frame.Vectors())
		if err != nil {
			logger.Fatalf("frame %d: %v", i, err)
		}

		tracked := 0
		for _, jp := range set.Joints {
			if jp.Flags.Has(handpose.FlagPositionTracked) {
				tracked++
			}
		}
		wrist := set.Joints[handpose.JointWrist].Pose.Point()
		logger.Infof("frame %d: %s hand, %d/%d joints tracked, wrist=(%.3f, %.3f, %.3f)",
			i, hand, tracked, handpose.NumJoints, wrist.X, wrist.Y, wrist.Z)

		if *pcdDir != "" {
			if err := dumpCloud(*pcdDir, i, set, frame.Vectors()); err != nil {
				logger.Fatalf("frame %d: %v", i, err)
			}
		}
	}
}

func loadConfig(path string) (handpose.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return handpose.Config{}, fmt.Errorf("reading config file: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return handpose.Config{}, fmt.Errorf("parsing config file: %w", err)
	}
	return handpose.ConfigFromMap(m)
}

func dumpCloud(dir string, frame int, set *handpose.JointSet, kps []r3.Vector) error {
	path := filepath.Join(dir, fmt.Sprintf("frame_%04d.pcd", frame))
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()
	if err := handkinematics.WriteJointCloud(file, set, kps); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
