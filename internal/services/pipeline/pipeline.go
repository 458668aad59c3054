package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"proxwatch-go/internal/config"
	"proxwatch-go/internal/geodesy"
	"proxwatch-go/internal/heatmap"
	"proxwatch-go/internal/logging"
	"proxwatch-go/internal/models"
	"proxwatch-go/internal/services/annotate"
	"proxwatch-go/internal/services/frames"
	"proxwatch-go/internal/services/postprocessing"
	"proxwatch-go/internal/services/telemetry"
	"proxwatch-go/internal/services/violation"
)

// TelemetrySource supplies the live platform pose.
type TelemetrySource interface {
	Fetch(ctx context.Context) (telemetry.Snapshot, error)
}

// RunRecorder persists the summary of a finished run.
type RunRecorder interface {
	RecordRun(sum models.RunSummary) error
}

// Deps are the collaborators of a run. Only Source and Post are required.
type Deps struct {
	Source    *frames.Source
	Telemetry TelemetrySource
	Post      *postprocessing.Service
	Annotator *annotate.Annotator
	Runs      RunRecorder
}

// Pipeline walks the frames once, in order, feeding the violation detector
// and the heatmap grid, and renders the heatmap after the last frame.
type Pipeline struct {
	cfg    *config.Config
	deps   Deps
	logger zerolog.Logger
	grid   *heatmap.Grid
	now    func() time.Time
}

func New(cfg *config.Config, deps Deps) (*Pipeline, error) {
	if deps.Source == nil {
		return nil, fmt.Errorf("frame source is required")
	}
	if deps.Post == nil {
		return nil, fmt.Errorf("post-processing service is required")
	}
	return &Pipeline{
		cfg:    cfg,
		deps:   deps,
		logger: logging.NewServiceLogger(cfg, "pipeline"),
		now:    time.Now,
	}, nil
}

// Grid returns the grid of the last run, or nil before the first run.
func (p *Pipeline) Grid() *heatmap.Grid { return p.grid }

// Pose builds the camera pose from the fixed mount config and a telemetry
// snapshot.
func Pose(cfg *config.Config, snap telemetry.Snapshot) geodesy.CameraPose {
	return geodesy.CameraPose{
		TiltDeg:         cfg.CameraTiltDeg,
		Altitude:        cfg.PlatformAltitude,
		GroundElevation: cfg.GroundElevation,
		Bearing:         snap.Heading,
		Position:        snap.Position(),
	}
}

// Run processes every frame and writes the heatmap. Cancelling ctx stops the
// loop between frames; nothing is rendered in that case.
func (p *Pipeline) Run(ctx context.Context) (models.RunSummary, error) {
	start := p.now()
	sum := models.RunSummary{RunID: uuid.NewString()}
	logger := logging.WithRun(p.logger, sum.RunID)

	basePath, err := p.deps.Source.BaseImagePath(p.cfg.BaseImage)
	if err != nil {
		return sum, err
	}
	size, err := frames.ImageSize(basePath)
	if err != nil {
		return sum, err
	}
	grid, err := heatmap.NewGrid(size.X, size.Y)
	if err != nil {
		return sum, err
	}
	p.grid = grid

	logger.Info().
		Int("frames", p.deps.Source.Len()).
		Str("base_image", basePath).
		Int("width", size.X).
		Int("height", size.Y).
		Float64("threshold_px", p.cfg.ProximityThreshold).
		Msg("🎬 Starting run")

	for i := 0; i < p.deps.Source.Len(); i++ {
		if err := ctx.Err(); err != nil {
			logger.Warn().Int("processed", sum.Frames).Msg("Run cancelled")
			return sum, err
		}
		p.processFrame(ctx, logger, i, grid, &sum)
	}

	if err := os.MkdirAll(p.cfg.OutputDir, 0o755); err != nil {
		return sum, fmt.Errorf("failed to create output dir: %w", err)
	}
	finished := p.now()
	sum.OutputPath, err = heatmap.RenderToFile(grid, basePath, p.cfg.OutputDir, finished)
	if err != nil {
		return sum, err
	}
	if p.cfg.ChartEnabled {
		sum.ChartPath, err = heatmap.WriteChartFile(grid, p.cfg.OutputDir, p.cfg.ChartStride, finished)
		if err != nil {
			logger.Warn().Err(err).Msg("Chart export failed")
		}
	}

	sum.MaxVisits = grid.Max()
	sum.Duration = p.now().Sub(start)

	if p.deps.Runs != nil {
		if err := p.deps.Runs.RecordRun(sum); err != nil {
			logger.Warn().Err(err).Msg("Failed to record run summary")
		}
	}

	logger.Info().
		Int("frames", sum.Frames).
		Int("boxes", sum.Boxes).
		Int("frames_with_violations", sum.FramesWithViolations).
		Uint32("max_visits", sum.MaxVisits).
		Str("output", sum.OutputPath).
		Dur("duration", sum.Duration).
		Msg("✅ Run complete")

	return sum, nil
}

func (p *Pipeline) processFrame(ctx context.Context, runLogger zerolog.Logger, i int, grid *heatmap.Grid, sum *models.RunSummary) {
	frame, err := p.deps.Source.Frame(i)
	logger := logging.WithFrame(runLogger, int64(i), frame.Name)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to load labels, treating frame as empty")
	}

	boxes := violation.FilterClass(frame.Boxes, p.cfg.TargetClass)
	sum.Frames++
	sum.Boxes += len(boxes)

	res := violation.FindViolations(boxes, p.cfg.ProximityThreshold, nil)

	if res.HasViolations() {
		sum.FramesWithViolations++

		var heading *float64
		if p.deps.Telemetry != nil {
			snap, err := p.deps.Telemetry.Fetch(ctx)
			if err != nil {
				logger.Warn().Err(err).Msg("Telemetry unavailable, skipping geolocation for this frame")
			} else {
				h := snap.Heading
				heading = &h
				violation.Locate(&res, Pose(p.cfg, snap))
			}
		}

		meta := models.FrameMetadata{
			FrameID:     int64(i),
			Name:        frame.Name,
			Timestamp:   p.now(),
			Width:       grid.Width(),
			Height:      grid.Height(),
			AllDetCount: len(frame.Boxes),
		}
		out := p.deps.Post.ProcessViolations(ctx, sum.RunID, meta, res, heading)
		if out.TargetReported {
			sum.TargetsReported++
		}
		if out.Triggered {
			sum.Triggers++
		}
	}

	for _, b := range boxes {
		grid.AddBox(b)
	}

	if p.deps.Annotator != nil {
		if _, err := p.deps.Annotator.Annotate(frame.ImagePath, boxes, res); err != nil {
			logger.Warn().Err(err).Msg("Annotation failed")
		}
	}

	logger.Debug().
		Int("boxes", len(boxes)).
		Int("violators", len(res.Violators)).
		Msg("Frame processed")
}
