package violation

import (
	"math"

	"github.com/rs/zerolog/log"

	"proxwatch-go/internal/geodesy"
	"proxwatch-go/internal/models"
)

// Result is the outcome of checking one frame's boxes.
type Result struct {
	// Violators holds each box that appears in at least one violating pair,
	// in order of first appearance.
	Violators []models.DetectionBox
	Pairs     []models.ViolationPair
	// Location is the projection computed for the last violating pair, or nil
	// when no pose was available or every projection failed.
	Location *geodesy.Point
}

// HasViolations reports whether any pair was closer than the threshold.
func (r Result) HasViolations() bool {
	return len(r.Pairs) > 0
}

// CenterDistance is the Euclidean distance between two box centres in pixels.
func CenterDistance(a, b models.DetectionBox) float64 {
	ca, cb := a.Center(), b.Center()
	return math.Hypot(float64(ca.X-cb.X), float64(ca.Y-cb.Y))
}

// FindViolations checks every unordered pair of boxes. A pair violates when
// its centre distance is strictly less than threshold. When pose is non-nil
// the result is passed through Locate.
func FindViolations(boxes []models.DetectionBox, threshold float64, pose *geodesy.CameraPose) Result {
	var res Result
	flagged := make([]bool, len(boxes))

	for i := 0; i < len(boxes); i++ {
		for j := i + 1; j < len(boxes); j++ {
			d := CenterDistance(boxes[i], boxes[j])
			if d >= threshold {
				continue
			}
			res.Pairs = append(res.Pairs, models.ViolationPair{A: boxes[i], B: boxes[j], Distance: d})
			flagged[i] = true
			flagged[j] = true
		}
	}

	for i, f := range flagged {
		if f {
			res.Violators = append(res.Violators, boxes[i])
		}
	}

	if pose != nil {
		Locate(&res, *pose)
	}
	return res
}

// Locate projects a location for each violating pair in order. The result's
// Location is the last one computed, not the nearest or the worst pair.
// Pairs whose projection fails keep a nil location.
func Locate(res *Result, pose geodesy.CameraPose) {
	var (
		lastErr error
		failed  int
	)
	for i := range res.Pairs {
		loc, err := geodesy.Project(pose)
		if err != nil {
			lastErr = err
			failed++
			continue
		}
		res.Pairs[i].Location = &loc
		res.Location = &loc
	}
	if lastErr != nil {
		log.Warn().Err(lastErr).Int("pairs", failed).Msg("Cannot project violation location")
	}
}

// FilterClass keeps the boxes labelled with class. An empty class keeps all
// boxes, and unlabelled boxes are kept for any class.
func FilterClass(boxes []models.DetectionBox, class string) []models.DetectionBox {
	if class == "" {
		return boxes
	}
	out := make([]models.DetectionBox, 0, len(boxes))
	for _, b := range boxes {
		if b.Class == "" || b.Class == class {
			out = append(out, b)
		}
	}
	return out
}
