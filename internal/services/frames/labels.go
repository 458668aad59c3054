package frames

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"proxwatch-go/internal/models"
)

// ParseLabels reads one detection per line: "x y w h [class [confidence]]".
// Blank lines are skipped. Malformed lines are logged and skipped.
func ParseLabels(r io.Reader) ([]models.DetectionBox, error) {
	var boxes []models.DetectionBox
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		b, err := parseLine(text)
		if err != nil {
			log.Warn().Err(err).Int("line", line).Msg("Skipping malformed label line")
			continue
		}
		boxes = append(boxes, b)
	}
	if err := sc.Err(); err != nil {
		return boxes, fmt.Errorf("failed to read labels: %w", err)
	}
	return boxes, nil
}

func parseLine(text string) (models.DetectionBox, error) {
	fields := strings.Fields(text)
	if len(fields) < 4 {
		return models.DetectionBox{}, fmt.Errorf("expected at least 4 fields, got %d", len(fields))
	}

	var nums [4]int
	for i := 0; i < 4; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return models.DetectionBox{}, fmt.Errorf("field %d: %w", i+1, err)
		}
		nums[i] = v
	}
	if nums[2] < 0 || nums[3] < 0 {
		return models.DetectionBox{}, fmt.Errorf("negative size %dx%d", nums[2], nums[3])
	}

	b := models.DetectionBox{X: nums[0], Y: nums[1], W: nums[2], H: nums[3]}
	if len(fields) > 4 {
		b.Class = fields[4]
	}
	if len(fields) > 5 {
		conf, err := strconv.ParseFloat(fields[5], 64)
		if err != nil {
			return models.DetectionBox{}, fmt.Errorf("confidence: %w", err)
		}
		b.Confidence = conf
	}
	return b, nil
}

// LoadLabels reads the label file at path. A missing file means the frame had
// no detections.
func LoadLabels(path string) ([]models.DetectionBox, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open labels %s: %w", path, err)
	}
	defer f.Close()
	return ParseLabels(f)
}
