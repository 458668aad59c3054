package frames

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/disintegration/imaging"

	"proxwatch-go/internal/models"
)

var imageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".bmp":  true,
	".tif":  true,
	".tiff": true,
	".gif":  true,
}

// Frame is one image on disk with its detections.
type Frame struct {
	Index     int
	Name      string
	ImagePath string
	LabelPath string
	Boxes     []models.DetectionBox
}

// Source enumerates frames from a directory of images and a parallel
// directory of label files named after each image's stem.
type Source struct {
	framesDir string
	labelsDir string
	paths     []string
}

// NewSource scans framesDir for image files in lexical order.
func NewSource(framesDir, labelsDir string) (*Source, error) {
	entries, err := os.ReadDir(framesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read frames dir: %w", err)
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !imageExts[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		paths = append(paths, filepath.Join(framesDir, e.Name()))
	}
	sort.Strings(paths)

	return &Source{framesDir: framesDir, labelsDir: labelsDir, paths: paths}, nil
}

// Len returns the number of frames found.
func (s *Source) Len() int { return len(s.paths) }

// Paths returns the frame image paths in processing order.
func (s *Source) Paths() []string {
	out := make([]string, len(s.paths))
	copy(out, s.paths)
	return out
}

// LabelPath returns where the labels for imagePath are expected.
func (s *Source) LabelPath(imagePath string) string {
	base := filepath.Base(imagePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(s.labelsDir, stem+".txt")
}

// Frame loads the detections for frame i.
func (s *Source) Frame(i int) (Frame, error) {
	if i < 0 || i >= len(s.paths) {
		return Frame{}, fmt.Errorf("frame index %d out of range [0,%d)", i, len(s.paths))
	}
	p := s.paths[i]
	f := Frame{
		Index:     i,
		Name:      filepath.Base(p),
		ImagePath: p,
		LabelPath: s.LabelPath(p),
	}
	boxes, err := LoadLabels(f.LabelPath)
	if err != nil {
		return f, err
	}
	f.Boxes = boxes
	return f, nil
}

// BaseImagePath picks the background for the heatmap. An explicit override
// wins, otherwise the last frame is used.
func (s *Source) BaseImagePath(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	if len(s.paths) == 0 {
		return "", fmt.Errorf("no frames in %s to use as base image", s.framesDir)
	}
	return s.paths[len(s.paths)-1], nil
}

// ImageSize decodes the image at path and returns its dimensions.
func ImageSize(path string) (image.Point, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return image.Point{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return img.Bounds().Size(), nil
}
