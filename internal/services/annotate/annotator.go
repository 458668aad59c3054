package annotate

import (
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"proxwatch-go/internal/models"
	"proxwatch-go/internal/services/violation"
)

var (
	riskColor = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	safeColor = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	textColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Annotator writes a copy of each frame with proximity overlays into dir.
type Annotator struct {
	dir       string
	threshold float64
}

func NewAnnotator(dir string, threshold float64) (*Annotator, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create annotate dir: %w", err)
	}
	return &Annotator{dir: dir, threshold: threshold}, nil
}

// Annotate reads the frame at imagePath, draws the overlays and writes it
// under the same name into the annotate dir. It returns the written path.
func (a *Annotator) Annotate(imagePath string, boxes []models.DetectionBox, res violation.Result) (string, error) {
	mat := gocv.IMRead(imagePath, gocv.IMReadColor)
	if mat.Empty() {
		mat.Close()
		return "", fmt.Errorf("failed to read frame %s", imagePath)
	}
	defer mat.Close()

	DrawPairs(&mat, boxes, a.threshold)
	DrawBoxes(&mat, boxes, res.Violators)
	DrawRiskCounter(&mat, len(res.Violators))

	out := filepath.Join(a.dir, filepath.Base(imagePath))
	if ok := gocv.IMWrite(out, mat); !ok {
		return "", fmt.Errorf("failed to write annotated frame %s", out)
	}
	return out, nil
}

// DrawPairs joins every pair of box centres, red when closer than threshold
// and green otherwise.
func DrawPairs(mat *gocv.Mat, boxes []models.DetectionBox, threshold float64) {
	if mat == nil {
		return
	}
	for i := 0; i < len(boxes); i++ {
		for j := i + 1; j < len(boxes); j++ {
			c := safeColor
			if violation.CenterDistance(boxes[i], boxes[j]) < threshold {
				c = riskColor
			}
			gocv.Line(mat, boxes[i].Center(), boxes[j].Center(), c, 2)
		}
	}
}

// DrawBoxes outlines each box, red for violators.
func DrawBoxes(mat *gocv.Mat, boxes, violators []models.DetectionBox) {
	if mat == nil {
		return
	}
	risky := make(map[models.DetectionBox]bool, len(violators))
	for _, v := range violators {
		risky[v] = true
	}
	for _, b := range boxes {
		c := safeColor
		if risky[b] {
			c = riskColor
		}
		r := image.Rect(b.X-b.W/2, b.Y-b.H/2, b.X+b.W/2, b.Y+b.H/2)
		gocv.Rectangle(mat, r, c, 2)
	}
}

// DrawRiskCounter prints "People at risk: N" in the top-left corner when N>0.
func DrawRiskCounter(mat *gocv.Mat, n int) {
	if mat == nil || n == 0 {
		return
	}
	DrawText(mat, fmt.Sprintf("People at risk: %d", n), 15, 35, riskColor)
}

// DrawText helper function to draw text with background
func DrawText(mat *gocv.Mat, text string, x, y int, c color.RGBA) {
	fontFace := gocv.FontHersheySimplex
	fontScale := 0.9
	thickness := 2

	textSize := gocv.GetTextSize(text, fontFace, fontScale, thickness)
	bgColor := color.RGBA{R: 0, G: 0, B: 0, A: 180}

	gocv.Rectangle(mat, image.Rect(x-5, y-textSize.Y-5, x+textSize.X+5, y+5), bgColor, -1)
	gocv.PutText(mat, text, image.Pt(x, y), fontFace, fontScale, c, thickness)
}
