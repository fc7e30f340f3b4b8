package x11

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/image/draw"

	"screenpilot/internal/platform"
)

// upscaleFactor enlarges screenshots before recognition. Desktop UI text is
// small; tesseract's accuracy improves markedly at 2x. Word boxes are scaled
// back to screen coordinates afterwards.
const upscaleFactor = 2

// Tesseract recognizes text by shelling out to the tesseract CLI and parsing
// its TSV output.
type Tesseract struct {
	run *runner
}

// NewTesseract returns a Recognizer backed by the tesseract binary.
func NewTesseract(run *runner) *Tesseract {
	return &Tesseract{run: run}
}

// Available reports whether tesseract is installed.
func (t *Tesseract) Available() bool {
	return haveCommand("tesseract")
}

// Recognize preprocesses the image (grayscale, upscale), runs tesseract in
// sparse-text mode, and returns word boxes in the original image's
// coordinates with confidence >= minConfidence.
func (t *Tesseract) Recognize(img image.Image, minConfidence float64) ([]platform.Word, error) {
	prepared := preprocess(img)

	dir, err := os.MkdirTemp("", "screenpilot-ocr-")
	if err != nil {
		return nil, fmt.Errorf("ocr temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "screen.png")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("ocr temp file: %w", err)
	}
	if err := png.Encode(f, prepared); err != nil {
		f.Close()
		return nil, fmt.Errorf("encode ocr image: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, err
	}

	// --psm 11: sparse text, no layout assumptions. Desktop screens are not
	// documents.
	out, err := t.run.run("tesseract", path, "stdout", "--psm", "11", "tsv")
	if err != nil {
		return nil, fmt.Errorf("tesseract: %w", err)
	}

	words := parseTSV(out, minConfidence)
	for i := range words {
		words[i].Bounds[0] /= upscaleFactor
		words[i].Bounds[1] /= upscaleFactor
		words[i].Bounds[2] /= upscaleFactor
		words[i].Bounds[3] /= upscaleFactor
	}
	return words, nil
}

// preprocess converts to grayscale and upscales. Grayscale strips color
// noise from anti-aliased text; bilinear keeps edges smooth enough for
// recognition without CatmullRom's cost on full screens.
func preprocess(img image.Image) image.Image {
	b := img.Bounds()
	gray := image.NewGray(b)
	draw.Draw(gray, b, img, b.Min, draw.Src)

	scaled := image.NewGray(image.Rect(0, 0, b.Dx()*upscaleFactor, b.Dy()*upscaleFactor))
	draw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), gray, b, draw.Src, nil)
	return scaled
}

// parseTSV parses tesseract's TSV output. Columns: level, page_num,
// block_num, par_num, line_num, word_num, left, top, width, height, conf,
// text. Word rows have level 5 and a non-negative confidence.
func parseTSV(out string, minConfidence float64) []platform.Word {
	var words []platform.Word
	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if i == 0 { // header
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 12 {
			continue
		}
		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf < 0 {
			continue
		}
		text := strings.TrimSpace(cols[11])
		if text == "" || conf < minConfidence {
			continue
		}
		left, err1 := strconv.Atoi(cols[6])
		top, err2 := strconv.Atoi(cols[7])
		width, err3 := strconv.Atoi(cols[8])
		height, err4 := strconv.Atoi(cols[9])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			continue
		}
		words = append(words, platform.Word{
			Text:       text,
			Bounds:     [4]int{left, top, width, height},
			Confidence: conf,
		})
	}
	return words
}
