package services

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/dto"
)

var (
	ErrUnsupportedImage = errors.New("image must be jpg, jpeg or png")
	ErrUnreadableImage  = errors.New("could not read image")
)

var ImageExtensions = []string{".jpg", ".jpeg", ".png"}

const imagePlaceholder = "Image analysis with a vision model is not available yet. The image was received but not analysed."

// AnalyzeImage only reads the image header. No model is called.
func AnalyzeImage(data []byte, fileName string) (*dto.ImageAnalysisResponse, error) {
	if !HasExtension(fileName, ImageExtensions) {
		return nil, ErrUnsupportedImage
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableImage, err)
	}
	return &dto.ImageAnalysisResponse{
		FileName: fileName,
		Format:   format,
		Width:    cfg.Width,
		Height:   cfg.Height,
		Message:  imagePlaceholder,
	}, nil
}
