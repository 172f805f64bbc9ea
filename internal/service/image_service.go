package service

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image"
	"image/draw"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"otomo/internal/config"
	"otomo/internal/models"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"
)

const (
	DefaultImageUploadDir       = "/tmp/otomo/uploads/images"
	DefaultImageMaxUploadSizeMB = 10
	WebPQuality                 = 80
)

const (
	ImageSizeOriginal  = "original"
	ImageSizeThumbnail = "thumbnail"
	ImageSizeMedium    = "medium"
)

// variantDimensions are the fill-crop sizes generated on upload.
var variantDimensions = map[string][2]int{
	ImageSizeThumbnail: {400, 300},
	ImageSizeMedium:    {800, 600},
}

type UploadImageInput struct {
	UserID      uint
	Filename    string
	ContentType string
	Content     []byte
}

// UploadedImage describes a stored image and the URLs its variants are
// served from.
type UploadedImage struct {
	Hash     string            `json:"hash"`
	Width    int               `json:"width"`
	Height   int               `json:"height"`
	Variants map[string]string `json:"variants"`
}

// ImageService stores uploaded images on disk under a content hash and
// generates webp variants for the post form and feed.
type ImageService struct {
	uploadDir          string
	maxUploadSizeBytes int64
}

func NewImageService(cfg *config.Config) *ImageService {
	uploadDir := DefaultImageUploadDir
	maxUploadSizeMB := DefaultImageMaxUploadSizeMB
	if cfg != nil {
		if cfg.MediaDir != "" {
			uploadDir = cfg.MediaDir
		}
		if cfg.MediaMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.MediaMaxUploadSizeMB
		}
	}
	return &ImageService{
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

func (s *ImageService) Upload(in UploadImageInput) (*UploadedImage, error) {
	if in.UserID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("ファイルを選択してください")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("ファイルサイズは%dMB以内にしてください", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("対応していない画像形式です")
	}
	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") && !isAllowedImageMIME(provided) {
		return nil, models.NewValidationError("対応していない画像形式です")
	}

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("画像を読み込めませんでした")
	}
	if !isSupportedDecodedFormat(format) {
		return nil, models.NewValidationError("対応していない画像形式です")
	}

	hash := buildImageHash(in.Content)

	original, err := encodeWebP(decoded, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	files := map[string][]byte{ImageSizeOriginal: original}
	for name, dims := range variantDimensions {
		variant := resizeToFill(decoded, dims[0], dims[1])
		encoded, err := encodeWebP(variant, WebPQuality)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		files[name] = encoded
	}

	var written []string
	for name, data := range files {
		path := filepath.Join(s.uploadDir, hash, name+".webp")
		if err := writeBytesToFile(path, data); err != nil {
			cleanupImageFiles(written)
			return nil, models.NewInternalError(err)
		}
		written = append(written, path)
	}

	bounds := decoded.Bounds()
	return &UploadedImage{
		Hash:   hash,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Variants: map[string]string{
			ImageSizeOriginal:  s.BuildImageURL(hash, ImageSizeOriginal),
			ImageSizeThumbnail: s.BuildImageURL(hash, ImageSizeThumbnail),
			ImageSizeMedium:    s.BuildImageURL(hash, ImageSizeMedium),
		},
	}, nil
}

func (s *ImageService) BuildImageURL(hash, size string) string {
	return fmt.Sprintf("/api/images/%s/%s", hash, NormalizeImageSize(size))
}

// ResolveForServing maps a hash and size onto the stored file path. The
// hash is validated as lowercase hex before touching the filesystem so a
// crafted value cannot traverse out of the upload directory.
func (s *ImageService) ResolveForServing(hash, size string) (string, error) {
	if !isValidImageHash(hash) {
		return "", models.NewValidationError("Invalid image hash")
	}
	path := filepath.Join(s.uploadDir, hash, NormalizeImageSize(size)+".webp")
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", models.NewNotFoundError("Image", hash)
		}
		return "", models.NewInternalError(err)
	}
	return path, nil
}

func NormalizeImageSize(size string) string {
	switch strings.ToLower(strings.TrimSpace(size)) {
	case ImageSizeThumbnail:
		return ImageSizeThumbnail
	case ImageSizeMedium:
		return ImageSizeMedium
	default:
		return ImageSizeOriginal
	}
}

func isValidImageHash(hash string) bool {
	if len(hash) != 64 {
		return false
	}
	for _, c := range hash {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// resizeToFill crops the source to the target aspect ratio around the
// center, then scales it to exactly width x height.
func resizeToFill(src image.Image, width, height int) image.Image {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}

	targetRatio := float64(width) / float64(height)
	srcRatio := float64(w) / float64(h)

	cropW, cropH := w, h
	if srcRatio > targetRatio {
		cropW = int(float64(h) * targetRatio)
	} else {
		cropH = int(float64(w) / targetRatio)
	}
	if cropW < 1 {
		cropW = 1
	}
	if cropH < 1 {
		cropH = 1
	}
	cropX := bounds.Min.X + (w-cropW)/2
	cropY := bounds.Min.Y + (h-cropH)/2

	cropped := image.NewRGBA(image.Rect(0, 0, cropW, cropH))
	draw.Draw(cropped, cropped.Bounds(), src, image.Point{X: cropX, Y: cropY}, draw.Src)

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), cropped, cropped.Bounds(), xdraw.Over, nil)
	return dst
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func isSupportedDecodedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg", "png", "gif", "webp":
		return true
	default:
		return false
	}
}

func buildImageHash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func cleanupImageFiles(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
