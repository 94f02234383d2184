package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/noah-isme/academy-enrollment-api/internal/dto"
	appErrors "github.com/noah-isme/academy-enrollment-api/pkg/errors"
	"github.com/noah-isme/academy-enrollment-api/pkg/storage"
)

const proofPrefix = "payment-proofs"

var proofReferencePattern = regexp.MustCompile(`^payment-proofs/\d{4}/\d{2}/[0-9A-Z]{26}\.[a-z0-9]+$`)

type proofStorage interface {
	SaveStream(reference string, r io.Reader) (int64, error)
	Open(reference string) (*os.File, error)
	Delete(reference string) error
}

type proofSigner interface {
	Sign(reference string) (string, time.Time, error)
	Verify(token string) (string, error)
}

// PaymentProofUpload carries upload metadata and the content stream.
type PaymentProofUpload struct {
	Filename string
	Size     int64
	Content  io.ReadSeeker
}

// PaymentProofDownload bundles an opened proof file for streaming.
type PaymentProofDownload struct {
	File      *os.File
	Filename  string
	MimeType  string
	SizeBytes int64
}

// UploadServiceConfig holds validation parameters and the public link base.
type UploadServiceConfig struct {
	MaxFileSize  int64
	AllowedMIMEs []string
	// PublicBaseURL is the externally reachable API root, e.g. https://academy.example/api.
	PublicBaseURL string
}

// UploadService stores proof-of-payment files and issues signed links to them.
type UploadService struct {
	storage proofStorage
	signer  proofSigner
	logger  *zap.Logger
	cfg     UploadServiceConfig
	now     func() time.Time
}

// NewUploadService constructs the service with defaults.
func NewUploadService(storage proofStorage, signer proofSigner, logger *zap.Logger, cfg UploadServiceConfig) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = 5 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{"image/jpeg", "image/png", "image/webp", "application/pdf"}
	}
	cfg.PublicBaseURL = strings.TrimRight(cfg.PublicBaseURL, "/")
	return &UploadService{storage: storage, signer: signer, logger: logger, cfg: cfg, now: time.Now}
}

// Upload validates and stores a proof of payment.
func (s *UploadService) Upload(ctx context.Context, upload PaymentProofUpload) (*dto.PaymentProofUploadResponse, error) {
	if upload.Content == nil || upload.Size <= 0 {
		return nil, appErrors.WithFields(appErrors.ErrValidation, "payment proof file is required", "file")
	}
	if upload.Size > s.cfg.MaxFileSize {
		return nil, appErrors.WithFields(appErrors.ErrValidation, fmt.Sprintf("file exceeds %d bytes limit", s.cfg.MaxFileSize), "file")
	}

	mt, err := mimetype.DetectReader(upload.Content)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to inspect file")
	}
	if !mimetype.EqualsAny(mt.String(), s.cfg.AllowedMIMEs...) {
		return nil, appErrors.WithFields(appErrors.ErrValidation, "file type not allowed", "file")
	}
	if _, err := upload.Content.Seek(0, io.SeekStart); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset upload stream")
	}

	reference := s.newReference(mt.Extension())
	written, err := s.storage.SaveStream(reference, io.LimitReader(upload.Content, s.cfg.MaxFileSize+1))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store payment proof")
	}
	if written > s.cfg.MaxFileSize {
		_ = s.storage.Delete(reference)
		return nil, appErrors.WithFields(appErrors.ErrValidation, fmt.Sprintf("file exceeds %d bytes limit", s.cfg.MaxFileSize), "file")
	}

	s.logger.Info("payment proof stored",
		zap.String("reference", reference),
		zap.String("mime_type", mt.String()),
		zap.Int64("size_bytes", written),
	)
	return &dto.PaymentProofUploadResponse{
		Success:   true,
		Reference: reference,
		FileName:  displayName(upload.Filename, mt.Extension()),
		MimeType:  mt.String(),
		SizeBytes: written,
	}, nil
}

// ValidReference reports whether ref has the shape of a stored proof reference.
func (s *UploadService) ValidReference(ref string) bool {
	return proofReferencePattern.MatchString(ref)
}

// DownloadURL returns an absolute signed link to the proof.
func (s *UploadService) DownloadURL(reference string) (string, error) {
	if !s.ValidReference(reference) {
		return "", fmt.Errorf("invalid payment proof reference %q", reference)
	}
	token, _, err := s.signer.Sign(reference)
	if err != nil {
		return "", err
	}
	return s.cfg.PublicBaseURL + "/enrollment/payment-proof/" + token, nil
}

// Open resolves a signed token and opens the referenced file.
func (s *UploadService) Open(ctx context.Context, token string) (*PaymentProofDownload, error) {
	reference, err := s.signer.Verify(token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenExpired) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "link expired")
		}
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid link")
	}
	if !s.ValidReference(reference) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid link")
	}
	file, err := s.storage.Open(reference)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "payment proof not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open payment proof")
	}
	info, err := file.Stat()
	if err != nil {
		file.Close() //nolint:errcheck
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read payment proof metadata")
	}
	ext := path.Ext(reference)
	return &PaymentProofDownload{
		File:      file,
		Filename:  "payment-proof" + ext,
		MimeType:  mimeForExtension(ext),
		SizeBytes: info.Size(),
	}, nil
}

func (s *UploadService) newReference(ext string) string {
	now := s.now().UTC()
	if ext == "" {
		ext = ".bin"
	}
	return fmt.Sprintf("%s/%04d/%02d/%s%s", proofPrefix, now.Year(), int(now.Month()), ulid.Make().String(), strings.ToLower(ext))
}

// displayName keeps the client's base file name for display only.
func displayName(original, ext string) string {
	name := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	if name == "" || name == "." || name == "/" {
		return "payment-proof" + ext
	}
	if len(name) > 120 {
		name = name[:120]
	}
	return name
}

func mimeForExtension(ext string) string {
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
