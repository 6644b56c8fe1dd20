package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hmc-usinagem/ftc-api/internal/domain"
	"github.com/hmc-usinagem/ftc-api/internal/repository"
	"github.com/hmc-usinagem/ftc-api/internal/storage"
)

// FotoService handles the part photos attached to a ficha
type FotoService struct {
	fotoRepo      *repository.FotoRepository
	fichaRepo     *repository.FichaRepository
	store         storage.Storage
	maxUploadSize int64
	logger        *zap.Logger
}

func NewFotoService(
	fotoRepo *repository.FotoRepository,
	fichaRepo *repository.FichaRepository,
	store storage.Storage,
	maxUploadSizeMB int64,
	logger *zap.Logger,
) *FotoService {
	return &FotoService{
		fotoRepo:      fotoRepo,
		fichaRepo:     fichaRepo,
		store:         store,
		maxUploadSize: maxUploadSizeMB * 1024 * 1024,
		logger:        logger,
	}
}

// Upload stores a photo for the ficha and records its metadata
func (s *FotoService) Upload(ctx context.Context, fichaID uuid.UUID, filename, contentType string, size int64, data io.Reader) (*domain.Foto, error) {
	if size > s.maxUploadSize {
		return nil, ErrUploadTooLarge
	}

	if _, err := s.fichaRepo.GetByID(ctx, fichaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFichaNotFound
		}
		return nil, fmt.Errorf("failed to get ficha: %w", err)
	}

	storagePath, written, err := s.store.Upload(ctx, fichaID, filename, contentType, io.LimitReader(data, s.maxUploadSize))
	if err != nil {
		return nil, fmt.Errorf("failed to store foto: %w", err)
	}

	foto := &domain.Foto{
		FichaID:     fichaID,
		Filename:    filename,
		ContentType: contentType,
		Size:        written,
		StoragePath: storagePath,
	}
	if err := s.fotoRepo.Create(ctx, foto); err != nil {
		// Orphaned blobs are worse than a failed upload
		if delErr := s.store.Delete(ctx, storagePath); delErr != nil {
			s.logger.Warn("failed to clean up orphaned foto", zap.String("path", storagePath), zap.Error(delErr))
		}
		return nil, fmt.Errorf("failed to save foto metadata: %w", err)
	}

	s.logger.Info("foto anexada",
		zap.String("ficha_id", fichaID.String()),
		zap.String("foto_id", foto.ID.String()),
		zap.Int64("size", written),
	)

	return foto, nil
}

// Download streams a photo's content
func (s *FotoService) Download(ctx context.Context, id uuid.UUID) (*domain.Foto, io.ReadCloser, error) {
	foto, err := s.fotoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrFotoNotFound
		}
		return nil, nil, fmt.Errorf("failed to get foto: %w", err)
	}

	reader, err := s.store.Download(ctx, foto.StoragePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read foto: %w", err)
	}

	return foto, reader, nil
}

// Delete removes a photo and its stored content
func (s *FotoService) Delete(ctx context.Context, id uuid.UUID) error {
	foto, err := s.fotoRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrFotoNotFound
		}
		return fmt.Errorf("failed to get foto: %w", err)
	}

	if err := s.fotoRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete foto: %w", err)
	}

	if err := s.store.Delete(ctx, foto.StoragePath); err != nil {
		s.logger.Warn("failed to delete stored foto content",
			zap.String("path", foto.StoragePath),
			zap.Error(err),
		)
	}

	return nil
}

// ListByFicha returns the photo metadata of a ficha
func (s *FotoService) ListByFicha(ctx context.Context, fichaID uuid.UUID) ([]domain.Foto, error) {
	return s.fotoRepo.ListByFicha(ctx, fichaID)
}
