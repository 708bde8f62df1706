// Package store provides durable persistence for purchase lots.
package store

import (
	"errors"

	"gorm.io/gorm"

	apperrors "stockfolio/internal/errors"
	"stockfolio/internal/models"
)

// LotStore is the persistence contract for purchase lots. Updates are
// visible to the next read on the same store (read-your-writes).
type LotStore interface {
	// ListLots returns all live lots for an owner in FIFO order:
	// purchase date ascending, then creation order for same-day lots.
	ListLots(ownerID string) ([]models.Lot, error)
	InsertLot(lot *models.Lot) (string, error)
	DeleteLot(id string) error
	UpdateLotQuantity(id string, quantity float64) error
}

// gormLotStore implements LotStore on a GORM SQLite handle.
type gormLotStore struct {
	db *gorm.DB
}

// NewLotStore creates a LotStore backed by the given database.
func NewLotStore(db *gorm.DB) LotStore {
	return &gormLotStore{db: db}
}

// ListLots returns the owner's lots ordered for FIFO consumption.
// UUIDv7 ids are time-ordered, so the id column is a stable final
// tie-break when two lots share both purchase date and created_at.
func (s *gormLotStore) ListLots(ownerID string) ([]models.Lot, error) {
	var lots []models.Lot
	if err := s.db.Where("user_id = ?", ownerID).
		Order("purchase_date ASC, created_at ASC, id ASC").
		Find(&lots).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return lots, nil
}

// InsertLot persists a new lot and returns its assigned id.
func (s *gormLotStore) InsertLot(lot *models.Lot) (string, error) {
	if err := s.db.Create(lot).Error; err != nil {
		return "", apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return lot.ID, nil
}

// DeleteLot removes a lot outright. Lots carry no soft-delete column;
// a consumed lot must never reappear in a listing.
func (s *gormLotStore) DeleteLot(id string) error {
	result := s.db.Delete(&models.Lot{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// UpdateLotQuantity sets a lot's remaining quantity after partial consumption.
func (s *gormLotStore) UpdateLotQuantity(id string, quantity float64) error {
	result := s.db.Model(&models.Lot{}).Where("id = ?", id).Update("quantity", quantity)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return apperrors.ErrNotFound
		}
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
