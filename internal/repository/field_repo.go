package repository

import (
	"context"
	"errors"
	"time"

	"fieldbook/internal/domain"

	"gorm.io/gorm"
)

type FieldRepository struct {
	db *gorm.DB
}

func NewFieldRepository(db *gorm.DB) *FieldRepository {
	return &FieldRepository{db: db}
}

type fieldModel struct {
	ID           int64     `gorm:"column:id;primaryKey"`
	Name         string    `gorm:"column:name"`
	OpenHour     int       `gorm:"column:open_hour"`
	CloseHour    int       `gorm:"column:close_hour"`
	PricePerHour float64   `gorm:"column:price_per_hour"`
	Status       string    `gorm:"column:status"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (fieldModel) TableName() string { return "fields" }

func toDomainField(m fieldModel) *domain.Field {
	return &domain.Field{
		ID:           m.ID,
		Name:         m.Name,
		OpenHour:     m.OpenHour,
		CloseHour:    m.CloseHour,
		PricePerHour: m.PricePerHour,
		Status:       domain.FieldStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func (r *FieldRepository) GetByID(ctx context.Context, id int64) (*domain.Field, error) {
	var m fieldModel
	tx := conn(ctx, r.db).First(&m, id)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, tx.Error
	}
	return toDomainField(m), nil
}

// Create exists for seeding; the booking core never writes fields.
func (r *FieldRepository) Create(ctx context.Context, f *domain.Field) error {
	m := fieldModel{
		Name:         f.Name,
		OpenHour:     f.OpenHour,
		CloseHour:    f.CloseHour,
		PricePerHour: f.PricePerHour,
		Status:       string(f.Status),
	}
	tx := conn(ctx, r.db).Create(&m)
	if tx.Error != nil {
		return tx.Error
	}
	f.ID = m.ID
	f.CreatedAt = m.CreatedAt
	f.UpdatedAt = m.UpdatedAt
	return nil
}
