package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/qr_menu/internal/models"
)

func (r *GormRepo) CreateTable(ctx context.Context, t *models.Table) (*models.Table, error) {
	if err := r.DB.WithContext(ctx).Create(t).Error; err != nil {
		return nil, err
	}
	return t, nil
}

func (r *GormRepo) GetTable(ctx context.Context, id uuid.UUID) (*models.Table, error) {
	var t models.Table
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *GormRepo) TableNumberExists(ctx context.Context, number int) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).Model(&models.Table{}).Where("number = ?", number).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo) ListTables(ctx context.Context) ([]models.Table, error) {
	tables := []models.Table{}
	if err := r.DB.WithContext(ctx).Order("number ASC").Find(&tables).Error; err != nil {
		return nil, err
	}
	return tables, nil
}

func (r *GormRepo) DeleteTable(ctx context.Context, id uuid.UUID) error {
	res := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&models.Table{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
