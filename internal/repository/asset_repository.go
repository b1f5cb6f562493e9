package repository

import (
	"errors"
	"rl_academy_backend/internal/model"
	"rl_academy_backend/internal/util"

	"gorm.io/gorm"
)

type AssetRepository struct {
	DB *gorm.DB
}

func NewAssetRepository(db *gorm.DB) *AssetRepository {
	return &AssetRepository{DB: db}
}

func (r *AssetRepository) Create(asset *model.LessonAsset) error {
	return r.DB.Create(asset).Error
}

func (r *AssetRepository) FindByID(id uint) (*model.LessonAsset, error) {
	var asset model.LessonAsset
	err := r.DB.First(&asset, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrAssetNotFound
	}
	return &asset, err
}

func (r *AssetRepository) ListByLesson(lessonSlug string) ([]model.LessonAsset, error) {
	var assets []model.LessonAsset
	err := r.DB.Where("lesson_slug = ?", lessonSlug).Order("created_at DESC").Find(&assets).Error
	return assets, err
}

func (r *AssetRepository) Delete(id uint) error {
	return r.DB.Delete(&model.LessonAsset{}, id).Error
}
