package repository

import (
	"errors"
	"rl_academy_backend/internal/model"
	"rl_academy_backend/internal/util"

	"gorm.io/gorm"
)

type CurriculumRepository struct {
	DB *gorm.DB
}

func NewCurriculumRepository(db *gorm.DB) *CurriculumRepository {
	return &CurriculumRepository{DB: db}
}

func (r *CurriculumRepository) ListModules() ([]model.Module, error) {
	var modules []model.Module
	err := r.DB.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("lessons.`order` ASC")
	}).Order("number ASC").Find(&modules).Error
	return modules, err
}

func (r *CurriculumRepository) FindModuleBySlug(slug string) (*model.Module, error) {
	var module model.Module
	err := r.DB.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order("lessons.`order` ASC")
	}).Where("slug = ?", slug).First(&module).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrModuleNotFound
	}
	return &module, err
}

func (r *CurriculumRepository) FindLessonBySlug(slug string) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.Where("slug = ?", slug).First(&lesson).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrLessonNotFound
	}
	return &lesson, err
}

// CountLessons 当前课程树的课时总数，进度百分比的分母
func (r *CurriculumRepository) CountLessons() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).Count(&count).Error
	return count, err
}

func (r *CurriculumRepository) CreateModule(module *model.Module) error {
	return r.DB.Create(module).Error
}

func (r *CurriculumRepository) UpdateModule(module *model.Module) error {
	return r.DB.Save(module).Error
}

func (r *CurriculumRepository) CreateLesson(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *CurriculumRepository) UpdateLesson(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *CurriculumRepository) DeleteLesson(id uint) error {
	return r.DB.Delete(&model.Lesson{}, id).Error
}
