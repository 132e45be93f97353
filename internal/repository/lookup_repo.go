package repository

import (
	"context"
	"errors"

	"github.com/wakandasalud/clinic-api/internal/domain"
	"gorm.io/gorm"
)

// AppointmentRepository resolves appointments owned by the scheduling module.
type AppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Appointment, error)
}

// PatientRepository resolves patient contact details, read-only.
type PatientRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Patient, error)
}

type GormAppointmentRepo struct {
	db *gorm.DB
}

func NewGormAppointmentRepo(db *gorm.DB) *GormAppointmentRepo {
	return &GormAppointmentRepo{db: db}
}

func (r *GormAppointmentRepo) GetByID(ctx context.Context, id string) (*domain.Appointment, error) {
	var model AppointmentModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &domain.Appointment{ID: model.ID, PatientID: model.PatientID}, nil
}

type GormPatientRepo struct {
	db *gorm.DB
}

func NewGormPatientRepo(db *gorm.DB) *GormPatientRepo {
	return &GormPatientRepo{db: db}
}

func (r *GormPatientRepo) GetByID(ctx context.Context, id string) (*domain.Patient, error) {
	var model PatientModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &domain.Patient{
		ID:    model.ID,
		Name:  model.Name,
		Phone: model.Phone,
		TaxID: model.TaxID,
	}, nil
}
