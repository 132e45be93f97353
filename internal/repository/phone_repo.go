package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/wakandasalud/clinic-api/internal/domain"
	"gorm.io/gorm"
)

// PhoneRepository is the phone-contact persistence port.
type PhoneRepository interface {
	Create(ctx context.Context, contact *domain.PhoneContact) error
	GetByID(ctx context.Context, id string) (*domain.PhoneContact, error)
	List(ctx context.Context) ([]domain.PhoneContact, error)
	Update(ctx context.Context, contact *domain.PhoneContact) error
	Delete(ctx context.Context, id string) error
}

type GormPhoneRepo struct {
	db *gorm.DB
}

func NewGormPhoneRepo(db *gorm.DB) *GormPhoneRepo {
	return &GormPhoneRepo{db: db}
}

func (r *GormPhoneRepo) Create(ctx context.Context, contact *domain.PhoneContact) error {
	model := phoneModelFromDomain(contact)
	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("%w: phone contact was not created", domain.ErrPersistence)
	}
	if contact != nil {
		*contact = *phoneModelToDomain(model)
	}
	return nil
}

func (r *GormPhoneRepo) GetByID(ctx context.Context, id string) (*domain.PhoneContact, error) {
	var model PhoneContactModel
	err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return phoneModelToDomain(&model), nil
}

func (r *GormPhoneRepo) List(ctx context.Context) ([]domain.PhoneContact, error) {
	var models []PhoneContactModel
	err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	contacts := make([]domain.PhoneContact, 0, len(models))
	for i := range models {
		contacts = append(contacts, *phoneModelToDomain(&models[i]))
	}
	return contacts, nil
}

func (r *GormPhoneRepo) Update(ctx context.Context, contact *domain.PhoneContact) error {
	if contact == nil {
		return fmt.Errorf("%w: phone contact is required", domain.ErrValidation)
	}

	result := r.db.WithContext(ctx).
		Model(&PhoneContactModel{}).
		Where("id = ?", contact.ID).
		Updates(map[string]any{
			"name":         contact.Name,
			"country_code": contact.CountryCode,
			"number":       contact.Number,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("%w: phone contact was not updated", domain.ErrPersistence)
	}
	return nil
}

func (r *GormPhoneRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&PhoneContactModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return fmt.Errorf("%w: phone contact was not deleted", domain.ErrPersistence)
	}
	return nil
}
