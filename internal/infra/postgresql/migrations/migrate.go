package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"github.com/wakandasalud/clinic-api/internal/repository"
	"gorm.io/gorm"
)

// Migrate applies the schema owned by this API: invoices, notifications, and
// phone_contacts. The appointments and patients tables belong to the
// scheduling module and are only read here.
func Migrate(db *gorm.DB) error {
	m := gormigrate.New(db, gormigrate.DefaultOptions, []*gormigrate.Migration{
		{
			ID: "000001_create_invoices",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&repository.InvoiceModel{}); err != nil {
					return err
				}
				indexes := []string{
					`CREATE INDEX IF NOT EXISTS idx_invoices_appointment_id ON invoices (appointment_id)`,
					`CREATE INDEX IF NOT EXISTS idx_invoices_active ON invoices (created_at) WHERE voided_at IS NULL`,
				}
				for _, sql := range indexes {
					if err := tx.Exec(sql).Error; err != nil {
						return err
					}
				}
				return nil
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.InvoiceModel{})
			},
		},
		{
			ID: "000002_create_notifications",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&repository.NotificationModel{}); err != nil {
					return err
				}
				return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_notifications_appointment_id ON notifications (appointment_id) WHERE appointment_id IS NOT NULL`).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.NotificationModel{})
			},
		},
		{
			ID: "000003_create_phone_contacts",
			Migrate: func(tx *gorm.DB) error {
				if err := tx.AutoMigrate(&repository.PhoneContactModel{}); err != nil {
					return err
				}
				return tx.Exec(`CREATE INDEX IF NOT EXISTS idx_phone_contacts_name ON phone_contacts (name)`).Error
			},
			Rollback: func(tx *gorm.DB) error {
				return tx.Migrator().DropTable(&repository.PhoneContactModel{})
			},
		},
	})

	return m.Migrate()
}
