package audit

import (
	"gorm.io/gorm"

	"github.com/arxeon/arxeon-api/app/models"
)

// Repository provides DB operations used by the audit pipeline.
type Repository interface {
	CreateAuditRequest(req *models.AuditRequest) error
	GetAuditRequestByID(id string) (*models.AuditRequest, error)
	UpdateAuditRequest(id string, updates map[string]interface{}) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates an audit repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateAuditRequest(req *models.AuditRequest) error {
	return r.db.Create(req).Error
}

func (r *gormRepository) GetAuditRequestByID(id string) (*models.AuditRequest, error) {
	var req models.AuditRequest
	if err := r.db.Where("id = ?", id).First(&req).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *gormRepository) UpdateAuditRequest(id string, updates map[string]interface{}) error {
	tx := r.db.Model(&models.AuditRequest{}).Where("id = ?", id).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
