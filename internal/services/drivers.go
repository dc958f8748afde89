package services

import (
	"strings"

	"bistro-backend/internal/models"
	"bistro-backend/internal/store"
)

type DriverInput struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
	UserID string `json:"user_id"`
}

type DriverService struct {
	store *store.Store
}

func NewDriverService(st *store.Store) *DriverService {
	return &DriverService{store: st}
}

func (d *DriverService) List() []models.Driver {
	return d.store.Drivers()
}

func (d *DriverService) Create(in DriverInput) (models.Driver, error) {
	driver := models.Driver{
		Name:   strings.TrimSpace(in.Name),
		Phone:  strings.TrimSpace(in.Phone),
		UserID: in.UserID,
	}
	if in.Status != "" {
		status, err := models.ParseDriverStatus(strings.ToUpper(in.Status))
		if err != nil {
			return models.Driver{}, err
		}
		driver.Status = status
	}
	return d.store.CreateDriver(driver)
}

func (d *DriverService) SetStatus(id, status string) (models.Driver, error) {
	s, err := models.ParseDriverStatus(strings.ToUpper(status))
	if err != nil {
		return models.Driver{}, err
	}
	return d.store.SetDriverStatus(id, s)
}

func (d *DriverService) RegisterDevice(id, token string) error {
	return d.store.SetDriverDeviceToken(id, strings.TrimSpace(token))
}
