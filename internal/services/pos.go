package services

import (
	"bistro-backend/internal/models"
	"bistro-backend/internal/store"

	"github.com/shopspring/decimal"
)

// Checkout is the POS summary for a table. Tax is computed here only and never stored.
type Checkout struct {
	TableID  int                `json:"table_id"`
	Lines    []models.OrderItem `json:"lines"`
	Subtotal decimal.Decimal    `json:"subtotal"`
	Tax      decimal.Decimal    `json:"tax"`
	Total    decimal.Decimal    `json:"total"`
}

// Summarize prices a set of lines at the given tax rate, rounding tax to cents
func Summarize(tableID int, lines []models.OrderItem, taxRate decimal.Decimal) Checkout {
	if lines == nil {
		lines = []models.OrderItem{}
	}
	subtotal := models.SumItems(lines)
	tax := subtotal.Mul(taxRate).Round(2)
	return Checkout{
		TableID:  tableID,
		Lines:    lines,
		Subtotal: subtotal,
		Tax:      tax,
		Total:    subtotal.Add(tax),
	}
}

// POSService assembles dine-in orders table by table
type POSService struct {
	store   *store.Store
	taxRate decimal.Decimal
}

func NewPOSService(st *store.Store, taxRate decimal.Decimal) *POSService {
	return &POSService{store: st, taxRate: taxRate}
}

func (s *POSService) Draft(tableID int) (Checkout, error) {
	lines, err := s.store.Draft(tableID)
	if err != nil {
		return Checkout{}, err
	}
	return Summarize(tableID, lines, s.taxRate), nil
}

func (s *POSService) AddItem(tableID int, menuItemID string) (Checkout, error) {
	lines, err := s.store.AddDraftItem(tableID, menuItemID)
	if err != nil {
		return Checkout{}, err
	}
	return Summarize(tableID, lines, s.taxRate), nil
}

// RemoveItem drops the whole line regardless of quantity
func (s *POSService) RemoveItem(tableID int, menuItemID string) (Checkout, error) {
	lines, err := s.store.RemoveDraftItem(tableID, menuItemID)
	if err != nil {
		return Checkout{}, err
	}
	return Summarize(tableID, lines, s.taxRate), nil
}

// Submit sends the draft to the kitchen as a PENDING order
func (s *POSService) Submit(tableID int, note string) (models.Order, error) {
	return s.store.SubmitDraft(tableID, note)
}
