package services

import (
	"errors"

	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/dto"
	"github.com/ahmetcoskunkizilkaya/healthdesk/internal/session"
)

var (
	ErrUnknownMedicine = errors.New("unknown medicine")
	ErrInvalidQuantity = errors.New("quantity must be between 1 and 10")
)

// Catalog is the demo pharmacy's fixed stock. Prices are whole rupees.
var Catalog = []dto.Medicine{
	{Name: "Paracetamol", Dosage: "500mg", Price: 50},
	{Name: "Ibuprofen", Dosage: "400mg", Price: 80},
	{Name: "Vitamin D3", Dosage: "1000 IU", Price: 200},
}

// PharmacyService is a demo cart. Nothing is paid for or reserved.
type PharmacyService struct {
	catalog map[string]dto.Medicine
}

func NewPharmacyService() *PharmacyService {
	byName := make(map[string]dto.Medicine, len(Catalog))
	for _, m := range Catalog {
		byName[m.Name] = m
	}
	return &PharmacyService{catalog: byName}
}

func (s *PharmacyService) Medicines() []dto.Medicine {
	out := make([]dto.Medicine, len(Catalog))
	copy(out, Catalog)
	return out
}

// Add prices the item from the catalog and overwrites its cart line.
func (s *PharmacyService) Add(sess *session.Session, name string, quantity int) (session.CartItem, error) {
	m, ok := s.catalog[name]
	if !ok {
		return session.CartItem{}, ErrUnknownMedicine
	}
	if quantity < 1 || quantity > 10 {
		return session.CartItem{}, ErrInvalidQuantity
	}
	return sess.AddToCart(m.Name, quantity, m.Price), nil
}

// Checkout empties the cart unconditionally and returns what was in it. An
// empty cart yields an order with no items.
func (s *PharmacyService) Checkout(sess *session.Session) session.Order {
	return sess.Checkout()
}
