package services

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strings"
	"unicode"

	"restaurant/entity"
	"restaurant/repository"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	cardDigitsRe = regexp.MustCompile(`^\d{16}$`)
	expiryRe     = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)
	cvvRe        = regexp.MustCompile(`^\d{3}$`)
)

type OrderService struct {
	Repo     *repository.OrderRepository
	MenuRepo *repository.MenuRepository

	// CardHashCost is the bcrypt cost for card fingerprints.
	CardHashCost int
}

func NewOrderService(repo *repository.OrderRepository, menuRepo *repository.MenuRepository) *OrderService {
	return &OrderService{Repo: repo, MenuRepo: menuRepo, CardHashCost: bcrypt.DefaultCost}
}

// ----- DTOs from Controller -----

// CardPlaceholder is the demo payment form. Nothing is charged.
type CardPlaceholder struct {
	CardNumber string `json:"cardNumber"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

type CreateOrderReq struct {
	MenuItemID  uint            `json:"menuItemId"`
	Quantity    int             `json:"quantity"`
	OrderType   string          `json:"orderType"`
	Address     string          `json:"address"`
	BookingDate string          `json:"bookingDate"`
	BookingTime string          `json:"bookingTime"`
	Card        CardPlaceholder `json:"cardDetailsPlaceholder"`
}

// ----- Create -----

// Create validates and records an order. Checks run in a fixed order and the
// first failure is returned.
func (s *OrderService) Create(ctx context.Context, userID uint, req *CreateOrderReq) (*entity.Order, error) {
	if userID == 0 {
		return nil, ErrAuthRequired
	}
	if req.Quantity <= 0 {
		return nil, invalid("quantity must be greater than 0")
	}

	item, err := s.MenuRepo.FindByID(ctx, req.MenuItemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("menu item")
		}
		return nil, err
	}
	if item.Price > 0 && int64(req.Quantity) > math.MaxInt64/item.Price {
		return nil, invalid("quantity is too large")
	}

	address := strings.TrimSpace(req.Address)
	date := strings.TrimSpace(req.BookingDate)
	clock := strings.TrimSpace(req.BookingTime)
	switch req.OrderType {
	case entity.OrderDelivery:
		if address == "" {
			return nil, invalid("address is required for delivery orders")
		}
		date, clock = "", ""
	case entity.OrderBooking:
		if date == "" || clock == "" {
			return nil, invalid("booking date and time are required for table reservations")
		}
		address = ""
	default:
		return nil, invalid("order type must be %q or %q", entity.OrderDelivery, entity.OrderBooking)
	}

	digits, err := validateCard(req.Card)
	if err != nil {
		return nil, err
	}
	fingerprint, err := bcrypt.GenerateFromPassword([]byte(digits), s.CardHashCost)
	if err != nil {
		return nil, err
	}

	order := &entity.Order{
		UserID:          userID,
		MenuItemID:      item.ID,
		MenuItemName:    item.Name,
		MenuItemPrice:   item.Price,
		Quantity:        req.Quantity,
		TotalPrice:      item.Price * int64(req.Quantity),
		OrderType:       req.OrderType,
		Address:         address,
		BookingDate:     date,
		BookingTime:     clock,
		CardLast4:       digits[len(digits)-4:],
		CardExpiry:      req.Card.ExpiryDate,
		CardFingerprint: string(fingerprint),
		Status:          entity.OrderPending,
	}
	if err := s.Repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	return order, nil
}

// validateCard checks the demo card form and returns the card number with
// whitespace removed.
func validateCard(card CardPlaceholder) (string, error) {
	if card.CardNumber == "" || card.ExpiryDate == "" || card.CVV == "" {
		return "", invalid("please fill in all card fields (demo only)")
	}
	digits := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, card.CardNumber)
	if !cardDigitsRe.MatchString(digits) {
		return "", invalid("card number must be 16 digits (demo only)")
	}
	if !expiryRe.MatchString(card.ExpiryDate) {
		return "", invalid("card expiry must be MM/YY (demo only)")
	}
	if !cvvRe.MatchString(card.CVV) {
		return "", invalid("CVV must be 3 digits (demo only)")
	}
	return digits, nil
}

// ----- List & Detail -----

// ListForUser returns the caller's orders newest first; anonymous callers get
// an empty list.
func (s *OrderService) ListForUser(ctx context.Context, userID uint) ([]entity.Order, error) {
	if userID == 0 {
		return []entity.Order{}, nil
	}
	return s.Repo.ListOrdersForUser(ctx, userID)
}

func (s *OrderService) DetailForUser(ctx context.Context, userID, orderID uint) (*entity.Order, error) {
	if userID == 0 {
		return nil, ErrAuthRequired
	}
	o, err := s.Repo.GetOrderForUser(ctx, userID, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("order")
	}
	return o, err
}
