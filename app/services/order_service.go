package services

import (
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/faults"
)

// OrderService serves order history.
type OrderService struct {
	orders *repositories.OrderRepository
}

func NewOrderService(orders *repositories.OrderRepository) *OrderService {
	return &OrderService{orders: orders}
}

// Find returns a single order, visible to its owner or to an admin.
func (s *OrderService) Find(viewer *models.User, id uint) (*models.Order, error) {
	if viewer == nil {
		return nil, faults.New(faults.AuthenticationRequired, "you must be signed in to do that")
	}

	order, err := s.orders.FindByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, faults.New(faults.NotFound, "order not found")
		}
		return nil, faults.Wrap(faults.TransientStore, "could not load order", err)
	}

	owns := order.UserID == viewer.ID
	if !owns && !auth.Authorize(viewer.Permissions, auth.PermAdmin) {
		return nil, faults.New(faults.AuthorizationDenied, "you can't see this order")
	}
	return order, nil
}

// ForViewer returns the caller's own orders, newest first.
func (s *OrderService) ForViewer(viewer *models.User) ([]models.Order, error) {
	if viewer == nil {
		return nil, faults.New(faults.AuthenticationRequired, "you must be signed in to do that")
	}
	orders, err := s.orders.ForUser(viewer.ID)
	if err != nil {
		return nil, faults.Wrap(faults.TransientStore, "could not load orders", err)
	}
	return orders, nil
}
