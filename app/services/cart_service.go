package services

import (
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/faults"
)

// CartService manages users' carts.
type CartService struct {
	carts *repositories.CartRepository
	items *repositories.ItemRepository
}

func NewCartService(carts *repositories.CartRepository, items *repositories.ItemRepository) *CartService {
	return &CartService{carts: carts, items: items}
}

// AddToCart puts one unit of an item into the caller's cart. Adding an
// item that is already there bumps the quantity instead of creating a
// second row.
func (s *CartService) AddToCart(user *models.User, itemID uint) (*models.CartItem, error) {
	if user == nil {
		return nil, faults.New(faults.AuthenticationRequired, "you must be signed in to do that")
	}

	if _, err := s.items.FindByID(itemID); err != nil {
		if isNotFound(err) {
			return nil, faults.New(faults.NotFound, "item not found")
		}
		return nil, faults.Wrap(faults.TransientStore, "could not add to cart", err)
	}

	existing, err := s.carts.FindForUserAndItem(user.ID, itemID)
	if err == nil {
		if err := s.carts.UpdateQuantity(existing.ID, existing.Quantity+1); err != nil {
			return nil, faults.Wrap(faults.TransientStore, "could not add to cart", err)
		}
		return s.carts.FindByID(existing.ID)
	}
	if !isNotFound(err) {
		return nil, faults.Wrap(faults.TransientStore, "could not add to cart", err)
	}

	row := &models.CartItem{UserID: user.ID, ItemID: itemID, Quantity: 1}
	if err := s.carts.Create(row); err != nil {
		return nil, faults.Wrap(faults.TransientStore, "could not add to cart", err)
	}
	return s.carts.FindByID(row.ID)
}

// RemoveFromCart deletes one cart row. Only the row's owner may remove
// it; the lookup and the ownership check both happen before the delete.
func (s *CartService) RemoveFromCart(user *models.User, cartItemID uint) (*models.CartItem, error) {
	if user == nil {
		return nil, faults.New(faults.AuthenticationRequired, "you must be signed in to do that")
	}

	row, err := s.carts.FindByID(cartItemID)
	if err != nil {
		if isNotFound(err) {
			return nil, faults.New(faults.NotFound, "no cart item found")
		}
		return nil, faults.Wrap(faults.TransientStore, "could not remove from cart", err)
	}

	if row.UserID != user.ID {
		return nil, faults.New(faults.AuthorizationDenied, "that cart item is not yours")
	}

	if err := s.carts.Delete(row.ID); err != nil {
		return nil, faults.Wrap(faults.TransientStore, "could not remove from cart", err)
	}
	return row, nil
}

// Cart returns the caller's cart with item records preloaded.
func (s *CartService) Cart(user *models.User) ([]models.CartItem, error) {
	if user == nil {
		return nil, faults.New(faults.AuthenticationRequired, "you must be signed in to do that")
	}
	rows, err := s.carts.ForUser(user.ID)
	if err != nil {
		return nil, faults.Wrap(faults.TransientStore, "could not load cart", err)
	}
	return rows, nil
}
