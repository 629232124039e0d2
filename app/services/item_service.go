package services

import (
	"strings"
	"time"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/app/repositories"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/cache"
	"github.com/shashiranjanraj/vastra/pkg/faults"
)

const itemsCountCacheKey = "vastra:items:count"

// ItemService manages the catalogue.
type ItemService struct {
	items *repositories.ItemRepository
}

func NewItemService(items *repositories.ItemRepository) *ItemService {
	return &ItemService{items: items}
}

// CreateItemInput carries the writable fields of a new item.
type CreateItemInput struct {
	Title       string
	Description string
	Price       int
	Image       string
	LargeImage  string
}

// UpdateItemInput carries the mutable fields of an item. Nil means
// "leave unchanged". Ownership and bookkeeping columns are not here on
// purpose: an update can never move an item to another user.
type UpdateItemInput struct {
	Title       *string
	Description *string
	Price       *int
	Image       *string
	LargeImage  *string
}

// Create adds a catalogue item owned by the caller.
func (s *ItemService) Create(user *models.User, in CreateItemInput) (*models.Item, error) {
	if user == nil {
		return nil, faults.New(faults.AuthenticationRequired, "you must be signed in to do that")
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, faults.New(faults.Validation, "title is required")
	}
	if in.Price < 0 {
		return nil, faults.New(faults.Validation, "price cannot be negative")
	}

	item := &models.Item{
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		LargeImage:  in.LargeImage,
		UserID:      user.ID,
	}
	if err := s.items.Create(item); err != nil {
		return nil, faults.Wrap(faults.TransientStore, "could not create item", err)
	}
	cache.Del(itemsCountCacheKey) //nolint:errcheck
	return item, nil
}

// Update applies the provided fields to an item. Only the whitelisted
// columns in UpdateItemInput can change.
func (s *ItemService) Update(user *models.User, id uint, in UpdateItemInput) (*models.Item, error) {
	if user == nil {
		return nil, faults.New(faults.AuthenticationRequired, "you must be signed in to do that")
	}
	if _, err := s.items.FindByID(id); err != nil {
		if isNotFound(err) {
			return nil, faults.New(faults.NotFound, "item not found")
		}
		return nil, faults.Wrap(faults.TransientStore, "could not update item", err)
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, faults.New(faults.Validation, "title cannot be empty")
		}
		fields["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Price != nil {
		if *in.Price < 0 {
			return nil, faults.New(faults.Validation, "price cannot be negative")
		}
		fields["price"] = *in.Price
	}
	if in.Image != nil {
		fields["image"] = *in.Image
	}
	if in.LargeImage != nil {
		fields["large_image"] = *in.LargeImage
	}

	if len(fields) > 0 {
		if err := s.items.UpdateFields(id, fields); err != nil {
			return nil, faults.Wrap(faults.TransientStore, "could not update item", err)
		}
	}
	return s.items.FindByID(id)
}

// Delete removes an item. Allowed for the owner, or for holders of
// ADMIN or ITEMDELETE; the check runs before anything is touched.
func (s *ItemService) Delete(user *models.User, id uint) (*models.Item, error) {
	if user == nil {
		return nil, faults.New(faults.AuthenticationRequired, "you must be signed in to do that")
	}

	item, err := s.items.FindByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, faults.New(faults.NotFound, "item not found")
		}
		return nil, faults.Wrap(faults.TransientStore, "could not delete item", err)
	}

	owns := item.UserID == user.ID
	if !owns && !auth.Authorize(user.Permissions, auth.PermAdmin, auth.PermItemDelete) {
		return nil, faults.New(faults.AuthorizationDenied, "you don't have permission to do that")
	}

	if err := s.items.Delete(id); err != nil {
		return nil, faults.Wrap(faults.TransientStore, "could not delete item", err)
	}
	cache.Del(itemsCountCacheKey) //nolint:errcheck
	return item, nil
}

// Find returns a single item.
func (s *ItemService) Find(id uint) (*models.Item, error) {
	item, err := s.items.FindByID(id)
	if err != nil {
		if isNotFound(err) {
			return nil, faults.New(faults.NotFound, "item not found")
		}
		return nil, faults.Wrap(faults.TransientStore, "could not load item", err)
	}
	return item, nil
}

// List returns a page of items, newest first.
func (s *ItemService) List(skip, first int) ([]models.Item, error) {
	items, err := s.items.List(skip, first)
	if err != nil {
		return nil, faults.Wrap(faults.TransientStore, "could not load items", err)
	}
	return items, nil
}

// Count returns the catalogue size, for pagination. The count is cached
// in Redis for a minute and invalidated on create and delete.
func (s *ItemService) Count() (int64, error) {
	var cached int64
	if cache.Get(itemsCountCacheKey, &cached) {
		return cached, nil
	}

	n, err := s.items.Count()
	if err != nil {
		return 0, faults.Wrap(faults.TransientStore, "could not count items", err)
	}
	cache.Set(itemsCountCacheKey, n, time.Minute) //nolint:errcheck
	return n, nil
}
