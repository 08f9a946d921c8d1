package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/qr_menu/internal/logging"
	"github.com/Skotchmaster/qr_menu/internal/models"
	"github.com/Skotchmaster/qr_menu/internal/repo"
	"github.com/Skotchmaster/qr_menu/internal/transport"
)

type MenuSearcher interface {
	Index(ctx context.Context, item *models.MenuItem) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, query string, from, size int) (int64, []uuid.UUID, error)
}

type MenuService struct {
	Repo  *repo.GormRepo
	Index MenuSearcher
}

func (s *MenuService) CreateMenuItem(ctx context.Context, req transport.CreateMenuItemRequest) (*models.MenuItem, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", ErrValidation)
	}
	if !models.ValidMoney(req.Price) {
		return nil, fmt.Errorf("%w: price must be >= 0 with at most 2 decimals", ErrValidation)
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	item, err := s.Repo.CreateMenuItem(ctx, &models.MenuItem{
		Name:      name,
		Price:     req.Price,
		ImageURL:  req.ImageURL,
		Available: available,
	})
	if err != nil {
		return nil, err
	}

	s.index(ctx, item)
	return item, nil
}

func (s *MenuService) GetMenuItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	item, err := s.Repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, notFound(err, "menu item")
	}
	return item, nil
}

func (s *MenuService) ListMenuItems(ctx context.Context) ([]models.MenuItem, error) {
	return s.Repo.ListMenuItems(ctx)
}

func (s *MenuService) PatchMenuItem(ctx context.Context, req transport.PatchMenuItemRequest, id uuid.UUID) (*models.MenuItem, error) {
	if req.Empty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrValidation)
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return nil, fmt.Errorf("%w: name must not be empty", ErrValidation)
	}
	if req.Price != nil && !models.ValidMoney(*req.Price) {
		return nil, fmt.Errorf("%w: price must be >= 0 with at most 2 decimals", ErrValidation)
	}

	item, err := s.Repo.GetMenuItem(ctx, id)
	if err != nil {
		return nil, notFound(err, "menu item")
	}

	if req.Name != nil {
		item.Name = strings.TrimSpace(*req.Name)
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.ImageURL != nil {
		item.ImageURL = req.ImageURL
	}
	if req.Available != nil {
		item.Available = *req.Available
	}

	item, err = s.Repo.SaveMenuItem(ctx, item)
	if err != nil {
		return nil, err
	}

	s.index(ctx, item)
	return item, nil
}

func (s *MenuService) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteMenuItem(ctx, id); err != nil {
		return notFound(err, "menu item")
	}

	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("menu_unindex_failed", "svc", "menu.delete", "id", id, "error", err)
		}
	}
	return nil
}

// SearchMenuItems asks the search index when one is configured and falls back
// to a name match in the store otherwise or when the index fails.
func (s *MenuService) SearchMenuItems(ctx context.Context, q string, offset, limit int) (int64, []models.MenuItem, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, fmt.Errorf("%w: query required", ErrValidation)
	}

	if s.Index != nil {
		total, ids, err := s.Index.Search(ctx, q, offset, limit)
		if err == nil {
			items, err := s.Repo.GetMenuItemsByIDs(ctx, ids)
			if err != nil {
				return 0, nil, err
			}
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("menu_search_index_failed", "svc", "menu.search", "error", err)
	}

	return s.Repo.SearchMenuItems(ctx, q, offset, limit)
}

func (s *MenuService) index(ctx context.Context, item *models.MenuItem) {
	if s.Index == nil {
		return
	}
	if err := s.Index.Index(ctx, item); err != nil {
		logging.FromContext(ctx).Warn("menu_index_failed", "svc", "menu.index", "id", item.ID, "error", err)
	}
}
