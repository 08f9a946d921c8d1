package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/qr_menu/internal/models"
	"github.com/Skotchmaster/qr_menu/internal/qr"
	"github.com/Skotchmaster/qr_menu/internal/repo"
)

type TableService struct {
	Repo        *repo.GormRepo
	FrontendURL string
}

// MenuURL is the patron-facing page a table's code points at.
func (s *TableService) MenuURL(id uuid.UUID) string {
	return fmt.Sprintf("%s/menu/%s", s.FrontendURL, id)
}

func (s *TableService) CreateTable(ctx context.Context, number int) (*models.Table, error) {
	if number <= 0 {
		return nil, fmt.Errorf("%w: table_number must be > 0", ErrValidation)
	}

	exists, err := s.Repo.TableNumberExists(ctx, number)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: table number %d already exists", ErrValidation, number)
	}

	id := uuid.New()
	t, err := s.Repo.CreateTable(ctx, &models.Table{
		ID:         id,
		Number:     number,
		QRCodeData: s.MenuURL(id),
	})
	if err != nil {
		// lost a race with a concurrent create
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: table number %d already exists", ErrValidation, number)
		}
		return nil, err
	}
	return t, nil
}

func (s *TableService) GetTable(ctx context.Context, id uuid.UUID) (*models.Table, error) {
	t, err := s.Repo.GetTable(ctx, id)
	if err != nil {
		return nil, notFound(err, "table")
	}
	return t, nil
}

func (s *TableService) ListTables(ctx context.Context) ([]models.Table, error) {
	return s.Repo.ListTables(ctx)
}

func (s *TableService) DeleteTable(ctx context.Context, id uuid.UUID) error {
	if err := s.Repo.DeleteTable(ctx, id); err != nil {
		return notFound(err, "table")
	}
	return nil
}

func (s *TableService) QRCode(ctx context.Context, id uuid.UUID) ([]byte, *models.Table, error) {
	t, err := s.GetTable(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	png, err := qr.PNG(t.QRCodeData, qr.DefaultSize)
	if err != nil {
		return nil, nil, err
	}
	return png, t, nil
}

// ExportQRCodes loads every table; the caller streams them with WriteQRArchive.
func (s *TableService) ExportQRCodes(ctx context.Context) ([]models.Table, error) {
	tables, err := s.Repo.ListTables(ctx)
	if err != nil {
		return nil, err
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: no tables", ErrNotFound)
	}
	return tables, nil
}

func WriteQRArchive(w io.Writer, tables []models.Table) error {
	return qr.Archive(w, tables, qr.DefaultSize)
}
