package transactions

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/retailpoint/posadmin-backend/pkg/db/models"
	pkgerrors "github.com/retailpoint/posadmin-backend/pkg/errors"
)

// DefaultListLimit caps history reads when the caller does not page.
const DefaultListLimit = 50

// Service exposes read-only transaction history.
type Service interface {
	List(ctx context.Context, limit int) ([]models.Transaction, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a history service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("transactions repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, limit int) ([]models.Transaction, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	transactions, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list transactions")
	}
	return transactions, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	transaction, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find transaction")
	}
	return transaction, nil
}
