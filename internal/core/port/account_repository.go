package port

import (
	"context"

	"github.com/velostra/platform-api/internal/core/domain"
)

// AccountRepository persists OAuth identity links.
type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) error
	GetByProviderAccount(ctx context.Context, provider, providerAccountID string) (*domain.Account, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Account, error)
	DeleteByUser(ctx context.Context, userID string) (int, error)
}
