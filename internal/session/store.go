package session

import (
	"context"

	"github.com/RobBrazier/audiodrop/internal/model"
)

// Store keeps the per-session UI state: the highlighted listing, the number
// of purchases in flight and pending toast notifications.
type Store interface {
	// SetHighlight replaces the session's highlighted listing. The highlight
	// clears on its own once the store's highlight duration has passed.
	SetHighlight(ctx context.Context, sid, id string) error
	Highlight(ctx context.Context, sid string) (string, error)

	BeginPurchase(ctx context.Context, sid string) error
	EndPurchase(ctx context.Context, sid string) error
	PurchaseInProgress(ctx context.Context, sid string) (bool, error)

	PushToast(ctx context.Context, sid string, toast model.Toast) error
	// PopToasts returns the pending toasts and clears them.
	PopToasts(ctx context.Context, sid string) ([]model.Toast, error)
}
