package mestri

import "context"

// MestriService defines business logic for supervisor records
type MestriService interface {
	CreateMestri(ctx context.Context, req CreateMestriRequest) (MestriResponse, error)
	GetMestri(ctx context.Context, mestriID string) (MestriResponse, error)
	ListMestris(ctx context.Context) ([]MestriResponse, error)
	UpdateMestri(ctx context.Context, req UpdateMestriRequest) (MestriResponse, error)
}
