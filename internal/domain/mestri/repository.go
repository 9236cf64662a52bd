package mestri

import "context"

type MestriRepository interface {
	Create(ctx context.Context, m Mestri) (Mestri, error)
	GetByMestriID(ctx context.Context, mestriID string) (Mestri, error)
	List(ctx context.Context) ([]Mestri, error)
	Update(ctx context.Context, mestriID string, req UpdateMestriRequest) (Mestri, error)
}
