package mestri

import (
	"context"

	"github.com/cmlabs-hris/mestri-payroll/internal/domain/mestri"
	"github.com/google/uuid"
)

type MestriServiceImpl struct {
	mestriRepo mestri.MestriRepository
}

func NewMestriService(mestriRepo mestri.MestriRepository) mestri.MestriService {
	return &MestriServiceImpl{mestriRepo: mestriRepo}
}

func (s *MestriServiceImpl) CreateMestri(ctx context.Context, req mestri.CreateMestriRequest) (mestri.MestriResponse, error) {
	if err := req.Validate(); err != nil {
		return mestri.MestriResponse{}, err
	}

	created, err := s.mestriRepo.Create(ctx, mestri.Mestri{
		ID:          uuid.NewString(),
		MestriID:    req.MestriID,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		return mestri.MestriResponse{}, err
	}
	return mestri.NewMestriResponse(created), nil
}

func (s *MestriServiceImpl) GetMestri(ctx context.Context, mestriID string) (mestri.MestriResponse, error) {
	m, err := s.mestriRepo.GetByMestriID(ctx, mestriID)
	if err != nil {
		return mestri.MestriResponse{}, err
	}
	return mestri.NewMestriResponse(m), nil
}

func (s *MestriServiceImpl) ListMestris(ctx context.Context) ([]mestri.MestriResponse, error) {
	list, err := s.mestriRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]mestri.MestriResponse, 0, len(list))
	for _, m := range list {
		resp = append(resp, mestri.NewMestriResponse(m))
	}
	return resp, nil
}

func (s *MestriServiceImpl) UpdateMestri(ctx context.Context, req mestri.UpdateMestriRequest) (mestri.MestriResponse, error) {
	if err := req.Validate(); err != nil {
		return mestri.MestriResponse{}, err
	}

	updated, err := s.mestriRepo.Update(ctx, req.MestriID, req)
	if err != nil {
		return mestri.MestriResponse{}, err
	}
	return mestri.NewMestriResponse(updated), nil
}
