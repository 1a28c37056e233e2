package department

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/WEBX2024/HRMS/internal/shared/apperror"
)

var ErrDepartmentNotFound = apperror.New(
	apperror.CodeNotFound,
	"department not found",
	http.StatusNotFound,
)

//go:generate mockgen -source=department_service.go -destination=mock/department_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, tenantID string, req CreateDepartmentRequest) (DepartmentResponse, error)
	GetAll(ctx context.Context, tenantID string) ([]DepartmentResponse, error)
	GetByID(ctx context.Context, tenantID, id string) (DepartmentResponse, error)
	Update(ctx context.Context, tenantID, id string, req UpdateDepartmentRequest) (DepartmentResponse, error)
	Delete(ctx context.Context, tenantID, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("department.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("department.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, tenantID string, req CreateDepartmentRequest) (DepartmentResponse, error) {
	tenantUUID, err := uuid.Parse(tenantID)
	if err != nil {
		return DepartmentResponse{}, apperror.InvalidField("tenant_id")
	}

	dept := &Department{
		ID:          uuid.New(),
		TenantID:    tenantUUID,
		Name:        req.Name,
		Description: req.Description,
	}
	if err := s.repo.Create(ctx, dept); err != nil {
		return DepartmentResponse{}, err
	}

	s.logger.Info("department created",
		zap.String("tenant_id", tenantID),
		zap.String("department_id", dept.ID.String()),
	)
	return mapToResponse(*dept), nil
}

func (s *service) GetAll(ctx context.Context, tenantID string) ([]DepartmentResponse, error) {
	depts, err := s.repo.FindAllByTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]DepartmentResponse, 0, len(depts))
	for _, d := range depts {
		out = append(out, mapToResponse(d))
	}
	return out, nil
}

func (s *service) GetByID(ctx context.Context, tenantID, id string) (DepartmentResponse, error) {
	dept, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartmentResponse{}, ErrDepartmentNotFound
		}
		return DepartmentResponse{}, err
	}
	return mapToResponse(*dept), nil
}

func (s *service) Update(ctx context.Context, tenantID, id string, req UpdateDepartmentRequest) (DepartmentResponse, error) {
	dept, err := s.repo.FindByIDAndTenant(ctx, tenantID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartmentResponse{}, ErrDepartmentNotFound
		}
		return DepartmentResponse{}, err
	}

	dept.Name = req.Name
	dept.Description = req.Description
	if err := s.repo.Update(ctx, dept); err != nil {
		return DepartmentResponse{}, err
	}
	return mapToResponse(*dept), nil
}

func (s *service) Delete(ctx context.Context, tenantID, id string) error {
	if _, err := s.repo.FindByIDAndTenant(ctx, tenantID, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDepartmentNotFound
		}
		return err
	}
	return s.repo.Delete(ctx, tenantID, id)
}
