package department_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"github.com/WEBX2024/HRMS/internal/department"

	departmentMock "github.com/WEBX2024/HRMS/internal/department/mock"
)

type serviceDeps struct {
	service department.Service
	repo    *departmentMock.MockRepository
}

func setupServiceTest(t *testing.T) *serviceDeps {
	ctrl := gomock.NewController(t)
	repo := departmentMock.NewMockRepository(ctrl)

	return &serviceDeps{
		service: department.NewService(repo),
		repo:    repo,
	}
}

func TestDepartmentService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("stamps the tenant on the new department", func(t *testing.T) {
		deps := setupServiceTest(t)

		var created *department.Department
		deps.repo.EXPECT().
			Create(ctx, gomock.Any()).
			DoAndReturn(func(_ context.Context, dept *department.Department) error {
				created = dept
				return nil
			}).
			Times(1)

		resp, err := deps.service.Create(ctx, tenantID.String(), department.CreateDepartmentRequest{
			Name:        "Engineering",
			Description: "Product engineering",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Engineering", resp.Name)
		if assert.NotNil(t, created) {
			assert.Equal(t, tenantID, created.TenantID)
		}
	})

	t.Run("malformed tenant id never reaches the repository", func(t *testing.T) {
		deps := setupServiceTest(t)

		deps.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		_, err := deps.service.Create(ctx, "not-a-uuid", department.CreateDepartmentRequest{Name: "Engineering"})

		assert.Error(t, err)
	})
}

func TestDepartmentService_GetByID(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("missing department surfaces not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.NewString()

		deps.repo.EXPECT().
			FindByIDAndTenant(ctx, tenantID.String(), id).
			Return(nil, gorm.ErrRecordNotFound).
			Times(1)

		_, err := deps.service.GetByID(ctx, tenantID.String(), id)

		assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
	})

	t.Run("repository errors pass through unchanged", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.NewString()
		boom := errors.New("connection reset")

		deps.repo.EXPECT().
			FindByIDAndTenant(ctx, tenantID.String(), id).
			Return(nil, boom).
			Times(1)

		_, err := deps.service.GetByID(ctx, tenantID.String(), id)

		assert.ErrorIs(t, err, boom)
	})
}

func TestDepartmentService_Update(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("rewrites name and description", func(t *testing.T) {
		deps := setupServiceTest(t)
		existing := &department.Department{
			ID:       uuid.New(),
			TenantID: tenantID,
			Name:     "Old",
		}

		deps.repo.EXPECT().
			FindByIDAndTenant(ctx, tenantID.String(), existing.ID.String()).
			Return(existing, nil).
			Times(1)
		deps.repo.EXPECT().
			Update(ctx, existing).
			Return(nil).
			Times(1)

		resp, err := deps.service.Update(ctx, tenantID.String(), existing.ID.String(), department.UpdateDepartmentRequest{
			Name:        "People Ops",
			Description: "HR operations",
		})

		assert.NoError(t, err)
		assert.Equal(t, "People Ops", resp.Name)
		assert.Equal(t, "HR operations", resp.Description)
	})
}

func TestDepartmentService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("existing department is deleted", func(t *testing.T) {
		deps := setupServiceTest(t)
		existing := &department.Department{ID: uuid.New(), TenantID: tenantID, Name: "Legacy"}

		deps.repo.EXPECT().
			FindByIDAndTenant(ctx, tenantID.String(), existing.ID.String()).
			Return(existing, nil).
			Times(1)
		deps.repo.EXPECT().
			Delete(ctx, tenantID.String(), existing.ID.String()).
			Return(nil).
			Times(1)

		err := deps.service.Delete(ctx, tenantID.String(), existing.ID.String())

		assert.NoError(t, err)
	})

	t.Run("missing department skips the delete", func(t *testing.T) {
		deps := setupServiceTest(t)
		id := uuid.NewString()

		deps.repo.EXPECT().
			FindByIDAndTenant(ctx, tenantID.String(), id).
			Return(nil, gorm.ErrRecordNotFound).
			Times(1)
		deps.repo.EXPECT().Delete(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

		err := deps.service.Delete(ctx, tenantID.String(), id)

		assert.ErrorIs(t, err, department.ErrDepartmentNotFound)
	})
}
