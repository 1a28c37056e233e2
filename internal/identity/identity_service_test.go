package identity_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/WEBX2024/HRMS/internal/identity"
	identityerrors "github.com/WEBX2024/HRMS/internal/identity/errors"
	"github.com/WEBX2024/HRMS/internal/tenant"
)

type fakeTenantRepository struct {
	fnFindActiveByID func(ctx context.Context, id string) (*tenant.Tenant, error)

	lookups int
}

func (f *fakeTenantRepository) FindByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	return f.FindActiveByID(ctx, id)
}

func (f *fakeTenantRepository) FindActiveByID(ctx context.Context, id string) (*tenant.Tenant, error) {
	f.lookups++
	if f.fnFindActiveByID != nil {
		return f.fnFindActiveByID(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTenantRepository) FindByCode(ctx context.Context, code string) (*tenant.Tenant, error) {
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeTenantRepository) CountEmployees(ctx context.Context, tenantID string) (int64, error) {
	return 0, nil
}

func (f *fakeTenantRepository) Update(ctx context.Context, t *tenant.Tenant) error {
	return nil
}

type staticSnapshot struct {
	codes map[string]bool
}

func (s staticSnapshot) Allows(code string) bool { return s.codes[code] }

func (s staticSnapshot) AllowsInDepartment(code string, departmentID string) bool {
	return s.codes[code]
}

func (s staticSnapshot) MaxPriority() int { return 0 }

type fakeSnapshotBuilder struct {
	snapshot identity.PermissionSnapshot
	err      error
	calls    int
}

func (f *fakeSnapshotBuilder) SnapshotFor(ctx context.Context, tenantID, userID string) (identity.PermissionSnapshot, error) {
	f.calls++
	return f.snapshot, f.err
}

func TestResolve(t *testing.T) {
	userID := uuid.New()
	tenantID := uuid.New()

	t.Run("tenant member gets a snapshot-backed caller", func(t *testing.T) {
		tenants := &fakeTenantRepository{
			fnFindActiveByID: func(ctx context.Context, id string) (*tenant.Tenant, error) {
				return &tenant.Tenant{ID: tenantID}, nil
			},
		}
		snapshots := &fakeSnapshotBuilder{snapshot: staticSnapshot{codes: map[string]bool{"leave.view": true}}}
		svc := identity.NewService(tenants, snapshots)

		caller, err := svc.Resolve(context.Background(), identity.Claims{
			UserID:   userID.String(),
			TenantID: tenantID.String(),
		})

		assert.NoError(t, err)
		assert.Equal(t, userID, caller.UserID)
		assert.Equal(t, tenantID, *caller.TenantID)
		assert.True(t, caller.Authorize("leave.view"))
		assert.False(t, caller.Authorize("role.create"))
		assert.Equal(t, 1, snapshots.calls)
	})

	t.Run("super admin resolves without tenant or snapshot", func(t *testing.T) {
		tenants := &fakeTenantRepository{
			fnFindActiveByID: func(ctx context.Context, id string) (*tenant.Tenant, error) {
				t.Fatal("tenant lookup must not run for super admins")
				return nil, nil
			},
		}
		snapshots := &fakeSnapshotBuilder{}
		svc := identity.NewService(tenants, snapshots)

		caller, err := svc.Resolve(context.Background(), identity.Claims{
			UserID:       userID.String(),
			IsSuperAdmin: true,
		})

		assert.NoError(t, err)
		assert.True(t, caller.IsSuperAdmin)
		assert.Nil(t, caller.TenantID)
		assert.Equal(t, 0, tenants.lookups)
		assert.Equal(t, 0, snapshots.calls)
		// Super admins authorize everything, snapshot or not.
		assert.True(t, caller.Authorize("role.create"))
		assert.True(t, caller.AuthorizeInDepartment("leave.approve", uuid.NewString()))
	})

	t.Run("missing tenant claim fails closed", func(t *testing.T) {
		svc := identity.NewService(&fakeTenantRepository{}, &fakeSnapshotBuilder{})

		_, err := svc.Resolve(context.Background(), identity.Claims{UserID: userID.String()})

		assert.ErrorIs(t, err, identityerrors.ErrMissingTenantClaim)
	})

	t.Run("suspended tenant rejects the caller", func(t *testing.T) {
		svc := identity.NewService(&fakeTenantRepository{}, &fakeSnapshotBuilder{})

		_, err := svc.Resolve(context.Background(), identity.Claims{
			UserID:   userID.String(),
			TenantID: tenantID.String(),
		})

		assert.ErrorIs(t, err, identityerrors.ErrTenantNotActive)
	})

	t.Run("garbage user id is rejected", func(t *testing.T) {
		svc := identity.NewService(&fakeTenantRepository{}, &fakeSnapshotBuilder{})

		_, err := svc.Resolve(context.Background(), identity.Claims{UserID: "not-a-uuid"})

		assert.ErrorIs(t, err, identityerrors.ErrInvalidUserID)
	})
}

func TestIsExemptPath(t *testing.T) {
	svc := identity.NewService(&fakeTenantRepository{}, &fakeSnapshotBuilder{})

	assert.True(t, svc.IsExemptPath("/api/v1/auth/login"))
	assert.True(t, svc.IsExemptPath("/api/v1/auth/password-reset/confirm"))
	assert.True(t, svc.IsExemptPath("/api/v1/invitations/accept"))
	assert.True(t, svc.IsExemptPath("/healthz"))
	assert.False(t, svc.IsExemptPath("/api/v1/leaves/requests"))
	assert.False(t, svc.IsExemptPath("/api/v1/invitations"))
}
