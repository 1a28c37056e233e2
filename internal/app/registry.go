package app

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/WEBX2024/HRMS/internal/attendance"
	"github.com/WEBX2024/HRMS/internal/audit"
	"github.com/WEBX2024/HRMS/internal/auth"
	"github.com/WEBX2024/HRMS/internal/authtoken"
	"github.com/WEBX2024/HRMS/internal/department"
	"github.com/WEBX2024/HRMS/internal/employee"
	employeeerrors "github.com/WEBX2024/HRMS/internal/employee/errors"
	"github.com/WEBX2024/HRMS/internal/identity"
	"github.com/WEBX2024/HRMS/internal/leave"
	"github.com/WEBX2024/HRMS/internal/messaging/kafka"
	"github.com/WEBX2024/HRMS/internal/middleware"
	"github.com/WEBX2024/HRMS/internal/rbac"
	"github.com/WEBX2024/HRMS/internal/shared/counter"
	"github.com/WEBX2024/HRMS/internal/tenant"
)

// employeeDirectory adapts the employee repository to the profile view
// the leave engine needs for policy checks.
type employeeDirectory struct {
	employees employee.Repository
}

func (d *employeeDirectory) FindProfile(ctx context.Context, tenantID, employeeID string) (*leave.EmployeeProfile, error) {
	e, err := d.employees.FindByIDAndTenant(ctx, tenantID, employeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}
		return nil, err
	}
	return &leave.EmployeeProfile{
		Gender:      e.Gender,
		JoiningDate: e.JoiningDate,
	}, nil
}

func registerModules(
	router *gin.Engine,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	tenantRepo := tenant.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB, counterRepo)
	rbacRepo := rbac.NewRepository(gormDB)
	authRepo := auth.NewRepository(gormDB)
	tokenRepo := authtoken.NewRepository(gormDB)
	auditRepo := audit.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(gormDB)

	// --- Services ---
	rbacService := rbac.NewService(rbacRepo)
	identityService := identity.NewService(tenantRepo, rbacService)
	tokenService := authtoken.NewService(tokenRepo)
	auditService := audit.NewService(auditRepo, outboxRepo)
	departmentService := department.NewService(departmentRepo)
	leaveService := leave.NewService(gormDB, leaveRepo, outboxRepo, &employeeDirectory{employees: employeeRepo})
	attendanceService := attendance.NewService(gormDB, attendanceRepo, leaveService)
	authService := auth.NewService(gormDB, authRepo, tenantRepo, employeeRepo, rbacService, tokenService, auditService)

	// --- Handlers ---
	rbacHandler := rbac.NewHandler(rbacService)
	tokenHandler := authtoken.NewHandler(tokenService)
	auditHandler := audit.NewHandler(auditService)
	departmentHandler := department.NewHandler(departmentService)
	leaveHandler := leave.NewHandler(leaveService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	authHandler := auth.NewHandler(authService)

	// --- Routes ---
	api := router.Group("/api/v1")
	api.Use(middleware.Idempotency(rdb))
	{
		auth.RegisterRoutes(api, authHandler, identityService)
		authtoken.RegisterRoutes(api, tokenHandler, identityService)
		rbac.RegisterRoutes(api, rbacHandler, identityService)
		attendance.RegisterRoutes(api, attendanceHandler, identityService)
		leave.RegisterRoutes(api, leaveHandler, identityService)
		department.RegisterRoutes(api, departmentHandler, identityService)
		audit.RegisterRoutes(api, auditHandler, identityService)
	}

	return nil
}
