package employee_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/WEBX2024/HRMS/internal/employee"
	"github.com/WEBX2024/HRMS/internal/shared/counter"
)

func setupRepoTest(t *testing.T) (employee.Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{SkipDefaultTransaction: true})
	assert.NoError(t, err)

	return employee.NewRepository(gdb, counter.NewRepository(gdb)), sqlMock
}

func TestEmployeeRepository_Create(t *testing.T) {
	tenantID := uuid.New()

	t.Run("generates the code from the tenant counter", func(t *testing.T) {
		repo, sqlMock := setupRepoTest(t)

		sqlMock.ExpectQuery("SELECT (.+) FROM").
			WithArgs(tenantID.String()).
			WillReturnRows(sqlmock.NewRows([]string{"code"}).AddRow("ACME"))
		sqlMock.ExpectQuery("INSERT INTO tenant_counters").
			WithArgs(tenantID.String(), "employee").
			WillReturnRows(sqlmock.NewRows([]string{"last_value"}).AddRow(int64(12)))
		sqlMock.ExpectExec(`INSERT INTO "employees"`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		e := &employee.Employee{
			ID:          uuid.New(),
			TenantID:    tenantID,
			FullName:    "New Hire",
			Email:       "new@acme.test",
			JoiningDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			Status:      employee.StatusActive,
		}
		err := repo.Create(context.Background(), e)

		assert.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("ACME-%d-0012", time.Now().UTC().Year()), e.EmployeeCode)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})

	t.Run("keeps a caller-supplied code", func(t *testing.T) {
		repo, sqlMock := setupRepoTest(t)

		sqlMock.ExpectExec(`INSERT INTO "employees"`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		e := &employee.Employee{
			ID:           uuid.New(),
			TenantID:     tenantID,
			EmployeeCode: "ACME-2026-0001",
			FullName:     "Imported",
			Email:        "imported@acme.test",
			JoiningDate:  time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			Status:       employee.StatusActive,
		}
		err := repo.Create(context.Background(), e)

		assert.NoError(t, err)
		assert.Equal(t, "ACME-2026-0001", e.EmployeeCode)
		assert.NoError(t, sqlMock.ExpectationsWereMet())
	})
}
