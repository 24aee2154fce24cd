package postgresql

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/employee"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (pgxmock.PgxPoolIface, *database.DB) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, database.NewWithPool(mock)
}

var employeeColumnNames = []string{
	"id", "first_name", "last_name", "national_id", "position", "department", "email", "phone_number",
	"password_hash", "role", "status", "qr_code", "qr_rotated_at", "approved_at", "approved_by", "created_at", "updated_at",
}

func TestEmployeeRepository_GetByEmail(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewEmployeeRepository(db)

	now := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	nationalID := "12345678901"
	qr := "QR-ABCDEF12"
	rows := pgxmock.NewRows(employeeColumnNames).AddRow(
		"emp-1", "Ada", "Lovelace", &nationalID, "Engineer", "R&D", "ada@example.com", "+905551112233",
		"hash", employee.RoleEmployee, employee.StatusApproved, &qr, &now, &now, (*string)(nil), now, now,
	)
	mock.ExpectQuery(regexp.QuoteMeta("FROM employees WHERE email = $1")).
		WithArgs("ada@example.com").
		WillReturnRows(rows)

	emp, err := repo.GetByEmail(context.Background(), "Ada@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "emp-1", emp.ID)
	assert.Equal(t, "Ada Lovelace", emp.FullName())
	assert.Equal(t, employee.StatusApproved, emp.Status)
	require.NotNil(t, emp.QRCode)
	assert.Equal(t, qr, *emp.QRCode)
	assert.Nil(t, emp.ApprovedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_GetByID_NotFound(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM employees WHERE id = $1")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Create_DuplicateEmail(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO employees")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "employees_email_key"})

	_, err := repo.Create(context.Background(), employee.Employee{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Role:      employee.RoleEmployee,
		Status:    employee.StatusPending,
	})
	assert.ErrorIs(t, err, employee.ErrEmailExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_Create_DuplicateNationalID(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewEmployeeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO employees")).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "employees_national_id_key"})

	_, err := repo.Create(context.Background(), employee.Employee{Role: employee.RoleEmployee, Status: employee.StatusPending})
	assert.ErrorIs(t, err, employee.ErrNationalIDExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_UpdateStatus(t *testing.T) {
	t.Run("pending row is updated", func(t *testing.T) {
		mock, db := newMockDB(t)
		repo := NewEmployeeRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("WHERE id = $6 AND status = 'PENDING'")).
			WithArgs("APPROVED", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "emp-1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		err := repo.UpdateStatus(context.Background(), employee.Employee{ID: "emp-1", Status: employee.StatusApproved})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("row no longer pending", func(t *testing.T) {
		mock, db := newMockDB(t)
		repo := NewEmployeeRepository(db)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE employees")).
			WithArgs("REJECTED", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "emp-1").
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))

		err := repo.UpdateStatus(context.Background(), employee.Employee{ID: "emp-1", Status: employee.StatusRejected})
		assert.ErrorIs(t, err, employee.ErrEmployeeNotPending)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestEmployeeRepository_Delete_NotFound(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewEmployeeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM employees WHERE id = $1")).
		WithArgs("emp-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "emp-1")
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmployeeRepository_UpdateQRCode(t *testing.T) {
	mock, db := newMockDB(t)
	repo := NewEmployeeRepository(db)
	at := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("SET qr_code = $1, qr_rotated_at = $2")).
		WithArgs("QR-0000AAAA", at, "emp-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateQRCode(context.Background(), "emp-1", "QR-0000AAAA", at)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
