package postgresrepo

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swadseva/ordering/internal/service/models/customer"
)

var customerColumns = []string{"customer_id", "name", "phone_number", "email", "status", "created_at"}

func TestPostgresCustomerRepository_GetOrCreateByPhone(t *testing.T) {
	createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	existingAt := createdAt.Add(-24 * time.Hour)
	existingID := uuid.New()

	in := customer.Customer{
		Name:        "Asha",
		PhoneNumber: "9876543210",
		Email:       "asha@example.com",
		Status:      customer.StatusActive,
		CreatedAt:   createdAt,
	}

	tests := []struct {
		name string
		row  []any
		want customer.Customer
	}{
		{
			name: "new phone number",
			row:  []any{existingID, "Asha", "9876543210", "asha@example.com", "active", createdAt},
			want: customer.Customer{
				ID:          existingID,
				Name:        "Asha",
				PhoneNumber: "9876543210",
				Email:       "asha@example.com",
				Status:      "active",
				CreatedAt:   createdAt,
			},
		},
		{
			name: "known phone number keeps stored details",
			row:  []any{existingID, "Asha Verma", "9876543210", "", "active", existingAt},
			want: customer.Customer{
				ID:          existingID,
				Name:        "Asha Verma",
				PhoneNumber: "9876543210",
				Status:      "active",
				CreatedAt:   existingAt,
			},
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			require.NoError(t, err)
			defer mock.Close()

			mock.ExpectQuery("^" + regexp.QuoteMeta(
				"INSERT INTO customers (name,phone_number,email,status,created_at) VALUES ($1,$2,$3,$4,$5) "+
					"ON CONFLICT (phone_number) DO UPDATE SET phone_number = EXCLUDED.phone_number "+
					"RETURNING customer_id, name, phone_number, email, status, created_at",
			) + "$").
				WithArgs("Asha", "9876543210", "asha@example.com", "active", createdAt).
				WillReturnRows(pgxmock.NewRows(customerColumns).AddRow(testCase.row...))

			repo := NewPostgresCustomerRepository(mock)
			got, err := repo.GetOrCreateByPhone(context.Background(), in)
			require.NoError(t, err)

			assert.Equal(t, testCase.want, got)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresCustomerRepository_GetOrCreateByPhoneError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	dbErr := errors.New("connection reset")
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO customers")).WillReturnError(dbErr)

	repo := NewPostgresCustomerRepository(mock)
	_, err = repo.GetOrCreateByPhone(context.Background(), customer.Customer{PhoneNumber: "9876543210"})

	assert.ErrorIs(t, err, dbErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCustomerRepository_Query(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	id := uuid.New()
	createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM customers WHERE customer_id IN ($1)")).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows(customerColumns).
			AddRow(id, "Asha", "9876543210", "", "active", createdAt))

	repo := NewPostgresCustomerRepository(mock)
	got, err := repo.Query(context.Background(), []uuid.UUID{id})
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, id, got[0].ID)
	assert.Equal(t, createdAt, got[0].CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
