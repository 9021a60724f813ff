package template

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/altis0725/insurance-ai-backend/internal/adapter/postgres/testutil"
	"github.com/altis0725/insurance-ai-backend/internal/domain"
)

func templateRows(id uuid.UUID, name string, isDefault bool, now time.Time) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "description", "content", "is_default", "created_by", "created_at", "updated_at",
	}).AddRow(id, name, (*string)(nil), "# Intent\n{{customerName}}", isDefault, (*uuid.UUID)(nil), now, now)
}

func TestRepo_Create(t *testing.T) {
	id := uuid.New()
	now := time.Now()

	querier, mock := testutil.NewMockQuerier(t)
	repo := New(querier)

	mock.ExpectQuery(`INSERT INTO intent_templates`).
		WithArgs("Standard", (*string)(nil), "# Intent\n{{customerName}}", false, (*uuid.UUID)(nil)).
		WillReturnRows(templateRows(id, "Standard", false, now))

	got, err := repo.Create(context.Background(), &domain.IntentTemplate{
		Name:    "Standard",
		Content: "# Intent\n{{customerName}}",
	})
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, "Standard", got.Name)
	assert.False(t, got.IsDefault)

	testutil.ExpectationsWereMet(t, mock)
}

func TestRepo_GetDefault(t *testing.T) {
	id := uuid.New()
	now := time.Now()

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "default exists",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .+ FROM intent_templates WHERE is_default`).
					WithArgs(true).
					WillReturnRows(templateRows(id, "Standard", true, now))
			},
		},
		{
			name: "no default configured",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .+ FROM intent_templates WHERE is_default`).
					WithArgs(true).
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			querier, mock := testutil.NewMockQuerier(t)
			repo := New(querier)
			tt.setup(mock)

			got, err := repo.GetDefault(context.Background())
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
				assert.True(t, got.IsDefault)
			}

			testutil.ExpectationsWereMet(t, mock)
		})
	}
}

func TestRepo_SetDefault(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name    string
		setup   func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "flag set",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE intent_templates SET`).
					WithArgs(true, id).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "unknown template",
			setup: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE intent_templates SET`).
					WithArgs(true, id).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			querier, mock := testutil.NewMockQuerier(t)
			repo := New(querier)
			tt.setup(mock)

			err := repo.SetDefault(context.Background(), id)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
			} else {
				require.NoError(t, err)
			}

			testutil.ExpectationsWereMet(t, mock)
		})
	}
}

func TestRepo_ClearDefault(t *testing.T) {
	querier, mock := testutil.NewMockQuerier(t)
	repo := New(querier)

	// clearing when nothing is flagged is not an error
	mock.ExpectExec(`UPDATE intent_templates SET`).
		WithArgs(false, true).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.ClearDefault(context.Background()))
	testutil.ExpectationsWereMet(t, mock)
}
