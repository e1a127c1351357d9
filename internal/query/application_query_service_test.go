package query

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eaglebank/onboarding/internal/repository"
	"github.com/eaglebank/onboarding/shared/cqrs"
	"github.com/eaglebank/onboarding/shared/models"
)

func strPtr(s string) *string { return &s }

func floatPtr(v float64) *float64 { return &v }

// seed stores n applications with distinct identifiers; mutate customises
// the i-th record before it is stored.
func seed(t *testing.T, store *repository.MemoryStore, n int, mutate func(i int, a *models.Application)) {
	t.Helper()
	for i := 0; i < n; i++ {
		a := &models.Application{
			AccountNo:      fmt.Sprintf("%012d", i+1),
			IBAN:           fmt.Sprintf("PK%018d", i+1),
			TitleOfAccount: "JOHN DOE",
			Name:           "JOHN DOE",
			CNICNo:         "12345-1234567-1",
		}
		if mutate != nil {
			mutate(i, a)
		}
		_, err := store.Insert(context.Background(), a)
		require.NoError(t, err)
	}
}

func TestListApplicationsPaging(t *testing.T) {
	store := repository.NewMemoryStore()
	seed(t, store, 120, nil)
	svc := NewApplicationQueryService(store)
	ctx := context.Background()

	tests := []struct {
		name      string
		query     cqrs.ListApplicationsQuery
		wantLen   int
		wantFirst int64
	}{
		{name: "default limit", query: cqrs.ListApplicationsQuery{}, wantLen: DefaultPageLimit, wantFirst: 1},
		{name: "skip", query: cqrs.ListApplicationsQuery{Skip: 5, Limit: 3}, wantLen: 3, wantFirst: 6},
		{name: "limit capped", query: cqrs.ListApplicationsQuery{Limit: 500}, wantLen: MaxPageLimit, wantFirst: 1},
		{name: "negative skip clamped", query: cqrs.ListApplicationsQuery{Skip: -4, Limit: 2}, wantLen: 2, wantFirst: 1},
		{name: "past the end", query: cqrs.ListApplicationsQuery{Skip: 200}, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apps, err := svc.ListApplications(ctx, tt.query)
			require.NoError(t, err)
			require.NotNil(t, apps)
			assert.Len(t, apps, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, apps[0].ID)
			}
		})
	}

	n, err := svc.CountApplications(ctx)
	require.NoError(t, err)
	assert.Equal(t, 120, n)
}

func TestFindApplication(t *testing.T) {
	store := repository.NewMemoryStore()
	seed(t, store, 3, func(i int, a *models.Application) {
		if i == 2 {
			a.CNICNo = "54321-7654321-2"
		}
	})
	svc := NewApplicationQueryService(store)
	ctx := context.Background()

	app, err := svc.FindApplication(ctx, cqrs.FindApplicationQuery{Field: models.FieldCNICNo, Value: "54321-7654321-2"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), app.ID)

	app, err = svc.FindApplication(ctx, cqrs.FindApplicationQuery{Field: models.FieldIBAN, Value: fmt.Sprintf("PK%018d", 2)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), app.ID)

	_, err = svc.FindApplication(ctx, cqrs.FindApplicationQuery{Field: models.FieldAccountNo, Value: "999999999999"})
	assert.ErrorIs(t, err, models.ErrApplicationNotFound)

	_, err = svc.GetApplication(ctx, cqrs.GetApplicationQuery{ID: 42})
	assert.ErrorIs(t, err, models.ErrApplicationNotFound)
}

func TestListByAccountTypeAndCity(t *testing.T) {
	store := repository.NewMemoryStore()
	seed(t, store, 4, func(i int, a *models.Application) {
		if i%2 == 0 {
			a.AccountType = models.AccountTypeSavings
			a.City = strPtr("LAHORE")
		} else {
			a.AccountType = models.AccountTypeCurrent
			a.City = strPtr("KARACHI")
		}
	})
	svc := NewApplicationQueryService(store)
	ctx := context.Background()

	savings, err := svc.ListByAccountType(ctx, "savings")
	require.NoError(t, err)
	assert.Len(t, savings, 2)

	_, err = svc.ListByAccountType(ctx, "BROKERAGE")
	var invalid *models.InvalidCategoryError
	assert.ErrorAs(t, err, &invalid)

	karachi, err := svc.ListByCity(ctx, "Karachi")
	require.NoError(t, err)
	assert.Len(t, karachi, 2)

	none, err := svc.ListByCity(ctx, "QUETTA")
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
