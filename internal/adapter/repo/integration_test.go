//go:build integration

package repo

import (
	"context"
	"fmt"
	"testing"
	"time"

	"companions/internal/domain"
	"companions/internal/infra"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) infra.SQLExecutor {
	t.Helper()
	ctx := context.Background()

	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "market",
				"POSTGRES_PASSWORD": "market",
				"POSTGRES_DB":       "market",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://market:market@%s:%s/market?sslmode=disable", host, port.Port())

	m, err := infra.NewMigrator(dsn)
	require.NoError(t, err)
	require.NoError(t, m.Up())
	require.NoError(t, m.Close())

	pool, err := infra.NewDBPool(ctx, &infra.Config{DatabaseURL: dsn})
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return infra.NewSQLRunner(pool, zerolog.Nop())
}

func TestIntegration_EntitlementIgnoresOlderEvent(t *testing.T) {
	sql := startPostgres(t)
	repo := NewBillingRepository(sql)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	newer := domain.Entitlement{
		AuthID: "user_1", CustomerID: "cus_1",
		Purchase: domain.Purchase{ID: "cs_new", Plan: domain.PlanVIP, DurationDays: 30, PurchasedAt: base, ExpiresAt: base.AddDate(0, 0, 30)},
		Source:   domain.SourceEvent{ID: "evt_b", Created: base.Add(2 * time.Second)},
	}
	older := newer
	older.Purchase = domain.Purchase{ID: "cs_old", Plan: domain.PlanBasico, DurationDays: 7, PurchasedAt: base.Add(-time.Hour), ExpiresAt: base.Add(-time.Hour).AddDate(0, 0, 7)}
	older.Source = domain.SourceEvent{ID: "evt_a", Created: base.Add(time.Second)}

	require.NoError(t, repo.SaveEntitlement(ctx, newer))
	assert.ErrorIs(t, repo.SaveEntitlement(ctx, older), domain.ErrStaleEvent)
	require.NoError(t, repo.SaveEntitlement(ctx, newer), "redelivery of the stored event is accepted")

	got, err := repo.Entitlement(ctx, "user_1")
	require.NoError(t, err)
	assert.Equal(t, "cs_new", got.Purchase.ID)
	assert.Equal(t, domain.PlanVIP, got.Purchase.Plan)
}

func TestIntegration_CompanionLifecycle(t *testing.T) {
	sql := startPostgres(t)
	companions := NewCompanionRepository(sql)
	docs := NewDocumentRepository(sql)
	blocks := NewBlockRepository(sql)
	ctx := context.Background()

	height := 168
	c := &domain.Companion{
		AuthID: "user_c", Slug: "lucia-sevilla", Name: "Lucia", Age: 29,
		City: "Sevilla", CitySlug: "sevilla", PricePerHour: 150,
		Characteristics: domain.Characteristics{HeightCM: &height, Ethnicity: "caucasica"},
	}
	require.NoError(t, companions.Create(ctx, c))
	assert.ErrorIs(t, companions.Create(ctx, &domain.Companion{AuthID: "user_c", Slug: "other", Name: "X", Age: 30, City: "Sevilla", CitySlug: "sevilla"}), domain.ErrConflict)

	for _, dt := range []domain.DocumentType{domain.DocumentVerificationVideo, domain.DocumentPassport} {
		require.NoError(t, docs.Create(ctx, &domain.Document{AuthID: "user_c", CompanionID: c.ID, Type: dt, StoragePath: "k", PublicURL: "u"}))
	}
	types, err := docs.TypesByAuthID(ctx, "user_c")
	require.NoError(t, err)
	assert.True(t, domain.HasRequiredUploads(types))

	pending, err := companions.ListPendingVerification(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)

	require.NoError(t, companions.SetVerified(ctx, c.ID, true, "ok", time.Now()))
	pending, err = companions.ListPendingVerification(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)

	require.NoError(t, blocks.Block(ctx, c.ID, "viewer_x"))
	_, err = companions.GetBySlug(ctx, "lucia-sevilla", "viewer_x")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	got, err := companions.GetBySlug(ctx, "lucia-sevilla", "viewer_y")
	require.NoError(t, err)
	assert.True(t, got.Verified)

	list, err := companions.List(ctx, domain.CompanionFilter{CitySlug: "sevilla", VerifiedOnly: true})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
