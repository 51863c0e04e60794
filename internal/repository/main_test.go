package repository

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/MukkuChemjong/youtube-api/internal/db"
	"github.com/MukkuChemjong/youtube-api/internal/model"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("whitelist"),
		postgres.WithUsername("whitelist"),
		postgres.WithPassword("password"),
		postgres.BasicWaitStrategies(),
	)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		return
	}

	defer func() {
		if err := container.Terminate(ctx); err != nil {
			log.Printf("failed to terminate container: %s", err)
		}
	}()

	connStr, err := container.ConnectionString(ctx, "sslmode=disable", "application_name=test")
	if err != nil {
		log.Fatalf("failed to get connection string: %v", err)
	}

	testPool, err = pgxpool.New(ctx, connStr)
	if err != nil {
		log.Fatalf("failed to create pool: %v", err)
	}

	if err := db.ApplySchema(ctx, testPool); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}

	code := m.Run()

	testPool.Close()
	os.Exit(code)
}

// cleanTables truncates all stores after the test so cases stay independent.
func cleanTables(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		_, err := testPool.Exec(context.Background(),
			`TRUNCATE channel_records, categories, category_members, user_preferences, sync_logs RESTART IDENTITY CASCADE`)
		require.NoError(t, err)
	})
}

// mustAddChannel inserts an active-or-not record and fails the test on error.
func mustAddChannel(t *testing.T, repo *ChannelRepo, owner, channelID string, active bool) *model.ChannelRecord {
	t.Helper()
	rec, err := repo.Add(context.Background(), owner, model.AddChannelRequest{
		ChannelID:   channelID,
		ChannelName: channelID + " name",
		IsActive:    active,
	})
	require.NoError(t, err)
	return rec
}
