package changelog

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestDB attempts to connect to a PostgreSQL database for testing.
// It skips the test if the connection cannot be established.
func setupTestDB(t testing.TB) *sql.DB {
	t.Helper()

	pgUser := os.Getenv("PGUSER")
	pgPassword := os.Getenv("PGPASSWORD")
	pgHost := os.Getenv("PGHOST")
	pgPort := os.Getenv("PGPORT")
	pgDB := os.Getenv("PGDATABASE")

	if pgUser == "" {
		pgUser = "user"
	}
	if pgPassword == "" {
		pgPassword = "password"
	}
	if pgHost == "" {
		pgHost = "localhost"
	}
	if pgPort == "" {
		pgPort = "5432"
	}
	if pgDB == "" {
		pgDB = "testdb"
	}

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		pgHost, pgPort, pgUser, pgPassword, pgDB)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open database connection: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("skipping changelog tests: could not connect to postgres: %v", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS status_changes (
			id BIGSERIAL PRIMARY KEY,
			vehicle_id UUID NOT NULL,
			seq INT NOT NULL,
			old_status TEXT NOT NULL,
			new_status TEXT NOT NULL,
			vendor_id UUID,
			source TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			UNIQUE (vehicle_id, seq)
		)
	`)
	require.NoError(t, err)

	return db
}

func TestAppendAndHistory(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	log := NewLog(db)
	ctx := context.Background()
	vehicleID := uuid.New()
	vendorID := uuid.New()

	require.NoError(t, log.Append(ctx, Entry{
		VehicleID: vehicleID,
		OldStatus: "available",
		NewStatus: "reserved",
		VendorID:  &vendorID,
		Source:    "inventory",
	}))
	require.NoError(t, log.Append(ctx, Entry{
		VehicleID: vehicleID,
		OldStatus: "reserved",
		NewStatus: "negotiating",
		VendorID:  &vendorID,
		Source:    "inventory",
	}))

	history, err := log.History(ctx, vehicleID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 1, history[0].Seq)
	assert.Equal(t, 2, history[1].Seq)
	assert.Equal(t, "reserved", history[0].NewStatus)
	assert.Equal(t, "negotiating", history[1].NewStatus)

	latest, err := log.Latest(ctx, vehicleID)
	require.NoError(t, err)
	assert.Equal(t, "negotiating", latest.NewStatus)
}

func TestLatestWithoutHistory(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	log := NewLog(db)
	_, err := log.Latest(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestStreamCrossesVehicles(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	log := NewLog(db)
	ctx := context.Background()

	a, b := uuid.New(), uuid.New()
	require.NoError(t, log.Append(ctx, Entry{VehicleID: a, OldStatus: "available", NewStatus: "reserved", Source: "inventory"}))
	require.NoError(t, log.Append(ctx, Entry{VehicleID: b, OldStatus: "available", NewStatus: "reserved", Source: "inventory"}))

	entries, err := log.Stream(ctx, 0, 100)
	require.NoError(t, err)

	seen := map[uuid.UUID]bool{}
	for _, e := range entries {
		seen[e.VehicleID] = true
	}
	assert.True(t, seen[a])
	assert.True(t, seen[b])
}
