package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		wallet_address TEXT NOT NULL UNIQUE,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createCredentialTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE zk_credentials (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		nullifier_hash TEXT NOT NULL UNIQUE,
		issuer TEXT NOT NULL,
		is_revoked BOOLEAN NOT NULL DEFAULT 0,
		verified_at DATETIME NOT NULL
	);`)
}

func createCreatorTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE creators (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		display_name TEXT,
		bio TEXT,
		profile_image_url TEXT,
		is_verified BOOLEAN NOT NULL DEFAULT 0,
		verification_tx_hash TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE creator_links (
		id TEXT PRIMARY KEY,
		creator_id TEXT NOT NULL,
		platform TEXT NOT NULL,
		url TEXT NOT NULL,
		created_at DATETIME
	);`)
}

func createSubscriptionTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE subscriptions (
		id TEXT PRIMARY KEY,
		subscriber_user_id TEXT NOT NULL,
		creator_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		token_address TEXT NOT NULL,
		interval_seconds INTEGER NOT NULL,
		next_payment_at DATETIME NOT NULL,
		is_active BOOLEAN NOT NULL DEFAULT 1,
		onchain_subscription_id TEXT NOT NULL UNIQUE,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE subscription_payments (
		id TEXT PRIMARY KEY,
		subscription_id TEXT NOT NULL,
		tx_hash TEXT NOT NULL UNIQUE,
		amount TEXT NOT NULL,
		executed_at DATETIME NOT NULL,
		executor_address TEXT,
		status TEXT NOT NULL,
		fail_reason TEXT
	);`)
}

func createTipAndWithdrawalTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE tips (
		id TEXT PRIMARY KEY,
		from_user_id TEXT NOT NULL,
		creator_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		token_address TEXT NOT NULL,
		tx_hash TEXT NOT NULL UNIQUE,
		created_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE withdrawals (
		id TEXT PRIMARY KEY,
		creator_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		token_address TEXT NOT NULL,
		tx_hash TEXT NOT NULL UNIQUE,
		requested_at DATETIME NOT NULL
	);`)
}

func createEventTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE events (
		id TEXT PRIMARY KEY,
		user_id TEXT,
		event_type TEXT NOT NULL,
		metadata TEXT DEFAULT '{}',
		created_at DATETIME
	);`)
}
