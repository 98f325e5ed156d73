package db

import (
	"context"
	"testing"

	"github.com/ben-carson/SweatyDudesWorkingOut/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/pashagolub/pgxmock/v3"
)

func TestConnectPostgresInvalidURL(t *testing.T) {
	_, err := ConnectPostgres(config.Config{PostgresURL: "not-a-url"})
	if err == nil {
		t.Fatalf("expected error for invalid url")
	}
}

func TestConnectRedisEmptyAddr(t *testing.T) {
	if client := ConnectRedis(config.Config{}); client != nil {
		t.Fatalf("expected nil client without an address")
	}
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	client := ConnectRedis(config.Config{RedisAddr: mr.Addr()})
	if client == nil {
		t.Fatalf("expected a client")
	}
	defer client.Close()

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestMigrateAppliesSchema(t *testing.T) {
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("mock pool: %v", err)
	}
	defer mock.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS users`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	if err := Migrate(context.Background(), mock); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
