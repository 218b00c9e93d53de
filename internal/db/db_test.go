package db

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/glebarez/sqlite"
	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"
	"github.com/redis/go-redis/v9"
	"github.com/storefront-auctions/backend/internal/config"
	"github.com/storefront-auctions/backend/internal/models"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func openSQLite(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormLogger.Default.LogMode(gormLogger.Silent),
	})
	assert.NoError(t, err)
	sqlDB, err := gdb.DB()
	assert.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return gdb
}

func TestMigrateAuctionTablesOnly(t *testing.T) {
	gdb := openSQLite(t)

	assert.NoError(t, Migrate(gdb, false))

	m := gdb.Migrator()
	check.True(t, m.HasTable(&models.Listing{}))
	check.True(t, m.HasTable(&models.Threshold{}))
	check.True(t, m.HasTable(&models.Bid{}))
	check.True(t, m.HasIndex(&models.Listing{}, "idx_auction_listings_product"))
	check.False(t, m.HasTable(&models.Product{}))
	check.False(t, m.HasTable(&models.Customer{}))
}

func TestMigrateWithCatalog(t *testing.T) {
	gdb := openSQLite(t)

	assert.NoError(t, Migrate(gdb, true))
	// Migrating twice is harmless
	assert.NoError(t, Migrate(gdb, true))

	check.True(t, gdb.Migrator().HasTable(&models.Product{}))
	check.True(t, gdb.Migrator().HasTable(&models.Customer{}))
}

func TestLogLevel(t *testing.T) {
	check.Equal(t, gormLogger.Info, LogLevel("development"))
	check.Equal(t, gormLogger.Warn, LogLevel("staging"))
	check.Equal(t, gormLogger.Silent, LogLevel("test"))
	check.Equal(t, gormLogger.Error, LogLevel("production"))
	check.Equal(t, gormLogger.Error, LogLevel(""))
}

func TestApplyRedisDefaultsKeepsExplicitValues(t *testing.T) {
	opt := &redis.Options{PoolSize: 50, ReadTimeout: time.Second}
	applyRedisDefaults(opt)

	check.Equal(t, 50, opt.PoolSize)
	check.Equal(t, time.Second, opt.ReadTimeout)
	check.Equal(t, 5*time.Second, opt.DialTimeout)
	check.Equal(t, 2, opt.MaxRetries)
}

func TestConnectRedis(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	defer mr.Close()

	client, err := ConnectRedis(&config.Config{Redis: config.RedisConfig{URL: "redis://" + mr.Addr()}})
	assert.NoError(t, err)
	defer client.Close()

	check.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	check.True(t, mr.Exists("k"))
}

func TestConnectRedisUnreachable(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)
	addr := mr.Addr()
	mr.Close()

	client, err := ConnectRedis(&config.Config{Redis: config.RedisConfig{URL: "redis://" + addr}})
	check.Error(t, err)
	check.True(t, client == nil)
}

func TestConnectOptionalRedis(t *testing.T) {
	mr, err := miniredis.Run()
	assert.NoError(t, err)

	client := ConnectOptionalRedis(&config.Config{Redis: config.RedisConfig{URL: "redis://" + mr.Addr()}})
	assert.True(t, client != nil)
	check.NoError(t, client.Ping(context.Background()).Err())
	_ = client.Close()

	// Redis going away degrades to a nil client instead of failing
	mr.Close()
	client = ConnectOptionalRedis(&config.Config{Redis: config.RedisConfig{URL: "redis://" + mr.Addr()}})
	check.True(t, client == nil)
}

func TestConnectNATSDisabled(t *testing.T) {
	conn, err := ConnectNATS(&config.Config{})
	check.NoError(t, err)
	check.True(t, conn == nil)
}
