package services

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/peterldowns/testy/assert"
	"github.com/shopspring/decimal"
	"github.com/storefront-auctions/backend/internal/config"
	"github.com/storefront-auctions/backend/internal/db"
	"github.com/storefront-auctions/backend/internal/models"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

var baseTime = time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func testAuctionConfig() config.AuctionConfig {
	return config.AuctionConfig{
		DefaultDuration: 7 * 24 * time.Hour,
		MinBid:          decimal.RequireFromString("0.05"),
		MaxTxRetries:    3,
	}
}

// newTestDB opens a private in-memory SQLite database with the auction and
// catalog tables migrated. A single connection keeps the database alive.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  gormLogger.Default.LogMode(gormLogger.Silent),
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	assert.NoError(t, err)

	sqlDB, err := gdb.DB()
	assert.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	assert.NoError(t, db.Migrate(gdb, true))
	return gdb
}

type fixture struct {
	db         *gorm.DB
	clock      *testClock
	listings   *ListingService
	bids       *BidService
	reconciler *Reconciler
	events     *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	gdb := newTestDB(t)
	clock := &testClock{now: baseTime}
	events := &recordingPublisher{}

	listings := NewListingService(gdb, nil, testAuctionConfig())
	listings.Now = clock.Now
	bids := NewBidService(gdb, testAuctionConfig(), events)
	bids.Now = clock.Now
	reconciler := NewReconciler(gdb, nil, false)
	reconciler.Now = clock.Now

	return &fixture{
		db:         gdb,
		clock:      clock,
		listings:   listings,
		bids:       bids,
		reconciler: reconciler,
		events:     events,
	}
}

func (f *fixture) seedProduct(t *testing.T, id int, listPrice string, makeFlag bool) models.Product {
	t.Helper()
	product := models.Product{
		ProductID:     id,
		Name:          "Product",
		ListPrice:     decimal.RequireFromString(listPrice),
		MakeFlag:      makeFlag,
		SellStartDate: baseTime.AddDate(-1, 0, 0),
	}
	assert.NoError(t, f.db.Create(&product).Error)
	return product
}

// list creates a listing with an explicit opening price, so MaxBid is known
func (f *fixture) list(t *testing.T, productID int, initialBidPrice string) {
	t.Helper()
	price := decimal.RequireFromString(initialBidPrice)
	_, err := f.listings.CreateListing(context.Background(), CreateListingParams{
		ProductID:       productID,
		InitialBidPrice: &price,
	})
	assert.NoError(t, err)
}

func (f *fixture) bid(t *testing.T, productID, customerID int, amount string) models.Bid {
	t.Helper()
	value := decimal.RequireFromString(amount)
	res, err := f.bids.PlaceBid(context.Background(), PlaceBidParams{
		ProductID:  productID,
		CustomerID: customerID,
		BidAmount:  &value,
	})
	assert.NoError(t, err)
	return res.Bid
}

func (f *fixture) loadBid(t *testing.T, bidID uint64) models.Bid {
	t.Helper()
	var bid models.Bid
	assert.NoError(t, f.db.Where("bid_id = ?", bidID).First(&bid).Error)
	return bid
}

func (f *fixture) loadListing(t *testing.T, productID int) models.Listing {
	t.Helper()
	var listing models.Listing
	assert.NoError(t, f.db.Where("product_id = ?", productID).First(&listing).Error)
	return listing
}

func (f *fixture) count(t *testing.T, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	assert.NoError(t, f.db.Model(model).Where(query, args...).Count(&n).Error)
	return n
}

func checkDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Errorf("expected %s, got %s", want, got.String())
	}
}

func checkTime(t *testing.T, want, got time.Time) {
	t.Helper()
	if !want.Equal(got) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

type recordingPublisher struct {
	events []models.BidEvent
}

func (p *recordingPublisher) PublishBidAccepted(_ context.Context, event models.BidEvent) error {
	p.events = append(p.events, event)
	return nil
}
