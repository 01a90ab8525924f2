package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sokastore/sokastore-backend/internal/catalog"
	"github.com/sokastore/sokastore-backend/pkg/db/models"
	"github.com/sokastore/sokastore-backend/pkg/enums"
	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
)

type gormTxRunner struct {
	db *gorm.DB
}

func (g gormTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(
		&models.Product{},
		&models.ProductImage{},
		&models.Cart{},
		&models.CartItem{},
	))
	return gdb
}

func newTestService(t *testing.T) (Service, *Repository, *gorm.DB) {
	t.Helper()
	gdb := newTestDB(t)
	repo := NewRepository(gdb)
	svc, err := NewService(repo, catalog.NewRepository(gdb), gormTxRunner{db: gdb})
	require.NoError(t, err)
	return svc, repo, gdb
}

func seedProduct(t *testing.T, gdb *gorm.DB, mutate func(*models.Product)) *models.Product {
	t.Helper()
	product := &models.Product{
		Name:     "Home Jersey 2025",
		Price:    decimal.RequireFromString("59.99"),
		IsActive: true,
	}
	if mutate != nil {
		mutate(product)
	}
	require.NoError(t, gdb.Create(product).Error)
	return product
}

func strptr(s string) *string { return &s }

func TestAddItem_SameVariantMergesQuantities(t *testing.T) {
	svc, _, gdb := newTestService(t)
	product := seedProduct(t, gdb, func(p *models.Product) {
		p.HasCustomization = true
	})
	userID := uuid.New()
	ctx := context.Background()

	input := AddItemInput{
		ProductID:     product.ID,
		Quantity:      1,
		Size:          strptr("L"),
		Customization: strptr("KIPCHOGE 42"),
	}
	_, err := svc.AddItem(ctx, userID, input)
	require.NoError(t, err)

	input.Quantity = 3
	view, err := svc.AddItem(ctx, userID, input)
	require.NoError(t, err)

	require.Len(t, view.Items, 1)
	require.Equal(t, 4, view.Items[0].Quantity)
	require.True(t, view.TotalAmount.Equal(decimal.RequireFromString("239.96")))
}

func TestAddItem_DifferentCustomizationSplitsLines(t *testing.T) {
	svc, _, gdb := newTestService(t)
	product := seedProduct(t, gdb, func(p *models.Product) {
		p.HasCustomization = true
	})
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, userID, AddItemInput{
		ProductID:     product.ID,
		Quantity:      1,
		Size:          strptr("L"),
		Customization: strptr("KIPCHOGE 42"),
	})
	require.NoError(t, err)

	view, err := svc.AddItem(ctx, userID, AddItemInput{
		ProductID:     product.ID,
		Quantity:      1,
		Size:          strptr("L"),
		Customization: strptr("WANJIRU 7"),
	})
	require.NoError(t, err)
	require.Len(t, view.Items, 2)
}

func TestAddItem_SnapshotsPriceAtAddTime(t *testing.T) {
	svc, _, gdb := newTestService(t)
	product := seedProduct(t, gdb, nil)
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	require.NoError(t, gdb.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("price", decimal.RequireFromString("99.99")).Error)

	view, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.True(t, view.Items[0].Price.Equal(decimal.RequireFromString("59.99")))
	require.True(t, view.TotalAmount.Equal(decimal.RequireFromString("59.99")))
}

func TestAddItem_VersionedProductUsesVariantPrice(t *testing.T) {
	svc, _, gdb := newTestService(t)
	fan := decimal.RequireFromString("45.00")
	player := decimal.RequireFromString("80.00")
	product := seedProduct(t, gdb, func(p *models.Product) {
		p.HasVersions = true
		p.PriceFan = &fan
		p.PricePlayer = &player
	})
	userID := uuid.New()
	ctx := context.Background()

	view, err := svc.AddItem(ctx, userID, AddItemInput{
		ProductID: product.ID,
		Quantity:  2,
		Type:      strptr(string(enums.ProductVersionPlayer)),
	})
	require.NoError(t, err)
	require.True(t, view.Items[0].Price.Equal(player))
	require.True(t, view.TotalAmount.Equal(decimal.RequireFromString("160.00")))
}

func TestAddItem_RejectsCustomizationWhenUnsupported(t *testing.T) {
	svc, _, gdb := newTestService(t)
	product := seedProduct(t, gdb, nil)

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemInput{
		ProductID:     product.ID,
		Quantity:      1,
		Customization: strptr("ANY NAME"),
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestAddItem_InactiveProductNotFound(t *testing.T) {
	svc, _, gdb := newTestService(t)
	product := seedProduct(t, gdb, func(p *models.Product) {
		p.IsActive = false
	})

	_, err := svc.AddItem(context.Background(), uuid.New(), AddItemInput{
		ProductID: product.ID,
		Quantity:  1,
	})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestUpdateItemQuantity_BelowOneDeletesLine(t *testing.T) {
	svc, _, gdb := newTestService(t)
	product := seedProduct(t, gdb, nil)
	userID := uuid.New()
	ctx := context.Background()

	view, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	itemID := view.Items[0].ID

	view, err = svc.UpdateItemQuantity(ctx, userID, itemID, 0)
	require.NoError(t, err)
	require.Empty(t, view.Items)
	require.True(t, view.TotalAmount.IsZero())
}

func TestUpdateItemQuantity_ForbiddenForOtherUser(t *testing.T) {
	svc, _, gdb := newTestService(t)
	product := seedProduct(t, gdb, nil)
	owner := uuid.New()
	ctx := context.Background()

	view, err := svc.AddItem(ctx, owner, AddItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)

	_, err = svc.UpdateItemQuantity(ctx, uuid.New(), view.Items[0].ID, 5)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeForbidden, pkgerrors.CodeOf(err))
}

func TestUpdateItemQuantity_CompletedCartRejected(t *testing.T) {
	svc, repo, gdb := newTestService(t)
	product := seedProduct(t, gdb, nil)
	userID := uuid.New()
	ctx := context.Background()

	view, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: product.ID, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, repo.UpdateStatus(ctx, view.ID, enums.CartStatusCompleted))

	_, err = svc.UpdateItemQuantity(ctx, userID, view.Items[0].ID, 2)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeStateConflict, pkgerrors.CodeOf(err))
}

func TestRemoveItem_RecomputesTotal(t *testing.T) {
	svc, _, gdb := newTestService(t)
	first := seedProduct(t, gdb, nil)
	second := seedProduct(t, gdb, func(p *models.Product) {
		p.Name = "Away Jersey 2025"
		p.Price = decimal.RequireFromString("49.99")
	})
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: first.ID, Quantity: 1})
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: second.ID, Quantity: 1})
	require.NoError(t, err)
	require.Len(t, view.Items, 2)

	var removeID uuid.UUID
	for _, item := range view.Items {
		if item.ProductID == second.ID {
			removeID = item.ID
		}
	}

	view, err = svc.RemoveItem(ctx, userID, removeID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.True(t, view.TotalAmount.Equal(decimal.RequireFromString("59.99")))
}

func TestGetCart_HiddenProductOrphansLine(t *testing.T) {
	svc, _, gdb := newTestService(t)
	product := seedProduct(t, gdb, nil)
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)

	require.NoError(t, gdb.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("is_active", false).Error)

	view, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.True(t, view.Items[0].Orphaned)
	require.True(t, view.TotalAmount.IsZero())
}

func TestClearCart_EmptiesLinesAndTotal(t *testing.T) {
	svc, _, gdb := newTestService(t)
	product := seedProduct(t, gdb, nil)
	userID := uuid.New()
	ctx := context.Background()

	_, err := svc.AddItem(ctx, userID, AddItemInput{ProductID: product.ID, Quantity: 3})
	require.NoError(t, err)

	require.NoError(t, svc.ClearCart(ctx, userID))

	view, err := svc.GetCart(ctx, userID)
	require.NoError(t, err)
	require.Empty(t, view.Items)
	require.True(t, view.TotalAmount.IsZero())
}

func TestGetOrCreateActiveCart_ReusesExisting(t *testing.T) {
	svc, _, _ := newTestService(t)
	userID := uuid.New()
	ctx := context.Background()

	first, err := svc.GetOrCreateActiveCart(ctx, userID)
	require.NoError(t, err)
	second, err := svc.GetOrCreateActiveCart(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

func TestAddItem_ProductReadsShareTheTransaction(t *testing.T) {
	svc, _, gdb := newTestService(t)
	product := seedProduct(t, gdb, nil)
	ctx := context.Background()

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// Pin one connection so the shared in-memory database survives pool
	// churn, then force every later statement onto a fresh connection.
	pin, err := sqlDB.Conn(ctx)
	require.NoError(t, err)
	defer pin.Close()
	sqlDB.SetMaxIdleConns(0)

	view, err := svc.AddItem(ctx, uuid.New(), AddItemInput{ProductID: product.ID, Quantity: 2})
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	require.True(t, view.TotalAmount.Equal(decimal.RequireFromString("119.98")))
}

func TestLineHash_NormalizesWhitespaceAndNil(t *testing.T) {
	a := LineHash(strptr("L"), nil, strptr("KIPCHOGE 42"))
	b := LineHash(strptr(" L "), nil, strptr(" KIPCHOGE 42 "))
	require.Equal(t, a, b)

	c := LineHash(strptr("L"), nil, strptr("WANJIRU 7"))
	require.NotEqual(t, a, c)

	empty := LineHash(nil, nil, nil)
	alsoEmpty := LineHash(strptr(""), strptr(""), strptr(""))
	require.Equal(t, empty, alsoEmpty)
}
