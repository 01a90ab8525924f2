package badges

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sokastore/sokastore-backend/pkg/db/models"
	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.Badge{}))

	svc, err := NewService(NewRepository(gdb))
	require.NoError(t, err)
	return svc
}

func strptr(s string) *string { return &s }

func TestCreateBadge_DuplicateNameConflicts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	badge, err := svc.CreateBadge(ctx, CreateBadgeInput{
		Name: "Limited Edition",
		Icon: strptr("star"),
	})
	require.NoError(t, err)
	require.Equal(t, "Limited Edition", badge.Name)

	_, err = svc.CreateBadge(ctx, CreateBadgeInput{Name: "Limited Edition"})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))
}

func TestCreateBadge_RequiresName(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateBadge(context.Background(), CreateBadgeInput{Name: "   "})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestUpdateBadge_EditsFields(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	badge, err := svc.CreateBadge(ctx, CreateBadgeInput{Name: "New Arrival"})
	require.NoError(t, err)

	updated, err := svc.UpdateBadge(ctx, badge.ID, UpdateBadgeInput{
		Name:        strptr("Fresh Drop"),
		Description: strptr("Just landed in the store"),
	})
	require.NoError(t, err)
	require.Equal(t, "Fresh Drop", updated.Name)
	require.Equal(t, "Just landed in the store", *updated.Description)
}

func TestUpdateBadge_RenameIntoExistingConflicts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.CreateBadge(ctx, CreateBadgeInput{Name: "Limited Edition"})
	require.NoError(t, err)
	other, err := svc.CreateBadge(ctx, CreateBadgeInput{Name: "New Arrival"})
	require.NoError(t, err)

	_, err = svc.UpdateBadge(ctx, other.ID, UpdateBadgeInput{Name: strptr("Limited Edition")})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))
}

func TestListBadges_OrderedByName(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, name := range []string{"Top Seller", "Limited Edition", "New Arrival"} {
		_, err := svc.CreateBadge(ctx, CreateBadgeInput{Name: name})
		require.NoError(t, err)
	}

	badges, err := svc.ListBadges(ctx)
	require.NoError(t, err)
	require.Len(t, badges, 3)
	require.Equal(t, "Limited Edition", badges[0].Name)
	require.Equal(t, "New Arrival", badges[1].Name)
	require.Equal(t, "Top Seller", badges[2].Name)
}

func TestDeleteBadge_MissingNotFound(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	badge, err := svc.CreateBadge(ctx, CreateBadgeInput{Name: "Limited Edition"})
	require.NoError(t, err)
	require.NoError(t, svc.DeleteBadge(ctx, badge.ID))

	err = svc.DeleteBadge(ctx, badge.ID)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))

	err = svc.DeleteBadge(ctx, uuid.New())
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}
