package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/sokastore/sokastore-backend/pkg/auth"
	"github.com/sokastore/sokastore-backend/pkg/config"
	"github.com/sokastore/sokastore-backend/pkg/db/models"
	"github.com/sokastore/sokastore-backend/pkg/enums"
	pkgerrors "github.com/sokastore/sokastore-backend/pkg/errors"
	"github.com/sokastore/sokastore-backend/pkg/pagination"
)

type fakeSessions struct {
	opened  map[string]string
	revoked []string
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{opened: map[string]string{}}
}

func (f *fakeSessions) Open(_ context.Context, accessID, userID string) error {
	f.opened[accessID] = userID
	return nil
}

func (f *fakeSessions) Revoke(_ context.Context, accessID string) error {
	f.revoked = append(f.revoked, accessID)
	delete(f.opened, accessID)
	return nil
}

func testConfigs() (config.JWTConfig, config.PasswordConfig) {
	jwtCfg := config.JWTConfig{
		Secret:            "test-secret",
		Issuer:            "sokastore",
		ExpirationMinutes: 60,
	}
	// Low-cost parameters keep hashing fast in tests.
	pwCfg := config.PasswordConfig{
		ArgonMemoryKB:    8,
		ArgonTime:        1,
		ArgonParallelism: 1,
		ArgonSaltLen:     16,
		ArgonKeyLen:      32,
	}
	return jwtCfg, pwCfg
}

func newTestService(t *testing.T) (Service, *fakeSessions, config.JWTConfig) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open("file:" + uuid.NewString() + "?mode=memory&cache=shared"), &gorm.Config{
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, gdb.AutoMigrate(&models.User{}))

	jwtCfg, pwCfg := testConfigs()
	sessions := newFakeSessions()
	svc, err := NewService(NewRepository(gdb), sessions, jwtCfg, pwCfg)
	require.NoError(t, err)
	return svc, sessions, jwtCfg
}

func registerInput() RegisterInput {
	return RegisterInput{
		Name:     "Amina Otieno",
		Email:    "amina@example.com",
		Phone:    "+254700111222",
		Password: "correct horse battery",
	}
}

func TestRegister_CreatesCustomerWithHashedPassword(t *testing.T) {
	svc, _, _ := newTestService(t)

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)
	require.Equal(t, enums.UserRoleCustomer, user.Role)
	require.Equal(t, "amina@example.com", user.Email)
	require.NotEqual(t, "correct horse battery", user.PasswordHash)
	require.Contains(t, user.PasswordHash, "$argon2id$")
}

func TestRegister_NormalizesEmailCase(t *testing.T) {
	svc, _, _ := newTestService(t)

	input := registerInput()
	input.Email = "Amina@Example.COM"
	user, err := svc.Register(context.Background(), input)
	require.NoError(t, err)
	require.Equal(t, "amina@example.com", user.Email)
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	dup := registerInput()
	dup.Phone = "+254700999888"
	_, err = svc.Register(ctx, dup)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeConflict, pkgerrors.CodeOf(err))
}

func TestRegister_RejectsWeakInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	short := registerInput()
	short.Password = "short"
	_, err := svc.Register(ctx, short)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))

	badEmail := registerInput()
	badEmail.Email = "not-an-email"
	_, err = svc.Register(ctx, badEmail)
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}

func TestLogin_MintsTokenAndOpensSession(t *testing.T) {
	svc, sessions, jwtCfg := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	result, err := svc.Login(ctx, LoginInput{
		Email:    "Amina@example.com",
		Password: "correct horse battery",
	})
	require.NoError(t, err)
	require.Equal(t, user.ID, result.User.ID)

	claims, err := auth.ParseAccessToken(jwtCfg, result.Token)
	require.NoError(t, err)
	require.Equal(t, user.ID, claims.UserID)
	require.Equal(t, enums.UserRoleCustomer, claims.Role)
	require.Equal(t, user.ID.String(), sessions.opened[claims.ID])
}

func TestLogin_WrongPasswordAndUnknownEmailReadAlike(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	_, wrongPw := svc.Login(ctx, LoginInput{Email: "amina@example.com", Password: "nope nope nope"})
	require.Error(t, wrongPw)
	require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(wrongPw))

	_, unknown := svc.Login(ctx, LoginInput{Email: "ghost@example.com", Password: "nope nope nope"})
	require.Error(t, unknown)
	require.Equal(t, pkgerrors.CodeUnauthorized, pkgerrors.CodeOf(unknown))
	require.Equal(t, wrongPw.Error(), unknown.Error())
}

func TestLogout_RevokesSession(t *testing.T) {
	svc, sessions, jwtCfg := newTestService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)
	result, err := svc.Login(ctx, LoginInput{Email: "amina@example.com", Password: "correct horse battery"})
	require.NoError(t, err)

	claims, err := auth.ParseAccessToken(jwtCfg, result.Token)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, claims.ID))
	require.Contains(t, sessions.revoked, claims.ID)
	require.NotContains(t, sessions.opened, claims.ID)
}

func TestGetUser_UnknownIDNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.GetUser(context.Background(), uuid.New())
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeNotFound, pkgerrors.CodeOf(err))
}

func TestListUsers_Paged(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	for i, email := range []string{"a@example.com", "b@example.com", "c@example.com"} {
		input := registerInput()
		input.Email = email
		input.Phone = input.Phone + string(rune('0'+i))
		_, err := svc.Register(ctx, input)
		require.NoError(t, err)
	}

	rows, meta, err := svc.ListUsers(ctx, pagination.Params{Page: 1, Limit: 2})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.EqualValues(t, 3, meta.Total)
	require.Equal(t, 2, meta.TotalPages)
}

func TestUpdateProfile_EditsNameAndPhone(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	user, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	name := "Amina A. Otieno"
	phone := "+254711000111"
	updated, err := svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{Name: &name, Phone: &phone})
	require.NoError(t, err)
	require.Equal(t, name, updated.Name)
	require.Equal(t, phone, updated.Phone)

	_, err = svc.UpdateProfile(ctx, user.ID, UpdateProfileInput{})
	require.Error(t, err)
	require.Equal(t, pkgerrors.CodeValidation, pkgerrors.CodeOf(err))
}
