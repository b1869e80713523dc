package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"realestatecrm/internal/common"
	"realestatecrm/internal/database"
	"realestatecrm/internal/logging"
	"realestatecrm/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file:"+uuid.New().String()+"?mode=memory&cache=shared", logging.Discard())
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	t.Cleanup(func() { _ = database.Close(db) })
	return db
}

func strPtr(s string) *string { return &s }

func TestGORMListingRepository_CreateAndGet(t *testing.T) {
	repo := NewGORMListingRepository(newTestDB(t))
	ctx := context.Background()

	listing := &models.Listing{ID: "client-chosen", Title: "  Flat  ", Price: 50000, City: "Lviv"}
	require.NoError(t, repo.Create(ctx, listing))

	assert.NotEqual(t, "client-chosen", listing.ID)
	assert.Equal(t, "Flat", listing.Title)
	assert.Equal(t, models.ListingAvailable, listing.Status)
	assert.False(t, listing.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, "Flat", got.Title)
	assert.Equal(t, []string{}, got.ImageURLs)
}

func TestGORMListingRepository_CreateRejectsInvalid(t *testing.T) {
	repo := NewGORMListingRepository(newTestDB(t))

	err := repo.Create(context.Background(), &models.Listing{Title: "  ", Price: 1})
	require.ErrorIs(t, err, common.ErrValidation)

	all, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestGORMListingRepository_GetAllNewestFirst(t *testing.T) {
	repo := NewGORMListingRepository(newTestDB(t))
	ctx := context.Background()

	for _, title := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(ctx, &models.Listing{Title: title}))
		time.Sleep(2 * time.Millisecond)
	}

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Title)
	assert.Equal(t, "first", all[2].Title)
}

func TestGORMListingRepository_GetByIDNotFound(t *testing.T) {
	repo := NewGORMListingRepository(newTestDB(t))

	_, err := repo.GetByID(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGORMListingRepository_UpdateKeepsCreatedAt(t *testing.T) {
	repo := NewGORMListingRepository(newTestDB(t))
	ctx := context.Background()

	listing := &models.Listing{Title: "House", Price: 100, City: "Kyiv"}
	require.NoError(t, repo.Create(ctx, listing))

	forged := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	price := 250.0
	sold := models.ListingSold
	updated, err := repo.Update(ctx, listing.ID, models.ListingPatch{
		Title:     strPtr("House with garden"),
		Price:     &price,
		Status:    &sold,
		CreatedAt: &forged,
	})
	require.NoError(t, err)
	assert.Equal(t, "House with garden", updated.Title)

	got, err := repo.GetByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, 250.0, got.Price)
	assert.Equal(t, models.ListingSold, got.Status)
	assert.Equal(t, "Kyiv", got.City)
	assert.WithinDuration(t, listing.CreatedAt, got.CreatedAt, time.Millisecond)
}

func TestGORMListingRepository_UpdateErrors(t *testing.T) {
	repo := NewGORMListingRepository(newTestDB(t))
	ctx := context.Background()

	_, err := repo.Update(ctx, uuid.New().String(), models.ListingPatch{Title: strPtr("x")})
	assert.ErrorIs(t, err, common.ErrNotFound)

	listing := &models.Listing{Title: "Room"}
	require.NoError(t, repo.Create(ctx, listing))

	negative := -5.0
	_, err = repo.Update(ctx, listing.ID, models.ListingPatch{Price: &negative})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestGORMListingRepository_AppendImageURLs(t *testing.T) {
	repo := NewGORMListingRepository(newTestDB(t))
	ctx := context.Background()

	listing := &models.Listing{Title: "Loft"}
	require.NoError(t, repo.Create(ctx, listing))

	_, err := repo.AppendImageURLs(ctx, listing.ID, []string{"/uploads/a.jpg"})
	require.NoError(t, err)
	updated, err := repo.AppendImageURLs(ctx, listing.ID, []string{"/uploads/b.jpg", "/uploads/c.png"})
	require.NoError(t, err)
	assert.Equal(t, []string{"/uploads/a.jpg", "/uploads/b.jpg", "/uploads/c.png"}, updated.ImageURLs)

	got, err := repo.GetByID(ctx, listing.ID)
	require.NoError(t, err)
	assert.Equal(t, updated.ImageURLs, got.ImageURLs)

	_, err = repo.AppendImageURLs(ctx, uuid.New().String(), []string{"/uploads/d.jpg"})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGORMListingRepository_Delete(t *testing.T) {
	repo := NewGORMListingRepository(newTestDB(t))
	ctx := context.Background()

	listing := &models.Listing{Title: "Garage"}
	require.NoError(t, repo.Create(ctx, listing))

	require.NoError(t, repo.Delete(ctx, listing.ID))
	_, err := repo.GetByID(ctx, listing.ID)
	assert.ErrorIs(t, err, common.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, listing.ID), common.ErrNotFound)
}

// A row that disappears between the read and the write surfaces as a conflict.
func TestGORMListingRepository_UpdateConflict(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	repo := NewGORMListingRepository(db)

	id := uuid.New().String()
	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "title", "description", "price", "area", "floor", "city", "street",
		"house_number", "status", "image_urls", "created_at", "updated_at",
	}).AddRow(id, "Flat", "", 100.0, 40.0, 2, "Lviv", "Main", "1", "Available", "[]", now, now)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "listings"`)).WillReturnRows(rows)
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "listings"`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "listings"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectRollback()

	_, err = repo.Update(context.Background(), id, models.ListingPatch{Title: strPtr("Flat 2")})
	assert.ErrorIs(t, err, common.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGORMClientRepository_Lifecycle(t *testing.T) {
	repo := NewGORMClientRepository(newTestDB(t))
	ctx := context.Background()

	client := &models.Client{Name: "Olena", Phone: "+380501112233", Status: "Новий"}
	require.NoError(t, repo.Create(ctx, client))
	assert.Equal(t, models.DefaultClientStatus, client.Status)

	forged := time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Update(ctx, client.ID, models.ClientPatch{
		Status:        strPtr("In progress"),
		WorkerComment: strPtr("called twice"),
		CreatedAt:     &forged,
	}))

	got, err := repo.GetByID(ctx, client.ID)
	require.NoError(t, err)
	assert.Equal(t, "In progress", got.Status)
	assert.Equal(t, "called twice", got.WorkerComment)
	assert.Equal(t, "Olena", got.Name)
	assert.WithinDuration(t, client.CreatedAt, got.CreatedAt, time.Millisecond)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, repo.Delete(ctx, client.ID))
	assert.ErrorIs(t, repo.Delete(ctx, client.ID), common.ErrNotFound)
	assert.ErrorIs(t, repo.Update(ctx, client.ID, models.ClientPatch{}), common.ErrNotFound)
}

func TestGORMClientRepository_RequiresName(t *testing.T) {
	repo := NewGORMClientRepository(newTestDB(t))

	err := repo.Create(context.Background(), &models.Client{Phone: "123"})
	var vErr *common.ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "name", vErr.Field)
}

func TestGORMUserRepository_Lifecycle(t *testing.T) {
	repo := NewGORMUserRepository(newTestDB(t))
	ctx := context.Background()

	user := &models.User{Email: " Worker@Agency.UA ", PasswordHash: "hash", FullName: "Ivan"}
	require.NoError(t, repo.Create(ctx, user))
	assert.Equal(t, "worker@agency.ua", user.Email)
	assert.Equal(t, models.RoleWorker, user.Role)

	got, err := repo.GetByEmail(ctx, "WORKER@agency.ua")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	require.NoError(t, repo.UpdateAvatar(ctx, user.ID, "/uploads/avatars/avatar_x.png"))
	got, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/avatars/avatar_x.png", got.AvatarURL)

	assert.ErrorIs(t, repo.UpdateAvatar(ctx, uuid.New().String(), "x"), common.ErrNotFound)
	_, err = repo.GetByEmail(ctx, "nobody@agency.ua")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGORMUserRepository_DuplicateEmail(t *testing.T) {
	repo := NewGORMUserRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.User{Email: "a@agency.ua", PasswordHash: "h"}))
	err := repo.Create(ctx, &models.User{Email: "A@agency.ua", PasswordHash: "h"})
	assert.ErrorIs(t, err, common.ErrDuplicate)

	users, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
