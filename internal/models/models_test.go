package models

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"realestatecrm/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseListingStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    ListingStatus
		wantErr bool
	}{
		{"Available", ListingAvailable, false},
		{" sold ", ListingSold, false},
		{"Заброньовано", ListingReserved, false},
		{"Доступно", ListingAvailable, false},
		{"archived", "", true},
	}
	for _, tc := range tests {
		got, err := ParseListingStatus(tc.in)
		if tc.wantErr {
			assert.ErrorIs(t, err, common.ErrValidation, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}
}

func TestListingStatus_UnmarshalJSONLabel(t *testing.T) {
	var in ListingInput
	require.NoError(t, json.Unmarshal([]byte(`{"title":"Flat","status":"Продано"}`), &in))
	assert.Equal(t, ListingSold, in.Status)

	err := json.Unmarshal([]byte(`{"status":"gone"}`), &in)
	assert.Error(t, err)
}

func TestListing_ApplyCreateDefaults(t *testing.T) {
	supplied := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	l := &Listing{Title: "  Sunny Flat ", CreatedAt: supplied}

	l.ApplyCreateDefaults(now)

	assert.Equal(t, "Sunny Flat", l.Title)
	assert.Equal(t, ListingAvailable, l.Status)
	assert.Equal(t, now, l.CreatedAt)
	assert.NotNil(t, l.ImageURLs)
	assert.NoError(t, l.Validate())
}

func TestListing_ValidateReportsField(t *testing.T) {
	l := &Listing{Title: "   ", Status: ListingAvailable}
	l.ApplyCreateDefaults(time.Now())

	err := l.Validate()
	var ve *common.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "title", ve.Field)

	l = &Listing{Title: "Flat", Price: -1, Status: ListingAvailable}
	err = l.Validate()
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "price", ve.Field)

	l = &Listing{Title: "Flat", Status: "Gone"}
	err = l.Validate()
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "status", ve.Field)
}

func TestListingPatch_ApplyIgnoresCreatedAt(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	l := &Listing{Title: "Old", Price: 10, Status: ListingAvailable, CreatedAt: created, ImageURLs: []string{"/uploads/a.jpg"}}

	title := "New"
	price := 20.5
	sold := ListingSold
	other := created.Add(48 * time.Hour)
	ListingPatch{Title: &title, Price: &price, Status: &sold, CreatedAt: &other}.Apply(l)

	assert.Equal(t, "New", l.Title)
	assert.Equal(t, 20.5, l.Price)
	assert.Equal(t, ListingSold, l.Status)
	assert.Equal(t, created, l.CreatedAt)
	assert.Equal(t, []string{"/uploads/a.jpg"}, l.ImageURLs)
}

func TestClient_ApplyCreateDefaults(t *testing.T) {
	c := &Client{Name: "Olena"}
	c.ApplyCreateDefaults(time.Now())
	assert.Equal(t, DefaultClientStatus, c.Status)

	c = &Client{Name: "Taras", Status: "Новий"}
	c.ApplyCreateDefaults(time.Now())
	assert.Equal(t, DefaultClientStatus, c.Status)

	c = &Client{Name: "Iryna", Status: "Active"}
	c.ApplyCreateDefaults(time.Now())
	assert.Equal(t, "Active", c.Status)

	c = &Client{Name: " "}
	c.ApplyCreateDefaults(time.Now())
	assert.ErrorIs(t, c.Validate(), common.ErrValidation)
}

func TestParseRole(t *testing.T) {
	role, err := ParseRole("Керівник")
	require.NoError(t, err)
	assert.Equal(t, RoleCEO, role)

	_, err = ParseRole("intern")
	assert.ErrorIs(t, err, common.ErrValidation)

	u := &User{Email: " Anna@Example.COM ", PasswordHash: "x"}
	u.ApplyCreateDefaults(time.Now())
	assert.Equal(t, "anna@example.com", u.Email)
	assert.Equal(t, RoleWorker, u.Role)
	assert.NoError(t, u.Validate())
}
