package models

import (
	"fmt"
	"strings"
	"time"

	"realestatecrm/internal/common"

	"gorm.io/gorm"
)

// ListingStatus is the sale state of a listing.
type ListingStatus string

const (
	ListingAvailable ListingStatus = "Available"
	ListingReserved  ListingStatus = "Reserved"
	ListingSold      ListingStatus = "Sold"
)

// Labels accepted at the boundary, including the ones the web client sends.
var listingStatusLabels = map[string]ListingStatus{
	"available":    ListingAvailable,
	"reserved":     ListingReserved,
	"sold":         ListingSold,
	"доступно":     ListingAvailable,
	"заброньовано": ListingReserved,
	"продано":      ListingSold,
}

// ParseListingStatus converts an external label into a ListingStatus.
func ParseListingStatus(s string) (ListingStatus, error) {
	status, ok := listingStatusLabels[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", common.NewValidationError("status", fmt.Sprintf("unknown listing status %q", s))
	}
	return status, nil
}

func (s ListingStatus) Valid() bool {
	switch s {
	case ListingAvailable, ListingReserved, ListingSold:
		return true
	}
	return false
}

func (s ListingStatus) String() string { return string(s) }

// UnmarshalText lets JSON bodies and form values carry any accepted label.
func (s *ListingStatus) UnmarshalText(text []byte) error {
	if len(strings.TrimSpace(string(text))) == 0 {
		*s = ""
		return nil
	}
	status, err := ParseListingStatus(string(text))
	if err != nil {
		return err
	}
	*s = status
	return nil
}

// Listing is a real-estate object offered by the agency.
type Listing struct {
	ID          string        `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Title       string        `json:"title" gorm:"type:varchar(200);not null" validate:"required,max=200"`
	Description string        `json:"description,omitempty" gorm:"type:text"`
	Price       float64       `json:"price" gorm:"not null" validate:"gte=0"`
	Area        float64       `json:"area" gorm:"not null" validate:"gte=0"`
	Floor       int           `json:"floor"`
	City        string        `json:"city" gorm:"type:varchar(100);index" validate:"max=100"`
	Street      string        `json:"street" gorm:"type:varchar(200)" validate:"max=200"`
	HouseNumber string        `json:"houseNumber,omitempty" gorm:"type:varchar(20)" validate:"max=20"`
	Status      ListingStatus `json:"status" gorm:"type:varchar(20);not null;index" validate:"required,listing_status"`
	ImageURLs   []string      `json:"imageUrls" gorm:"serializer:json;type:text"`
	CreatedAt   time.Time     `json:"createdAt" gorm:"<-:create;not null;index"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// AfterFind keeps ImageURLs a non-nil slice for rows stored without photos.
func (l *Listing) AfterFind(tx *gorm.DB) error {
	if l.ImageURLs == nil {
		l.ImageURLs = []string{}
	}
	return nil
}

// ApplyCreateDefaults stamps server-side creation values, overriding
// whatever the caller supplied for them.
func (l *Listing) ApplyCreateDefaults(now time.Time) {
	l.Title = strings.TrimSpace(l.Title)
	if l.Status == "" {
		l.Status = ListingAvailable
	}
	if l.ImageURLs == nil {
		l.ImageURLs = []string{}
	}
	l.CreatedAt = now
	l.UpdatedAt = now
}

func (l *Listing) Validate() error {
	return ValidateStruct(l)
}

// ListingInput is the typed payload for creating a listing.
type ListingInput struct {
	Title       string        `json:"title" form:"title"`
	Description string        `json:"description" form:"description"`
	Price       float64       `json:"price" form:"price"`
	Area        float64       `json:"area" form:"area"`
	Floor       int           `json:"floor" form:"floor"`
	City        string        `json:"city" form:"city"`
	Street      string        `json:"street" form:"street"`
	HouseNumber string        `json:"houseNumber" form:"houseNumber"`
	Status      ListingStatus `json:"status" form:"status"`
}

func (in ListingInput) ToListing() *Listing {
	return &Listing{
		Title:       in.Title,
		Description: in.Description,
		Price:       in.Price,
		Area:        in.Area,
		Floor:       in.Floor,
		City:        in.City,
		Street:      in.Street,
		HouseNumber: in.HouseNumber,
		Status:      in.Status,
	}
}

// ListingPatch is a partial update. Nil fields are left untouched.
type ListingPatch struct {
	Title       *string        `json:"title" form:"title"`
	Description *string        `json:"description" form:"description"`
	Price       *float64       `json:"price" form:"price"`
	Area        *float64       `json:"area" form:"area"`
	Floor       *int           `json:"floor" form:"floor"`
	City        *string        `json:"city" form:"city"`
	Street      *string        `json:"street" form:"street"`
	HouseNumber *string        `json:"houseNumber" form:"houseNumber"`
	Status      *ListingStatus `json:"status" form:"status"`

	// CreatedAt is accepted so full-object payloads bind, but it is never written.
	CreatedAt *time.Time `json:"createdAt" form:"-"`
}

// Apply copies the mutable fields of the patch onto l.
func (p ListingPatch) Apply(l *Listing) {
	if p.Title != nil {
		l.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		l.Description = *p.Description
	}
	if p.Price != nil {
		l.Price = *p.Price
	}
	if p.Area != nil {
		l.Area = *p.Area
	}
	if p.Floor != nil {
		l.Floor = *p.Floor
	}
	if p.City != nil {
		l.City = *p.City
	}
	if p.Street != nil {
		l.Street = *p.Street
	}
	if p.HouseNumber != nil {
		l.HouseNumber = *p.HouseNumber
	}
	if p.Status != nil && *p.Status != "" {
		l.Status = *p.Status
	}
}

// ListingMutableColumns are the columns an update may write.
var ListingMutableColumns = []string{
	"title", "description", "price", "area", "floor",
	"city", "street", "house_number", "status", "updated_at",
}
