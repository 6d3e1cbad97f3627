package types

import (
	"context"
	"time"
)

type GeoPoint struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

type OpeningTime struct {
	Days    string `json:"days"`
	Opening string `json:"opening,omitempty"`
	Closing string `json:"closing,omitempty"`
	Closed  bool   `json:"closed"`
}

type Review struct {
	ID         string    `json:"_id"`
	Author     string    `json:"author"`
	Rating     int       `json:"rating"`
	CreatedOn  time.Time `json:"createdOn"`
	ReviewText string    `json:"reviewText,omitempty"`
}

// Location is one document in the store. ID and DistanceMiles are not part
// of the stored source: ID comes from the document id, DistanceMiles from
// the geo sort of a nearby query.
type Location struct {
	ID            string        `json:"_id,omitempty"`
	Name          string        `json:"name"`
	Address       string        `json:"address,omitempty"`
	Rating        int           `json:"rating"`
	Facilities    []string      `json:"facilities"`
	Coords        GeoPoint      `json:"coords"`
	OpeningTimes  []OpeningTime `json:"openingTimes,omitempty"`
	Reviews       []Review      `json:"reviews,omitempty"`
	DistanceMiles float64       `json:"distanceMiles,omitempty"`
}

// LocationForm carries the already-parsed fields a create or update may set.
// Rating and reviews are derived and never taken from a form.
type LocationForm struct {
	Name         string
	Address      string
	Facilities   []string
	Coords       GeoPoint
	OpeningTimes []OpeningTime
}

func (f LocationForm) Validate() error {
	if f.Name == "" {
		return &ValidationError{Reason: "name is required"}
	}
	if len(f.OpeningTimes) > 3 {
		return &ValidationError{Reason: "at most 3 opening time entries are allowed"}
	}
	return nil
}

type ReviewForm struct {
	Author     string
	Rating     int
	ReviewText string
}

func (f ReviewForm) Validate() error {
	if f.Author == "" {
		return &ValidationError{Reason: "author is required"}
	}
	if f.Rating < 0 || f.Rating > 5 {
		return &ValidationError{Reason: "rating must be between 0 and 5"}
	}
	return nil
}

// LocationStore is the seam between the handlers and the document store.
type LocationStore interface {
	GetNearbyLocations(ctx context.Context, lng, lat float64) ([]Location, error)
	CreateLocation(ctx context.Context, form LocationForm) (string, error)
	GetLocation(ctx context.Context, id string) (*Location, error)
	UpdateLocation(ctx context.Context, id string, form LocationForm) (*Location, error)
	DeleteLocation(ctx context.Context, id string) error

	AddReview(ctx context.Context, locationID string, form ReviewForm) (*Review, error)
	GetReview(ctx context.Context, locationID, reviewID string) (*Location, *Review, error)
	UpdateReview(ctx context.Context, locationID, reviewID string, form ReviewForm) (*Review, error)
	DeleteReview(ctx context.Context, locationID, reviewID string) error
}
