package handlers

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"loc8r/src/types"
)

// fakeStore mirrors the ElasticStore contract in memory: same validation,
// same not-found messages, same rating recomputation.
type fakeStore struct {
	locations map[string]*types.Location
	nextID    int
	failing   bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{locations: make(map[string]*types.Location)}
}

func (s *fakeStore) storeFailure() error {
	return &types.StoreError{Op: "fake", Err: fmt.Errorf("store unreachable")}
}

func (s *fakeStore) GetNearbyLocations(_ context.Context, lng, lat float64) ([]types.Location, error) {
	if s.failing {
		return nil, &types.QueryError{Err: fmt.Errorf("search failed")}
	}

	var out []types.Location
	for id, loc := range s.locations {
		copied := *loc
		copied.ID = id
		copied.DistanceMiles = milesBetween(lng, lat, loc.Coords)
		out = append(out, copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DistanceMiles < out[j].DistanceMiles })
	return out, nil
}

func (s *fakeStore) CreateLocation(_ context.Context, form types.LocationForm) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}
	if s.failing {
		return "", s.storeFailure()
	}

	s.nextID++
	id := fmt.Sprintf("loc-%d", s.nextID)
	s.locations[id] = &types.Location{
		Name:         form.Name,
		Address:      form.Address,
		Facilities:   form.Facilities,
		Coords:       form.Coords,
		OpeningTimes: form.OpeningTimes,
	}
	return id, nil
}

func (s *fakeStore) GetLocation(_ context.Context, id string) (*types.Location, error) {
	if s.failing {
		return nil, s.storeFailure()
	}
	loc, ok := s.locations[id]
	if !ok {
		return nil, &types.NotFoundError{Message: "location not found"}
	}
	copied := *loc
	copied.ID = id
	return &copied, nil
}

func (s *fakeStore) UpdateLocation(ctx context.Context, id string, form types.LocationForm) (*types.Location, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	loc, ok := s.locations[id]
	if !ok {
		return nil, &types.NotFoundError{Message: "location not found"}
	}

	loc.Name = form.Name
	loc.Address = form.Address
	loc.Facilities = form.Facilities
	loc.Coords = form.Coords
	loc.OpeningTimes = form.OpeningTimes

	copied := *loc
	copied.ID = id
	return &copied, nil
}

func (s *fakeStore) DeleteLocation(_ context.Context, id string) error {
	if s.failing {
		return s.storeFailure()
	}
	if _, ok := s.locations[id]; !ok {
		return &types.NotFoundError{Message: "location not found"}
	}
	delete(s.locations, id)
	return nil
}

func (s *fakeStore) AddReview(_ context.Context, locationID string, form types.ReviewForm) (*types.Review, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	loc, ok := s.locations[locationID]
	if !ok {
		return nil, &types.NotFoundError{Message: "Location was not found."}
	}

	s.nextID++
	review := types.Review{
		ID:         fmt.Sprintf("rev-%d", s.nextID),
		Author:     form.Author,
		Rating:     form.Rating,
		CreatedOn:  time.Now().UTC(),
		ReviewText: form.ReviewText,
	}
	loc.Reviews = append(loc.Reviews, review)
	s.recompute(loc)
	return &review, nil
}

func (s *fakeStore) GetReview(_ context.Context, locationID, reviewID string) (*types.Location, *types.Review, error) {
	loc, ok := s.locations[locationID]
	if !ok {
		return nil, nil, &types.NotFoundError{Message: "Location was not found."}
	}
	for i := range loc.Reviews {
		if loc.Reviews[i].ID == reviewID {
			copied := *loc
			copied.ID = locationID
			return &copied, &loc.Reviews[i], nil
		}
	}
	return nil, nil, &types.NotFoundError{Message: "Review was not found."}
}

func (s *fakeStore) UpdateReview(_ context.Context, locationID, reviewID string, form types.ReviewForm) (*types.Review, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}
	loc, ok := s.locations[locationID]
	if !ok {
		return nil, &types.NotFoundError{Message: "Location was not found."}
	}
	for i := range loc.Reviews {
		if loc.Reviews[i].ID == reviewID {
			loc.Reviews[i].Author = form.Author
			loc.Reviews[i].Rating = form.Rating
			loc.Reviews[i].ReviewText = form.ReviewText
			s.recompute(loc)
			return &loc.Reviews[i], nil
		}
	}
	return nil, &types.NotFoundError{Message: "Review was not found."}
}

func (s *fakeStore) DeleteReview(_ context.Context, locationID, reviewID string) error {
	loc, ok := s.locations[locationID]
	if !ok {
		return &types.NotFoundError{Message: "Location was not found."}
	}
	if len(loc.Reviews) == 0 {
		return &types.NotFoundError{Message: "There are no reviews for this location."}
	}
	for i := range loc.Reviews {
		if loc.Reviews[i].ID == reviewID {
			loc.Reviews = append(loc.Reviews[:i], loc.Reviews[i+1:]...)
			s.recompute(loc)
			return nil
		}
	}
	return &types.NotFoundError{Message: "Review was not found."}
}

func (s *fakeStore) recompute(loc *types.Location) {
	if len(loc.Reviews) == 0 {
		return
	}
	total := 0
	for _, r := range loc.Reviews {
		total += r.Rating
	}
	loc.Rating = total / len(loc.Reviews)
}

func milesBetween(lng, lat float64, p types.GeoPoint) float64 {
	const earthRadiusMiles = 3958.8
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }

	dLat := toRad(p.Lat - lat)
	dLon := toRad(p.Lon - lng)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat))*math.Cos(toRad(p.Lat))*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(a))
}
