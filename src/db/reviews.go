package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"loc8r/src/types"
)

// Reviews live inside their location's document, so every mutation is a
// read-modify-write of the whole document. Concurrent writers race at the
// document level and the last one wins.

func (es *ElasticStore) AddReview(ctx context.Context, locationID string, form types.ReviewForm) (*types.Review, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	loc, err := es.getLocationForReviews(ctx, locationID)
	if err != nil {
		return nil, err
	}

	review := types.Review{
		ID:         uuid.NewString(),
		Author:     form.Author,
		Rating:     form.Rating,
		CreatedOn:  time.Now().UTC(),
		ReviewText: form.ReviewText,
	}
	loc.Reviews = append(loc.Reviews, review)

	if err := es.saveLocation(ctx, loc); err != nil {
		return nil, err
	}
	if err := es.updateAverageRating(ctx, loc); err != nil {
		return nil, err
	}
	return &review, nil
}

func (es *ElasticStore) GetReview(ctx context.Context, locationID, reviewID string) (*types.Location, *types.Review, error) {
	loc, err := es.getLocationForReviews(ctx, locationID)
	if err != nil {
		return nil, nil, err
	}

	review := findReview(loc.Reviews, reviewID)
	if review == nil {
		return nil, nil, &types.NotFoundError{Message: "Review was not found."}
	}
	return loc, review, nil
}

func (es *ElasticStore) UpdateReview(ctx context.Context, locationID, reviewID string, form types.ReviewForm) (*types.Review, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	loc, err := es.getLocationForReviews(ctx, locationID)
	if err != nil {
		return nil, err
	}

	review := findReview(loc.Reviews, reviewID)
	if review == nil {
		return nil, &types.NotFoundError{Message: "Review was not found."}
	}

	review.Author = form.Author
	review.Rating = form.Rating
	review.ReviewText = form.ReviewText

	if err := es.saveLocation(ctx, loc); err != nil {
		return nil, err
	}
	if err := es.updateAverageRating(ctx, loc); err != nil {
		return nil, err
	}
	return review, nil
}

func (es *ElasticStore) DeleteReview(ctx context.Context, locationID, reviewID string) error {
	loc, err := es.getLocationForReviews(ctx, locationID)
	if err != nil {
		return err
	}
	if len(loc.Reviews) == 0 {
		return &types.NotFoundError{Message: "There are no reviews for this location."}
	}

	reviews, removed := removeReview(loc.Reviews, reviewID)
	if !removed {
		return &types.NotFoundError{Message: "Review was not found."}
	}
	loc.Reviews = reviews

	if err := es.saveLocation(ctx, loc); err != nil {
		return err
	}
	return es.updateAverageRating(ctx, loc)
}

// updateAverageRating keeps the derived rating equal to the truncated mean
// of the current reviews. An empty review list leaves the rating alone.
func (es *ElasticStore) updateAverageRating(ctx context.Context, loc *types.Location) error {
	if len(loc.Reviews) == 0 {
		return nil
	}
	loc.Rating = averageRating(loc.Reviews)
	return es.saveLocation(ctx, loc)
}

func averageRating(reviews []types.Review) int {
	total := 0
	for _, r := range reviews {
		total += r.Rating
	}
	return total / len(reviews)
}

func (es *ElasticStore) getLocationForReviews(ctx context.Context, locationID string) (*types.Location, error) {
	loc, err := es.GetLocation(ctx, locationID)
	if err != nil {
		var nf *types.NotFoundError
		if errors.As(err, &nf) {
			return nil, &types.NotFoundError{Message: "Location was not found."}
		}
		return nil, err
	}
	return loc, nil
}

func findReview(reviews []types.Review, reviewID string) *types.Review {
	for i := range reviews {
		if reviews[i].ID == reviewID {
			return &reviews[i]
		}
	}
	return nil
}

func removeReview(reviews []types.Review, reviewID string) ([]types.Review, bool) {
	for i := range reviews {
		if reviews[i].ID == reviewID {
			return append(reviews[:i], reviews[i+1:]...), true
		}
	}
	return reviews, false
}
