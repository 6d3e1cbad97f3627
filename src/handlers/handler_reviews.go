package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"loc8r/src/types"
)

func ReviewsCreate(store types.LocationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := parseReviewForm(c)
		if err != nil {
			writeError(c, err)
			return
		}

		review, err := store.AddReview(c.Request.Context(), c.Param("locationid"), form)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusCreated, review)
	}
}

func ReviewsReadOne(store types.LocationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		loc, review, err := store.GetReview(c.Request.Context(), c.Param("locationid"), c.Param("reviewid"))
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"location": gin.H{"name": loc.Name, "_id": loc.ID},
			"review":   review,
		})
	}
}

func ReviewsUpdateOne(store types.LocationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		locationID, reviewID := c.Param("locationid"), c.Param("reviewid")
		if locationID == "" || reviewID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Bad request, check your locationid and reviewid."})
			return
		}

		form, err := parseReviewForm(c)
		if err != nil {
			writeError(c, err)
			return
		}

		review, err := store.UpdateReview(c.Request.Context(), locationID, reviewID, form)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, review)
	}
}

func ReviewsDeleteOne(store types.LocationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		locationID, reviewID := c.Param("locationid"), c.Param("reviewid")
		if locationID == "" || reviewID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Bad request, check your locationid and reviewid."})
			return
		}

		if err := store.DeleteReview(c.Request.Context(), locationID, reviewID); err != nil {
			writeError(c, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

func parseReviewForm(c *gin.Context) (types.ReviewForm, error) {
	form := types.ReviewForm{
		Author:     c.PostForm("author"),
		ReviewText: c.PostForm("reviewText"),
	}

	rating, err := strconv.Atoi(c.PostForm("rating"))
	if err != nil {
		return form, &types.ValidationError{Reason: "rating must be a number"}
	}
	form.Rating = rating

	return form, nil
}
