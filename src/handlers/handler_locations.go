package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"loc8r/src/types"
)

func LocationsListByDistance(store types.LocationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		lng, err := strconv.ParseFloat(c.Query("lng"), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "lng and lat query parameters are required"})
			return
		}
		lat, err := strconv.ParseFloat(c.Query("lat"), 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "lng and lat query parameters are required"})
			return
		}

		locations, err := store.GetNearbyLocations(c.Request.Context(), lng, lat)
		if err != nil {
			writeError(c, err)
			return
		}
		if locations == nil {
			locations = []types.Location{}
		}

		c.JSON(http.StatusOK, gin.H{"results": locations})
	}
}

func LocationsCreate(store types.LocationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := parseLocationForm(c)
		if err != nil {
			writeError(c, err)
			return
		}

		id, err := store.CreateLocation(c.Request.Context(), form)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "Location created", "id": id})
	}
}

func LocationsReadOne(store types.LocationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		loc, err := store.GetLocation(c.Request.Context(), c.Param("locationid"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, loc)
	}
}

func LocationsUpdateOne(store types.LocationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		form, err := parseLocationForm(c)
		if err != nil {
			writeError(c, err)
			return
		}

		loc, err := store.UpdateLocation(c.Request.Context(), c.Param("locationid"), form)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"store": loc})
	}
}

func LocationsDeleteOne(store types.LocationStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := store.DeleteLocation(c.Request.Context(), c.Param("locationid")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// parseLocationForm pulls the form fields into a typed struct. All numeric
// parsing happens here so the store only ever sees well-formed input.
func parseLocationForm(c *gin.Context) (types.LocationForm, error) {
	form := types.LocationForm{
		Name:       c.PostForm("name"),
		Address:    c.PostForm("address"),
		Facilities: splitFacilities(c.PostForm("facilities")),
	}

	lng, err := strconv.ParseFloat(c.PostForm("lng"), 64)
	if err != nil {
		return form, &types.ValidationError{Reason: "lng must be a number"}
	}
	lat, err := strconv.ParseFloat(c.PostForm("lat"), 64)
	if err != nil {
		return form, &types.ValidationError{Reason: "lat must be a number"}
	}
	form.Coords = types.GeoPoint{Lon: lng, Lat: lat}

	for i := 1; i <= 3; i++ {
		days := c.PostForm(fmt.Sprintf("days%d", i))
		if days == "" {
			continue
		}

		entry := types.OpeningTime{
			Days:    days,
			Opening: c.PostForm(fmt.Sprintf("opening%d", i)),
			Closing: c.PostForm(fmt.Sprintf("closing%d", i)),
		}
		if closedStr := c.PostForm(fmt.Sprintf("closed%d", i)); closedStr != "" {
			closed, err := strconv.ParseBool(closedStr)
			if err != nil {
				return form, &types.ValidationError{Reason: fmt.Sprintf("closed%d must be a boolean", i)}
			}
			entry.Closed = closed
		}
		form.OpeningTimes = append(form.OpeningTimes, entry)
	}

	return form, nil
}

func splitFacilities(raw string) []string {
	var facilities []string
	for _, f := range strings.Split(raw, ",") {
		if f = strings.TrimSpace(f); f != "" {
			facilities = append(facilities, f)
		}
	}
	return facilities
}

// writeError maps the store's error taxonomy onto HTTP: validation 400,
// unresolved ids 404, everything else 500 with a type and message body.
func writeError(c *gin.Context, err error) {
	var (
		validationErr *types.ValidationError
		notFoundErr   *types.NotFoundError
		queryErr      *types.QueryError
	)
	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"type": "ValidationError", "message": validationErr.Reason})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"message": notFoundErr.Message})
	case errors.As(err, &queryErr):
		c.JSON(http.StatusInternalServerError, gin.H{"type": "QueryError", "message": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"type": "StoreError", "message": err.Error()})
	}
}
