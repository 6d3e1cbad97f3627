package handlers

import (
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"loc8r/src/types"
)

// Default map center when the visitor has not shared a position.
const (
	defaultLng = -111.8910
	defaultLat = 40.7608
)

type homepageData struct {
	Title     string
	Strapline string
	Locations []types.Location
}

type locationInfoData struct {
	Title    string
	Location *types.Location
	MapURL   string
}

type reviewFormData struct {
	Title    string
	Location *types.Location
	Error    string
}

func Homepage(store types.LocationStore, tmpl *template.Template) gin.HandlerFunc {
	return func(c *gin.Context) {
		lng, lat := defaultLng, defaultLat
		if v, err := parseCoord(c.Query("lng")); err == nil {
			if w, err := parseCoord(c.Query("lat")); err == nil {
				lng, lat = v, w
			}
		}

		locations, err := store.GetNearbyLocations(c.Request.Context(), lng, lat)
		if err != nil {
			renderError(c, tmpl, http.StatusInternalServerError)
			return
		}

		data := homepageData{
			Title:     "Loc8r",
			Strapline: "Find places to work with wifi near you!",
			Locations: locations,
		}
		render(c, tmpl, "locations-list.html", http.StatusOK, data)
	}
}

func LocationInfo(store types.LocationStore, tmpl *template.Template) gin.HandlerFunc {
	return func(c *gin.Context) {
		loc, err := store.GetLocation(c.Request.Context(), c.Param("locationid"))
		if err != nil {
			renderStoreError(c, tmpl, err)
			return
		}

		data := locationInfoData{
			Title:    loc.Name,
			Location: loc,
			MapURL:   osmEmbedURL(loc.Coords),
		}
		render(c, tmpl, "location-info.html", http.StatusOK, data)
	}
}

func AddReviewForm(store types.LocationStore, tmpl *template.Template) gin.HandlerFunc {
	return func(c *gin.Context) {
		loc, err := store.GetLocation(c.Request.Context(), c.Param("locationid"))
		if err != nil {
			renderStoreError(c, tmpl, err)
			return
		}

		data := reviewFormData{Title: "Review " + loc.Name, Location: loc}
		render(c, tmpl, "review-form.html", http.StatusOK, data)
	}
}

func AddReviewPost(store types.LocationStore, tmpl *template.Template) gin.HandlerFunc {
	return func(c *gin.Context) {
		locationID := c.Param("locationid")

		form, err := parseReviewForm(c)
		if err == nil {
			_, err = store.AddReview(c.Request.Context(), locationID, form)
		}
		if err == nil {
			c.Redirect(http.StatusFound, "/location/"+locationID)
			return
		}

		var validationErr *types.ValidationError
		if !errors.As(err, &validationErr) {
			renderStoreError(c, tmpl, err)
			return
		}

		// Re-render the form so the visitor can fix their input.
		loc, lerr := store.GetLocation(c.Request.Context(), locationID)
		if lerr != nil {
			renderStoreError(c, tmpl, lerr)
			return
		}
		data := reviewFormData{
			Title:    "Review " + loc.Name,
			Location: loc,
			Error:    validationErr.Reason,
		}
		render(c, tmpl, "review-form.html", http.StatusBadRequest, data)
	}
}

func render(c *gin.Context, tmpl *template.Template, name string, status int, data interface{}) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := tmpl.ExecuteTemplate(c.Writer, name, data); err != nil {
		c.String(http.StatusInternalServerError, "Error rendering template")
	}
}

type errorPageData struct {
	Title   string
	Status  int
	Message string
}

func renderError(c *gin.Context, tmpl *template.Template, status int) {
	message := "Something has gone wrong, sorry."
	if status == http.StatusNotFound {
		message = "Oh dear, this page cannot be found."
	}
	render(c, tmpl, "error.html", status, errorPageData{
		Title:   fmt.Sprintf("%d", status),
		Status:  status,
		Message: message,
	})
}

func renderStoreError(c *gin.Context, tmpl *template.Template, err error) {
	var notFoundErr *types.NotFoundError
	if errors.As(err, &notFoundErr) {
		renderError(c, tmpl, http.StatusNotFound)
		return
	}
	renderError(c, tmpl, http.StatusInternalServerError)
}

func parseCoord(raw string) (float64, error) {
	if raw == "" {
		return 0, fmt.Errorf("empty coordinate")
	}
	var v float64
	_, err := fmt.Sscanf(raw, "%f", &v)
	return v, err
}

func osmEmbedURL(p types.GeoPoint) string {
	const span = 0.01
	return fmt.Sprintf(
		"https://www.openstreetmap.org/export/embed.html?bbox=%f,%f,%f,%f&layer=mapnik&marker=%f,%f",
		p.Lon-span, p.Lat-span, p.Lon+span, p.Lat+span, p.Lat, p.Lon)
}

// LoadTemplates parses every page template under dir with the helpers the
// pages use.
func LoadTemplates(dir string) (*template.Template, error) {
	return template.New("pages").Funcs(template.FuncMap{
		"formatDistance": formatDistance,
		"stars":          stars,
	}).ParseGlob(dir + "/*.html")
}

func formatDistance(miles float64) string {
	if miles < 0.1 {
		return fmt.Sprintf("%.0f yards", miles*1760)
	}
	return fmt.Sprintf("%.1f miles", miles)
}

func stars(rating int) string {
	if rating < 0 {
		rating = 0
	}
	if rating > 5 {
		rating = 5
	}
	return strings.Repeat("★", rating) + strings.Repeat("☆", 5-rating)
}
