package handlers

import (
	"html/template"

	"github.com/gin-gonic/gin"

	"loc8r/src/types"
)

// NewRouter wires the JSON API under /api and the rendered pages at the root.
func NewRouter(store types.LocationStore, tmpl *template.Template) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	_ = r.SetTrustedProxies(nil)

	api := r.Group("/api")
	{
		api.GET("/locations", LocationsListByDistance(store))
		api.POST("/locations", LocationsCreate(store))
		api.GET("/locations/:locationid", LocationsReadOne(store))
		api.PUT("/locations/:locationid", LocationsUpdateOne(store))
		api.DELETE("/locations/:locationid", LocationsDeleteOne(store))

		api.POST("/locations/:locationid/reviews", ReviewsCreate(store))
		api.GET("/locations/:locationid/reviews/:reviewid", ReviewsReadOne(store))
		api.PUT("/locations/:locationid/reviews/:reviewid", ReviewsUpdateOne(store))
		api.DELETE("/locations/:locationid/reviews/:reviewid", ReviewsDeleteOne(store))
	}

	r.GET("/", Homepage(store, tmpl))
	r.GET("/location/:locationid", LocationInfo(store, tmpl))
	r.GET("/location/:locationid/review/new", AddReviewForm(store, tmpl))
	r.POST("/location/:locationid/review/new", AddReviewPost(store, tmpl))

	return r
}
