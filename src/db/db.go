package db

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"strconv"

	"github.com/olivere/elastic/v7"

	"loc8r/src/types"
)

const (
	// Multiply meters by this to get miles.
	metersToMiles = 0.000621371

	maxDistanceMeters = 20000
	maxNearbyResults  = 100
)

type ElasticStore struct {
	Client *elastic.Client
	Index  string
	Cache  *QueryCache
}

func NewElasticStore(url string) (*ElasticStore, error) {
	client, err := elastic.NewClient(elastic.SetURL(url))
	if err != nil {
		log.Printf("Error creating the client: %s", err)
		return nil, err
	}
	return &ElasticStore{Client: client}, nil
}

func (es *ElasticStore) Close() {
	es.Client.Stop()
}

func (es *ElasticStore) CreateIndexWithMapping(index, pathStruct string) error {
	ctx := context.Background()

	exists, err := es.Client.IndexExists(index).Do(ctx)
	if err != nil {
		log.Print("Error checking if index exists: ")
		return err
	}

	if exists {
		log.Println("Index already exists.")
		es.Index = index
		return nil
	}

	schemaBytes, err := os.ReadFile(pathStruct)
	if err != nil {
		return err
	}

	createIndex, err := es.Client.CreateIndex(index).BodyString(string(schemaBytes)).Do(ctx)
	if err != nil {
		log.Printf("Error creating index: %s", err)
		return err
	}
	if !createIndex.Acknowledged {
		log.Println("CreateIndex was not acknowledged. Check that timeout value is correct.")
	}

	log.Println("Index created!")
	es.Index = index
	return nil
}

// GetNearbyLocations runs the geo query: locations within maxDistanceMeters
// of the point, ascending by arc distance, distances converted to miles.
func (es *ElasticStore) GetNearbyLocations(ctx context.Context, lng, lat float64) ([]types.Location, error) {
	if locations, ok := es.Cache.GetNearby(ctx, lng, lat); ok {
		return locations, nil
	}

	searchResult, err := es.Client.Search().
		Index(es.Index).
		Query(elastic.NewGeoDistanceQuery("coords").
			Lat(lat).
			Lon(lng).
			Distance(distanceString(maxDistanceMeters))).
		SortBy(elastic.NewGeoDistanceSort("coords").
			Point(lat, lng).
			Asc().
			Unit("m").
			DistanceType("arc").
			IgnoreUnmapped(true)).
		Size(maxNearbyResults).
		Do(ctx)
	if err != nil {
		return nil, &types.QueryError{Err: err}
	}

	var locations []types.Location
	for _, hit := range searchResult.Hits.Hits {
		var loc types.Location
		if err := json.Unmarshal(hit.Source, &loc); err != nil {
			log.Printf("Error unmarshalling hit source: %s", err)
			continue
		}
		loc.ID = hit.Id
		if len(hit.Sort) > 0 {
			loc.DistanceMiles = sortMeters(hit.Sort[0]) * metersToMiles
		}
		locations = append(locations, loc)
	}

	es.Cache.SetNearby(ctx, lng, lat, locations)
	return locations, nil
}

func (es *ElasticStore) CreateLocation(ctx context.Context, form types.LocationForm) (string, error) {
	if err := form.Validate(); err != nil {
		return "", err
	}

	loc := types.Location{
		Name:         form.Name,
		Address:      form.Address,
		Facilities:   form.Facilities,
		Coords:       form.Coords,
		OpeningTimes: form.OpeningTimes,
	}

	resp, err := es.Client.Index().
		Index(es.Index).
		BodyJson(loc).
		Refresh("true").
		Do(ctx)
	if err != nil {
		return "", &types.StoreError{Op: "create location", Err: err}
	}
	return resp.Id, nil
}

func (es *ElasticStore) GetLocation(ctx context.Context, id string) (*types.Location, error) {
	resp, err := es.Client.Get().Index(es.Index).Id(id).Do(ctx)
	if elastic.IsNotFound(err) {
		return nil, &types.NotFoundError{Message: "location not found"}
	}
	if err != nil {
		return nil, &types.StoreError{Op: "get location", Err: err}
	}

	var loc types.Location
	if err := json.Unmarshal(resp.Source, &loc); err != nil {
		return nil, &types.StoreError{Op: "decode location", Err: err}
	}
	loc.ID = resp.Id
	return &loc, nil
}

// UpdateLocation replaces the form-settable fields only. Rating and reviews
// stay whatever the document already holds.
func (es *ElasticStore) UpdateLocation(ctx context.Context, id string, form types.LocationForm) (*types.Location, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	loc, err := es.GetLocation(ctx, id)
	if err != nil {
		return nil, err
	}

	loc.Name = form.Name
	loc.Address = form.Address
	loc.Facilities = form.Facilities
	loc.Coords = form.Coords
	loc.OpeningTimes = form.OpeningTimes

	if err := es.saveLocation(ctx, loc); err != nil {
		return nil, err
	}
	return loc, nil
}

func (es *ElasticStore) DeleteLocation(ctx context.Context, id string) error {
	_, err := es.Client.Delete().
		Index(es.Index).
		Id(id).
		Refresh("true").
		Do(ctx)
	if elastic.IsNotFound(err) {
		return &types.NotFoundError{Message: "location not found"}
	}
	if err != nil {
		return &types.StoreError{Op: "delete location", Err: err}
	}
	return nil
}

// saveLocation reindexes the document under its existing id. The id and any
// computed distance never belong in the stored source.
func (es *ElasticStore) saveLocation(ctx context.Context, loc *types.Location) error {
	doc := *loc
	doc.ID = ""
	doc.DistanceMiles = 0

	_, err := es.Client.Index().
		Index(es.Index).
		Id(loc.ID).
		BodyJson(doc).
		Refresh("true").
		Do(ctx)
	if err != nil {
		return &types.StoreError{Op: "save location", Err: err}
	}
	return nil
}

func distanceString(meters int) string {
	return strconv.Itoa(meters) + "m"
}

// sortMeters pulls the raw geo sort value out of a hit. Depending on the
// decoder it arrives as float64 or json.Number.
func sortMeters(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case json.Number:
		f, _ := n.Float64()
		return f
	}
	return 0
}
