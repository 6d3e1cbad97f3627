package handlers

import (
	"net/http"
	"strings"
	"testing"
)

func TestHomepageListsLocations(t *testing.T) {
	r := newTestRouter(t, newFakeStore())
	createCafeX(t, r)

	w := doRequest(r, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Cafe X") {
		t.Errorf("homepage does not list Cafe X: %s", body)
	}
	if !strings.Contains(body, "Find places to work with wifi near you!") {
		t.Error("homepage is missing the strapline")
	}
}

func TestLocationInfoPage(t *testing.T) {
	r := newTestRouter(t, newFakeStore())
	id := createCafeX(t, r)
	addReview(t, r, id, reviewForm("A", "5"))

	w := doRequest(r, http.MethodGet, "/location/"+id, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("got status %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{"Cafe X", "openstreetmap.org", "Good coffee, fast wifi."} {
		if !strings.Contains(body, want) {
			t.Errorf("page is missing %q", want)
		}
	}
}

func TestLocationInfoPageNotFound(t *testing.T) {
	r := newTestRouter(t, newFakeStore())

	w := doRequest(r, http.MethodGet, "/location/no-such-id", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", w.Code)
	}
	if !strings.Contains(w.Body.String(), "this page cannot be found") {
		t.Errorf("error page body: %s", w.Body.String())
	}
}

func TestAddReviewFormRoundTrip(t *testing.T) {
	r := newTestRouter(t, newFakeStore())
	id := createCafeX(t, r)

	w := doRequest(r, http.MethodGet, "/location/"+id+"/review/new", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("form: got status %d", w.Code)
	}

	w = doRequest(r, http.MethodPost, "/location/"+id+"/review/new", reviewForm("A", "4"))
	if w.Code != http.StatusFound {
		t.Fatalf("submit: got status %d, want 302", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/location/"+id {
		t.Errorf("redirect target = %q", loc)
	}

	if got := locationRating(t, r, id); got != 4 {
		t.Errorf("rating after page submit = %d, want 4", got)
	}
}

func TestAddReviewPostInvalidRating(t *testing.T) {
	r := newTestRouter(t, newFakeStore())
	id := createCafeX(t, r)

	w := doRequest(r, http.MethodPost, "/location/"+id+"/review/new", reviewForm("A", "11"))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", w.Code)
	}
	if !strings.Contains(w.Body.String(), "rating must be between 0 and 5") {
		t.Errorf("form was not re-rendered with the validation message: %s", w.Body.String())
	}
}
