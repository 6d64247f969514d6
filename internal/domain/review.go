package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Review is one testimonial entry as served to the widget.
type Review struct {
	AuthorName              string `json:"author_name"`
	ProfilePhotoURL         string `json:"profile_photo_url"`
	Rating                  int    `json:"rating"`
	RelativeTimeDescription string `json:"relative_time_description"`
	Text                    string `json:"text"`
}

// Rating is a place-level score. It always renders with a decimal point (5 -> 5.0).
type Rating float64

func (r Rating) MarshalJSON() ([]byte, error) {
	f := float64(r)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("rating %v is not a finite number", f)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return []byte(s), nil
}

type PlaceResult struct {
	Name    string   `json:"name"`
	Rating  Rating   `json:"rating"`
	Reviews []Review `json:"reviews"`
}

// ReviewsResponse is the document cached and served on success.
type ReviewsResponse struct {
	HTMLAttributions []string    `json:"html_attributions"`
	Result           PlaceResult `json:"result"`
	Status           string      `json:"status"`
}

// ErrorResponse is served (and optionally cached) when the outbound fetch fails.
type ErrorResponse struct {
	Error string `json:"error"`
}
