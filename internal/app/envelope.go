package app

import (
	"encoding/json"

	"github.com/tidwall/gjson"

	"cid_reviews/internal/domain"
)

const statusOK = "OK"

// ReviewsEnvelope renders the success document. A nil review list renders as [].
func ReviewsEnvelope(name string, rating domain.Rating, reviews []domain.Review) ([]byte, error) {
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return json.Marshal(domain.ReviewsResponse{
		HTMLAttributions: []string{},
		Result: domain.PlaceResult{
			Name:    name,
			Rating:  rating,
			Reviews: reviews,
		},
		Status: statusOK,
	})
}

func ErrorEnvelope(msg string) ([]byte, error) {
	return json.Marshal(domain.ErrorResponse{Error: msg})
}

// IsErrorPayload reports whether a stored blob is an error document.
func IsErrorPayload(b []byte) bool {
	return gjson.GetBytes(b, "error").Exists()
}
