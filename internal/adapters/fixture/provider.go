// Package fixture is a review provider that ignores the fetched page and
// always answers with the same placeholder testimonials. It stands in until
// a real markup parser or reviews API client is plugged in.
package fixture

import (
	"context"

	"cid_reviews/internal/domain"
)

// PlaceRating is the place-level score the fixture reports.
const PlaceRating domain.Rating = 5.0

const placeholderPhoto = "https://via.placeholder.com/40"

var reviews = []domain.Review{
	{
		AuthorName:              "Javier Martínez",
		ProfilePhotoURL:         placeholderPhoto,
		Rating:                  5,
		RelativeTimeDescription: "hace 2 meses",
		Text:                    "Como consultor tecnológico, HiveAgileCTL ha revolucionado la forma en que implemento soluciones para mis clientes. La facilidad de instalación y gestión me permite ofrecer resultados rápidos y tangibles.",
	},
	{
		AuthorName:              "Laura García",
		ProfilePhotoURL:         placeholderPhoto,
		Rating:                  5,
		RelativeTimeDescription: "hace 3 meses",
		Text:                    "Increíble herramienta para nuestra empresa de logística. En solo dos meses hemos reducido nuestros costes de software un 22% y ahora nuestro equipo es mucho más eficiente.",
	},
	{
		AuthorName:              "Carlos Sánchez",
		ProfilePhotoURL:         placeholderPhoto,
		Rating:                  5,
		RelativeTimeDescription: "hace 2 semanas",
		Text:                    "Llevaba tiempo buscando una solución que me permitiera tener control total sobre mis datos sin depender de servicios en la nube de terceros. HiveAgileCTL me ha dado exactamente eso y mucho más.",
	},
}

type Provider struct{}

func New() *Provider { return &Provider{} }

// Reviews returns a fresh copy of the fixture; cid and page are ignored.
func (p *Provider) Reviews(_ context.Context, _ string, _ []byte) (domain.Rating, []domain.Review, error) {
	out := make([]domain.Review, len(reviews))
	copy(out, reviews)
	return PlaceRating, out, nil
}
