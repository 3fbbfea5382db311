package marketplace

import (
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/openbasket/catalog/internal/domain"
)

// knownBrands is the inference list for sources that do not carry a brand
// field. Matching is a case-insensitive substring check against the title.
var knownBrands = []string{
	"Apple", "Samsung", "Sony", "Nike", "Adidas", "Puma",
	"Fossil", "Casio", "Lenovo", "HP", "Dell", "Canon",
}

// defaultBrand is assigned when no known brand appears in the title.
const defaultBrand = "Generic"

// Transformer converts normalized external listings into catalog products.
type Transformer struct {
	fxRate float64
}

// NewTransformer creates a transformer converting source prices (USD) into
// local minor units at the given exchange rate.
func NewTransformer(fxRate float64) *Transformer {
	return &Transformer{fxRate: fxRate}
}

// Transform maps an external listing to a catalog product owned by ownerID.
// Prices are converted from USD to local minor units. Listings without a
// brand get one inferred from the title; listings without a rating or stock
// count get plausible randomized values so imported products are usable in
// the storefront immediately.
func (t *Transformer) Transform(ep ExternalProduct, source, ownerID string) domain.Product {
	now := time.Now().UTC()

	p := domain.Product{
		ID:          uuid.New().String(),
		Name:        ep.Title,
		Description: ep.Description,
		Brand:       ep.Brand,
		Category:    ep.Category,
		Price:       int64(math.Round(ep.PriceUSD * t.fxRate * 100)),
		Stock:       ep.Stock,
		Image:       ep.Image,
		Rating:      ep.Rating,
		UserID:      ownerID,
		Reviews:     []domain.Review{},
		Source:      source,
		IsExternal:  true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if ep.ExternalID != "" {
		externalID := ep.ExternalID
		p.ExternalID = &externalID
	}
	if p.Brand == "" {
		p.Brand = inferBrand(ep.Title)
	}
	if p.Rating == 0 {
		p.Rating = randomRating()
	}
	if p.Stock == 0 {
		p.Stock = randomStock()
	}

	return p
}

// inferBrand returns the first known brand whose name appears in the title,
// or the default brand.
func inferBrand(title string) string {
	lower := strings.ToLower(title)
	for _, brand := range knownBrands {
		if strings.Contains(lower, strings.ToLower(brand)) {
			return brand
		}
	}
	return defaultBrand
}

// randomRating returns a rating between 3.0 and 5.0, one decimal place.
func randomRating() float64 {
	return math.Round((3+rand.Float64()*2)*10) / 10
}

// randomStock returns a stock count between 10 and 100.
func randomStock() int {
	return 10 + rand.IntN(91)
}
