package ui

import (
	"math"
	"strconv"
	"strings"

	"github.com/AbanoubGhadban/rsc-migration-patterns/internal/domain"
	"github.com/a-h/templ"
)

func ProductDetails(p domain.Product) templ.Component {
	return unit(func() error {
		if strings.TrimSpace(p.Name) == "" {
			return domain.Compositionf("product", "product %d has no name", p.ID)
		}
		if p.Price.IsNegative() {
			return domain.Compositionf("product", "product %d has negative price %s", p.ID, p.Price)
		}
		return nil
	}, productDetails(p))
}

func ProductSpecs(specs []domain.Spec) templ.Component {
	return unit(func() error {
		for i, s := range specs {
			if s.Label == "" {
				return domain.Compositionf("specs", "spec %d has no label", i)
			}
		}
		return nil
	}, productSpecs(specs))
}

// AverageRating is the mean rating rounded to one decimal place.
func AverageRating(reviews []domain.Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	return math.Round(float64(sum)/float64(len(reviews))*10) / 10
}

func stars(n int) string {
	return strings.Repeat("*", n)
}

func averageStars(reviews []domain.Review) string {
	return stars(int(math.Round(AverageRating(reviews))))
}

func averageText(reviews []domain.Review) string {
	return strconv.FormatFloat(AverageRating(reviews), 'f', 1, 64)
}

func ReviewList(reviews []domain.Review) templ.Component {
	return unit(func() error {
		for _, r := range reviews {
			if r.Rating < 1 || r.Rating > 5 {
				return domain.Compositionf("reviews", "review %d has rating %d outside 1..5", r.ID, r.Rating)
			}
		}
		return nil
	}, reviewList(reviews))
}
