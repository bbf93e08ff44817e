package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reviewsHTML = `<html><body>
<div data-review-id="r1">
  <span aria-label="3 estrelas">★</span>
  <div data-testid="pdp-review-description">Muita poeira no rodapé do quarto</div>
</div>
<div data-review-id="r2">
  <span aria-label="5 stars">★</span>
  <div data-testid="pdp-review-description">Apartamento impecável, adorei</div>
</div>
<div data-review-id="r3">
  <span aria-label="2 stars">★</span>
  <div data-testid="pdp-review-description">Bad location, noisy street</div>
</div>
<div data-review-id="r4">
  <div data-testid="pdp-review-description">Sem nota visível</div>
</div>
</body></html>`

func TestReviews(t *testing.T) {
	p, err := Parse(reviewsHTML)
	require.NoError(t, err)

	reviews := Reviews(p)
	require.Len(t, reviews, 4)
	assert.Equal(t, 3, reviews[0].Rating)
	assert.Equal(t, "Muita poeira no rodapé do quarto", reviews[0].Body)
	assert.Equal(t, 5, reviews[1].Rating)
	assert.Equal(t, 2, reviews[2].Rating)
	assert.Equal(t, 5, reviews[3].Rating, "missing star label defaults to 5")
}

func TestGapSummary(t *testing.T) {
	p, err := Parse(reviewsHTML)
	require.NoError(t, err)

	got := GapSummary(Reviews(p))
	assert.Equal(t, "(3★): muita poeira no rodapé do quarto...", got)
}

func TestGapSummaryFiltersAndCaps(t *testing.T) {
	reviews := []Review{
		{Rating: 5, Body: "muita poeira"},
		{Rating: 3, Body: "quarto sujo"},
		{Rating: 3, Body: "quarto sujo"},
		{Rating: 2, Body: "mancha no sofá"},
		{Rating: 4, Body: "odor forte no banheiro"},
		{Rating: 1, Body: "limpeza péssima"},
	}

	got := GapSummary(reviews)
	parts := strings.Split(got, " | ")
	assert.Len(t, parts, 3, "caps at three mentions")
	assert.Equal(t, "(3★): quarto sujo...", parts[0], "five-star complaint excluded, duplicate collapsed")
	assert.NotContains(t, got, "poeira", "high ratings never count as gaps")
}

func TestGapSummaryLongBodyTruncated(t *testing.T) {
	body := strings.Repeat("poeira em todo lugar ", 10)
	got := GapSummary([]Review{{Rating: 2, Body: body}})
	assert.LessOrEqual(t, len([]rune(got)), 80+len("(2★): ")+len("..."))
}

func TestGapSummaryEmptyWhenClean(t *testing.T) {
	reviews := []Review{
		{Rating: 2, Body: "barulho da rua"},
		{Rating: 5, Body: "tudo perfeito"},
	}
	assert.Empty(t, GapSummary(reviews))
}
