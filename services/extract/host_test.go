package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostSectionBySelector(t *testing.T) {
	p, err := Parse(`<html><body>
<div data-section-id="HOST_PROFILE_DEFAULT">Anfitrião: Maria Silva</div>
</body></html>`)
	require.NoError(t, err)

	section := HostSection(p)
	require.NotNil(t, section)
	assert.Contains(t, section.Text(), "Maria Silva")
}

func TestHostSectionByTextFallback(t *testing.T) {
	p, err := Parse(`<html><body>
<section>Hosted by Carlos e mais nada</section>
</body></html>`)
	require.NoError(t, err)

	section := HostSection(p)
	require.NotNil(t, section)
	assert.Contains(t, section.Text(), "Carlos")
}

func TestHostName(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"labeled pt",
			`<div data-section-id="HOST_PROFILE_DEFAULT">Anfitrião: Maria Silva</div>`,
			"Maria Silva",
		},
		{
			"labeled en with badge glued on",
			`<div data-section-id="HOST_PROFILE_DEFAULT"><div>Hosted by Carlos Superhost</div></div>`,
			"Carlos",
		},
		{
			"tenure suffix stripped",
			`<div data-section-id="HOST_PROFILE_DEFAULT">Anfitrião: Ricardo 5 anos hospedando</div>`,
			"Ricardo",
		},
		{
			"heading fallback skips button text",
			`<div data-section-id="HOST_PROFILE_DEFAULT"><h2>Consultar Perfil</h2></div>`,
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse("<html><body>" + tt.html + "</body></html>")
			require.NoError(t, err)
			assert.Equal(t, tt.want, HostName(HostSection(p)))
		})
	}
}

func TestHostNameNilSection(t *testing.T) {
	assert.Empty(t, HostName(nil))
}

func TestSuperhost(t *testing.T) {
	assert.True(t, Superhost("Maria é Superanfitriã desde 2020"))
	assert.True(t, Superhost("Carlos is a Superhost"))
	assert.False(t, Superhost("anfitrião dedicado"))
}

func TestHostID(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{
			"profile url marker",
			`<a href="/users/profile/12345678?locale=pt&previous_page_name=PdpHomeMarketplace">perfil</a>`,
			"12345678",
		},
		{
			"show url marker",
			`<a href="/users/show/555?previous_page_name=PdpHomeMarketplace">perfil</a>`,
			"555",
		},
		{
			"embedded json",
			`<script>{"listing":{"hostId":"987654"}}</script>`,
			"987654",
		},
		{
			"commenter link without marker is not the host",
			`<a href="/users/profile/42?locale=pt">comentário</a>`,
			"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HostID(tt.html))
		})
	}
}

func TestHostProfileURL(t *testing.T) {
	got := HostProfileURL("123")
	assert.Equal(t,
		"https://www.airbnb.com.br/users/profile/123?previous_page_name=PdpHomeMarketplace",
		got)
}

func TestPortfolioSize(t *testing.T) {
	tests := []struct {
		name string
		html string
		want int
	}{
		{"explicit count", `<div>Ver os 14 anúncios de Carlos</div>`, 14},
		{"see all", `<div>See all 7 listings</div>`, 7},
		{
			"single listing count skipped, links counted",
			`<div>1 anúncio</div><a href="/rooms/1">a</a><a href="/rooms/2">b</a><a href="/rooms/3">c</a>`,
			3,
		},
		{"nothing found defaults to one", `<div>perfil vazio</div>`, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse("<html><body>" + tt.html + "</body></html>")
			require.NoError(t, err)
			assert.Equal(t, tt.want, PortfolioSize(p))
		})
	}
}
