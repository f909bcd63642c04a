package manifest

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Valid(t *testing.T) {
	data := []byte(`{
		"run_id": "r1",
		"generator": "gen",
		"created_at": "2024-06-01T10:00:00Z",
		"campaigns": [{"name": "Summer Sale", "temp_id": "c-1", "portfolio_id": 1234567890123}],
		"ad_groups": [{"campaign_name": "Summer Sale", "ad_group_name": "Shoes"}],
		"product_ads": [{"campaign_name": "Summer Sale", "ad_group_name": "Shoes", "sku": "SKU-1"}],
		"keywords": [{"campaign_name": "Summer Sale", "ad_group_name": "Shoes", "keyword_text": "running shoes", "match_type": "EXACT", "bid": 0.75}]
	}`)

	m, err := Parse(data)
	require.NoError(t, err)

	assert.Equal(t, "r1", m.RunID)
	assert.Equal(t, "gen", m.Generator)
	assert.Equal(t, FlexID("c-1"), m.Campaigns[0].TempID)
	assert.Equal(t, FlexID("1234567890123"), m.Campaigns[0].PortfolioID)
	assert.Equal(t, "0.75", m.Keywords[0].Bid.String())
	assert.Equal(t, 4, m.EntityCount())
}

func TestParse_EmptyListsAllowed(t *testing.T) {
	m, err := Parse([]byte(`{"run_id":"r1","generator":"gen","campaigns":[],"ad_groups":[],"product_ads":[],"keywords":[]}`))
	require.NoError(t, err)
	assert.Equal(t, 0, m.EntityCount())
}

func TestParse_MissingRunID(t *testing.T) {
	_, err := Parse([]byte(`{"generator":"gen","campaigns":[{"name":"A"}]}`))
	require.Error(t, err)

	assert.True(t, errors.Is(err, ErrStructural))
	assert.Contains(t, err.Error(), "run_id")

	var serr *StructuralError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, []string{"run_id is required"}, serr.Problems)
}

func TestParse_MissingRunIDAndGenerator(t *testing.T) {
	_, err := Parse([]byte(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "run_id is required")
	assert.Contains(t, err.Error(), "generator is required")
}

func TestParse_InvalidEntities(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		problem string
	}{
		{
			name:    "Campaign without name",
			data:    `{"run_id":"r1","generator":"g","campaigns":[{"temp_id":"x"}]}`,
			problem: "campaigns[0].name is required",
		},
		{
			name:    "Ad group without parent",
			data:    `{"run_id":"r1","generator":"g","ad_groups":[{"ad_group_name":"AG"}]}`,
			problem: "ad_groups[0].campaign_name is required",
		},
		{
			name:    "Keyword without match type",
			data:    `{"run_id":"r1","generator":"g","keywords":[{"campaign_name":"C","ad_group_name":"AG","keyword_text":"kw"}]}`,
			problem: "keywords[0].match_type is required",
		},
		{
			name:    "Product ad without ad group",
			data:    `{"run_id":"r1","generator":"g","product_ads":[{"campaign_name":"C","asin":"B0"}]}`,
			problem: "product_ads[0].ad_group_name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrStructural)
			assert.Contains(t, err.Error(), tt.problem)
		})
	}
}

func TestParse_MalformedShape(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Not JSON", `not json`},
		{"Campaigns is an object", `{"run_id":"r1","generator":"g","campaigns":{"name":"A"}}`},
		{"Run id is a list", `{"run_id":["r1"],"generator":"g"}`},
		{"Temp id is a bool", `{"run_id":"r1","generator":"g","campaigns":[{"name":"A","temp_id":true}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse([]byte(tt.data))
			assert.Nil(t, m)
			assert.ErrorIs(t, err, ErrStructural)
			assert.Contains(t, err.Error(), "malformed JSON")
		})
	}
}

func TestValidate_Nil(t *testing.T) {
	assert.ErrorIs(t, Validate(nil), ErrStructural)
}

func TestFlexID_Null(t *testing.T) {
	m, err := Parse([]byte(`{"run_id":"r1","generator":"g","campaigns":[{"name":"A","temp_id":null}]}`))
	require.NoError(t, err)
	assert.Equal(t, FlexID(""), m.Campaigns[0].TempID)
}
