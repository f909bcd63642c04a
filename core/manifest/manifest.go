package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Manifest is one batch submission produced by a generator.
type Manifest struct {
	// RunID uniquely identifies the batch.
	RunID string `json:"run_id" validate:"required"`

	// Generator is the name of the producer.
	Generator string `json:"generator" validate:"required"`

	// CreatedAt is the ISO8601 creation time as written by the generator.
	CreatedAt string `json:"created_at,omitempty"`

	Campaigns  []Campaign  `json:"campaigns" validate:"dive"`
	AdGroups   []AdGroup   `json:"ad_groups" validate:"dive"`
	ProductAds []ProductAd `json:"product_ads" validate:"dive"`
	Keywords   []Keyword   `json:"keywords" validate:"dive"`
}

// Campaign describes a campaign the generator asked the platform to create.
type Campaign struct {
	Name        string `json:"name" validate:"required"`
	TempID      FlexID `json:"temp_id,omitempty"`
	PortfolioID FlexID `json:"portfolio_id,omitempty"`
}

// AdGroup describes a new ad group, addressed by its parent campaign name.
type AdGroup struct {
	CampaignName string `json:"campaign_name" validate:"required"`
	AdGroupName  string `json:"ad_group_name" validate:"required"`
	TempID       FlexID `json:"temp_id,omitempty"`
}

// ProductAd describes a new product ad inside an ad group.
type ProductAd struct {
	CampaignName string `json:"campaign_name" validate:"required"`
	AdGroupName  string `json:"ad_group_name" validate:"required"`
	SKU          string `json:"sku,omitempty"`
	ASIN         string `json:"asin,omitempty"`
}

// Keyword describes a new keyword target inside an ad group.
type Keyword struct {
	CampaignName string          `json:"campaign_name" validate:"required"`
	AdGroupName  string          `json:"ad_group_name" validate:"required"`
	KeywordText  string          `json:"keyword_text" validate:"required"`
	MatchType    string          `json:"match_type" validate:"required"`
	Bid          decimal.Decimal `json:"bid"`
}

// EntityCount returns the number of entities described by the manifest.
func (m *Manifest) EntityCount() int {
	return len(m.Campaigns) + len(m.AdGroups) + len(m.ProductAds) + len(m.Keywords)
}

// FlexID is an optional identifier that generators emit either as a JSON
// string or as a JSON number. It is kept as its textual form.
type FlexID string

// UnmarshalJSON accepts strings, numbers and null.
func (f *FlexID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*f = ""
		return nil
	}

	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*f = FlexID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err != nil {
		return fmt.Errorf("id must be a string or a number: %w", err)
	}
	*f = FlexID(n.String())
	return nil
}
