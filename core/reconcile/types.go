package reconcile

// Reason explains why an entity did not match.
type Reason string

const (
	// ReasonNotFound means no snapshot row has the natural key.
	ReasonNotFound Reason = "not_found"
	// ReasonAmbiguous means more than one snapshot row has the natural key.
	ReasonAmbiguous Reason = "ambiguous"
	// ReasonParentUnmatched means the scoping parent did not match.
	ReasonParentUnmatched Reason = "parent_unmatched"
)

// ConfirmationParentAdGroup marks product ads confirmed through their ad group only.
const ConfirmationParentAdGroup = "parent_ad_group"

const productAdNote = "parent ad group exists; the snapshot exposes no product ad id"

// CampaignMatch is the outcome for one manifest campaign.
type CampaignMatch struct {
	Name       string  `json:"name"`
	TempID     string  `json:"temp_id,omitempty"`
	Matched    bool    `json:"matched"`
	CampaignID *string `json:"campaign_id"`
	Reason     Reason  `json:"reason,omitempty"`
	Candidates int     `json:"candidates,omitempty"`
}

// AdGroupMatch is the outcome for one manifest ad group.
type AdGroupMatch struct {
	CampaignName string  `json:"campaign_name"`
	AdGroupName  string  `json:"ad_group_name"`
	TempID       string  `json:"temp_id,omitempty"`
	Matched      bool    `json:"matched"`
	CampaignID   *string `json:"campaign_id"`
	AdGroupID    *string `json:"ad_group_id"`
	Reason       Reason  `json:"reason,omitempty"`
	Candidates   int     `json:"candidates,omitempty"`
}

// ProductAdMatch is the outcome for one manifest product ad. AdID is always nil.
type ProductAdMatch struct {
	CampaignName string  `json:"campaign_name"`
	AdGroupName  string  `json:"ad_group_name"`
	SKU          string  `json:"sku,omitempty"`
	ASIN         string  `json:"asin,omitempty"`
	Matched      bool    `json:"matched"`
	AdID         *string `json:"ad_id"`
	AdGroupID    *string `json:"ad_group_id"`
	Confirmation string  `json:"confirmation,omitempty"`
	Note         string  `json:"note,omitempty"`
	Reason       Reason  `json:"reason,omitempty"`
}

// KeywordMatch is the outcome for one manifest keyword.
type KeywordMatch struct {
	CampaignName string  `json:"campaign_name"`
	AdGroupName  string  `json:"ad_group_name"`
	KeywordText  string  `json:"keyword_text"`
	MatchType    string  `json:"match_type"`
	Matched      bool    `json:"matched"`
	KeywordID    *string `json:"keyword_id"`
	AdGroupID    *string `json:"ad_group_id"`
	Reason       Reason  `json:"reason,omitempty"`
	Candidates   int     `json:"candidates,omitempty"`
}

// Count is expected versus matched entities.
type Count struct {
	Expected int `json:"expected"`
	Matched  int `json:"matched"`
}

func (c *Count) add(matched bool) {
	c.Expected++
	if matched {
		c.Matched++
	}
}

// Counts aggregates per kind and overall.
type Counts struct {
	Campaigns  Count `json:"campaigns"`
	AdGroups   Count `json:"ad_groups"`
	ProductAds Count `json:"product_ads"`
	Keywords   Count `json:"keywords"`
	Total      Count `json:"total"`
}

// Result is the reconciliation outcome of one manifest.
type Result struct {
	Campaigns  []CampaignMatch  `json:"campaigns"`
	AdGroups   []AdGroupMatch   `json:"ad_groups"`
	ProductAds []ProductAdMatch `json:"product_ads"`
	Keywords   []KeywordMatch   `json:"keywords"`
	Counts     Counts           `json:"counts"`
	// AllMatched is true only when at least one entity is expected and all matched.
	AllMatched bool `json:"all_matched"`
	// ParentOnlyConfirmations counts product ads confirmed through their ad group.
	ParentOnlyConfirmations int `json:"parent_only_confirmations"`
}
