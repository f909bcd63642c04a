package resolver

import (
	"ads-reconciler/core/normalize"

	"github.com/shopspring/decimal"
)

// Kind is the entity kind a mutation action addresses.
type Kind string

const (
	KindCampaign  Kind = "campaign"
	KindAdGroup   Kind = "ad_group"
	KindTarget    Kind = "target"
	KindPlacement Kind = "placement"
)

// MutationAction is a pending change to an existing platform entity.
type MutationAction struct {
	Kind       Kind   `json:"kind"`
	Operation  string `json:"operation,omitempty"`
	CampaignID string `json:"campaign_id,omitempty"`
	AdGroupID  string `json:"ad_group_id,omitempty"`
	TargetID   string `json:"target_id,omitempty"`
	Placement  string `json:"placement,omitempty"`
}

// CampaignState is the current state of a campaign.
type CampaignState struct {
	CampaignID    string          `json:"campaign_id"`
	PortfolioID   string          `json:"portfolio_id,omitempty"`
	Name          string          `json:"name"`
	State         string          `json:"state"`
	TargetingType string          `json:"targeting_type,omitempty"`
	Budget        decimal.Decimal `json:"budget"`
}

// AdGroupState is the current state of an ad group.
type AdGroupState struct {
	AdGroupID  string          `json:"ad_group_id"`
	CampaignID string          `json:"campaign_id"`
	Name       string          `json:"name"`
	State      string          `json:"state"`
	DefaultBid decimal.Decimal `json:"default_bid"`
}

// TargetState is the current state of a keyword or product target.
type TargetState struct {
	TargetID   string          `json:"target_id"`
	AdGroupID  string          `json:"ad_group_id"`
	CampaignID string          `json:"campaign_id"`
	Expression string          `json:"expression"`
	MatchType  string          `json:"match_type"`
	State      string          `json:"state"`
	Bid        decimal.Decimal `json:"bid"`
}

// PlacementState is the current bid modifier of a campaign placement.
type PlacementState struct {
	CampaignID string          `json:"campaign_id"`
	Placement  string          `json:"placement"`
	Percentage decimal.Decimal `json:"percentage"`
}

// CurrentEntitySnapshot holds the current state of every resolved entity.
type CurrentEntitySnapshot struct {
	AccountID    string                    `json:"account_id"`
	SnapshotDate string                    `json:"snapshot_date,omitempty"`
	Campaigns    map[string]CampaignState  `json:"campaigns"`
	AdGroups     map[string]AdGroupState   `json:"ad_groups"`
	Targets      map[string]TargetState    `json:"targets"`
	Placements   map[string]PlacementState `json:"placements"`
}

func newCurrentEntitySnapshot(accountID string) *CurrentEntitySnapshot {
	return &CurrentEntitySnapshot{
		AccountID:  accountID,
		Campaigns:  make(map[string]CampaignState),
		AdGroups:   make(map[string]AdGroupState),
		Targets:    make(map[string]TargetState),
		Placements: make(map[string]PlacementState),
	}
}

// PlacementKey is the key of a placement in CurrentEntitySnapshot.Placements.
func PlacementKey(campaignID, placement string) string {
	return campaignID + "|" + normalize.Placement(placement)
}

// Placement returns the current modifier of a campaign placement.
func (s *CurrentEntitySnapshot) Placement(campaignID, placement string) (PlacementState, bool) {
	p, ok := s.Placements[PlacementKey(campaignID, placement)]
	return p, ok
}
