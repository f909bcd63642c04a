package snapshot

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies an entity kind held in a snapshot.
type Kind string

const (
	KindPublication Kind = "publication"
	KindCampaign    Kind = "campaign"
	KindAdGroup     Kind = "ad_group"
	KindTarget      Kind = "target"
	KindPlacement   Kind = "placement"
)

// AllKinds lists every entity kind a snapshot can hold.
var AllKinds = []Kind{KindCampaign, KindAdGroup, KindTarget, KindPlacement}

// DateLayout is the format of snapshot dates.
const DateLayout = "2006-01-02"

// Publication marks a snapshot date as fully published for an account.
type Publication struct {
	ID           uint      `gorm:"column:id;primaryKey"`
	AccountID    string    `gorm:"column:account_id;type:varchar(64);uniqueIndex:idx_publication_scope;not null"`
	SnapshotDate string    `gorm:"column:snapshot_date;type:varchar(10);uniqueIndex:idx_publication_scope;not null"`
	PublishedAt  time.Time `gorm:"column:published_at;not null"`
}

// TableName overrides the table name.
func (Publication) TableName() string {
	return "snapshot_publications"
}

// CampaignRow is a campaign as exported by the platform.
type CampaignRow struct {
	ID            uint            `gorm:"column:id;primaryKey" json:"-"`
	AccountID     string          `gorm:"column:account_id;type:varchar(64);index:idx_campaign_scope;not null" json:"-"`
	SnapshotDate  string          `gorm:"column:snapshot_date;type:varchar(10);index:idx_campaign_scope;not null" json:"-"`
	CampaignID    string          `gorm:"column:campaign_id;type:varchar(64);index;not null" json:"campaign_id"`
	PortfolioID   string          `gorm:"column:portfolio_id;type:varchar(64)" json:"portfolio_id,omitempty"`
	Name          string          `gorm:"column:name;type:varchar(255)" json:"name"`
	NameNorm      string          `gorm:"column:name_norm;type:varchar(255);index" json:"-"`
	State         string          `gorm:"column:state;type:varchar(32)" json:"state"`
	TargetingType string          `gorm:"column:targeting_type;type:varchar(32)" json:"targeting_type,omitempty"`
	Budget        decimal.Decimal `gorm:"column:budget;type:decimal(18,4)" json:"budget"`
}

// TableName overrides the table name.
func (CampaignRow) TableName() string {
	return "snapshot_campaigns"
}

// AdGroupRow is an ad group as exported by the platform.
type AdGroupRow struct {
	ID           uint            `gorm:"column:id;primaryKey" json:"-"`
	AccountID    string          `gorm:"column:account_id;type:varchar(64);index:idx_ad_group_scope;not null" json:"-"`
	SnapshotDate string          `gorm:"column:snapshot_date;type:varchar(10);index:idx_ad_group_scope;not null" json:"-"`
	AdGroupID    string          `gorm:"column:ad_group_id;type:varchar(64);index;not null" json:"ad_group_id"`
	CampaignID   string          `gorm:"column:campaign_id;type:varchar(64);index" json:"campaign_id"`
	Name         string          `gorm:"column:name;type:varchar(255)" json:"name"`
	NameNorm     string          `gorm:"column:name_norm;type:varchar(255)" json:"-"`
	State        string          `gorm:"column:state;type:varchar(32)" json:"state"`
	DefaultBid   decimal.Decimal `gorm:"column:default_bid;type:decimal(18,4)" json:"default_bid"`
}

// TableName overrides the table name.
func (AdGroupRow) TableName() string {
	return "snapshot_ad_groups"
}

// TargetRow is a keyword or product target as exported by the platform.
type TargetRow struct {
	ID             uint            `gorm:"column:id;primaryKey" json:"-"`
	AccountID      string          `gorm:"column:account_id;type:varchar(64);index:idx_target_scope;not null" json:"-"`
	SnapshotDate   string          `gorm:"column:snapshot_date;type:varchar(10);index:idx_target_scope;not null" json:"-"`
	TargetID       string          `gorm:"column:target_id;type:varchar(64);index;not null" json:"target_id"`
	AdGroupID      string          `gorm:"column:ad_group_id;type:varchar(64);index" json:"ad_group_id"`
	CampaignID     string          `gorm:"column:campaign_id;type:varchar(64)" json:"campaign_id"`
	Expression     string          `gorm:"column:expression;type:varchar(255)" json:"expression"`
	ExpressionNorm string          `gorm:"column:expression_norm;type:varchar(255)" json:"-"`
	MatchType      string          `gorm:"column:match_type;type:varchar(32)" json:"match_type"`
	State          string          `gorm:"column:state;type:varchar(32)" json:"state"`
	Bid            decimal.Decimal `gorm:"column:bid;type:decimal(18,4)" json:"bid"`
}

// TableName overrides the table name.
func (TargetRow) TableName() string {
	return "snapshot_targets"
}

// PlacementRow is a campaign placement bid modifier.
type PlacementRow struct {
	ID            uint            `gorm:"column:id;primaryKey" json:"-"`
	AccountID     string          `gorm:"column:account_id;type:varchar(64);index:idx_placement_scope;not null" json:"-"`
	SnapshotDate  string          `gorm:"column:snapshot_date;type:varchar(10);index:idx_placement_scope;not null" json:"-"`
	CampaignID    string          `gorm:"column:campaign_id;type:varchar(64);index;not null" json:"campaign_id"`
	Placement     string          `gorm:"column:placement;type:varchar(64)" json:"placement"`
	PlacementNorm string          `gorm:"column:placement_norm;type:varchar(64)" json:"-"`
	Percentage    decimal.Decimal `gorm:"column:percentage;type:decimal(9,2)" json:"percentage"`
}

// TableName overrides the table name.
func (PlacementRow) TableName() string {
	return "snapshot_placements"
}

// Export is one parsed platform export: every row of one account and date.
// Parsing export files is done upstream; Publish stores the result.
type Export struct {
	AccountID    string         `json:"account_id"`
	SnapshotDate string         `json:"snapshot_date"`
	Campaigns    []CampaignRow  `json:"campaigns"`
	AdGroups     []AdGroupRow   `json:"ad_groups"`
	Targets      []TargetRow    `json:"targets"`
	Placements   []PlacementRow `json:"placements"`
}

// Models returns every table model owned by this package.
func Models() []any {
	return []any{&Publication{}, &CampaignRow{}, &AdGroupRow{}, &TargetRow{}, &PlacementRow{}}
}
