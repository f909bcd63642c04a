package snapshot

import (
	"ads-reconciler/core/normalize"
)

type scopedName struct {
	parentID string
	name     string
}

type targetKey struct {
	adGroupID  string
	expression string
	matchType  string
}

type placementKey struct {
	campaignID string
	placement  string
}

// Snapshot is an immutable, indexed view of one published export.
// It is safe for concurrent reads.
type Snapshot struct {
	AccountID string
	Date      string

	campaignsByName map[string][]*CampaignRow
	campaignsByID   map[string]*CampaignRow
	adGroupsByName  map[scopedName][]*AdGroupRow
	adGroupsByID    map[string]*AdGroupRow
	targetsByExpr   map[targetKey][]*TargetRow
	targetsByID     map[string]*TargetRow
	placements      map[placementKey]*PlacementRow
}

// New builds a Snapshot and its indices from raw rows. Names are indexed with
// normalize.Name regardless of any stored normalized column. A platform id
// that appears twice is indexed once.
func New(accountID, date string, campaigns []CampaignRow, adGroups []AdGroupRow, targets []TargetRow, placements []PlacementRow) *Snapshot {
	s := &Snapshot{
		AccountID:       accountID,
		Date:            date,
		campaignsByName: make(map[string][]*CampaignRow),
		campaignsByID:   make(map[string]*CampaignRow, len(campaigns)),
		adGroupsByName:  make(map[scopedName][]*AdGroupRow),
		adGroupsByID:    make(map[string]*AdGroupRow, len(adGroups)),
		targetsByExpr:   make(map[targetKey][]*TargetRow),
		targetsByID:     make(map[string]*TargetRow, len(targets)),
		placements:      make(map[placementKey]*PlacementRow, len(placements)),
	}

	cs := append([]CampaignRow(nil), campaigns...)
	for i := range cs {
		row := &cs[i]
		if _, dup := s.campaignsByID[row.CampaignID]; dup {
			continue
		}
		s.campaignsByID[row.CampaignID] = row
		key := normalize.Name(row.Name)
		s.campaignsByName[key] = append(s.campaignsByName[key], row)
	}

	ags := append([]AdGroupRow(nil), adGroups...)
	for i := range ags {
		row := &ags[i]
		if _, dup := s.adGroupsByID[row.AdGroupID]; dup {
			continue
		}
		s.adGroupsByID[row.AdGroupID] = row
		key := scopedName{parentID: row.CampaignID, name: normalize.Name(row.Name)}
		s.adGroupsByName[key] = append(s.adGroupsByName[key], row)
	}

	ts := append([]TargetRow(nil), targets...)
	for i := range ts {
		row := &ts[i]
		if _, dup := s.targetsByID[row.TargetID]; dup {
			continue
		}
		s.targetsByID[row.TargetID] = row
		key := targetKey{
			adGroupID:  row.AdGroupID,
			expression: normalize.Name(row.Expression),
			matchType:  normalize.MatchType(row.MatchType),
		}
		s.targetsByExpr[key] = append(s.targetsByExpr[key], row)
	}

	ps := append([]PlacementRow(nil), placements...)
	for i := range ps {
		row := &ps[i]
		s.placements[placementKey{campaignID: row.CampaignID, placement: normalize.Placement(row.Placement)}] = row
	}

	return s
}

// CampaignsByName returns every campaign whose normalized name equals norm.
func (s *Snapshot) CampaignsByName(norm string) []*CampaignRow {
	return s.campaignsByName[norm]
}

// AdGroupsByName returns every ad group of campaignID whose normalized name equals norm.
func (s *Snapshot) AdGroupsByName(campaignID, norm string) []*AdGroupRow {
	return s.adGroupsByName[scopedName{parentID: campaignID, name: norm}]
}

// TargetsByExpression returns every target of adGroupID with the given
// normalized expression and normalized match type.
func (s *Snapshot) TargetsByExpression(adGroupID, expressionNorm, matchTypeNorm string) []*TargetRow {
	return s.targetsByExpr[targetKey{adGroupID: adGroupID, expression: expressionNorm, matchType: matchTypeNorm}]
}

// Campaign returns the campaign with the given platform id.
func (s *Snapshot) Campaign(id string) (*CampaignRow, bool) {
	row, ok := s.campaignsByID[id]
	return row, ok
}

// AdGroup returns the ad group with the given platform id.
func (s *Snapshot) AdGroup(id string) (*AdGroupRow, bool) {
	row, ok := s.adGroupsByID[id]
	return row, ok
}

// Target returns the target with the given platform id.
func (s *Snapshot) Target(id string) (*TargetRow, bool) {
	row, ok := s.targetsByID[id]
	return row, ok
}

// Placement returns the placement modifier of a campaign.
func (s *Snapshot) Placement(campaignID, placement string) (*PlacementRow, bool) {
	row, ok := s.placements[placementKey{campaignID: campaignID, placement: normalize.Placement(placement)}]
	return row, ok
}

// Size returns the number of indexed entities of a kind.
func (s *Snapshot) Size(kind Kind) int {
	switch kind {
	case KindCampaign:
		return len(s.campaignsByID)
	case KindAdGroup:
		return len(s.adGroupsByID)
	case KindTarget:
		return len(s.targetsByID)
	case KindPlacement:
		return len(s.placements)
	default:
		return 0
	}
}
