package resolver

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"ads-reconciler/core/snapshot"
)

// DefaultPageSize bounds the number of ids per backend call.
const DefaultPageSize = 1000

// ErrInvalidAction is returned for actions that lack the ids their kind needs.
var ErrInvalidAction = errors.New("invalid mutation action")

// Resolver resolves mutation actions against the latest snapshot of an account.
type Resolver struct {
	repo      snapshot.Repository
	accountID string
	pageSize  int
}

// New creates a Resolver. A pageSize of zero or less uses DefaultPageSize.
func New(repo snapshot.Repository, accountID string, pageSize int) *Resolver {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Resolver{repo: repo, accountID: accountID, pageSize: pageSize}
}

type idSet map[string]struct{}

func (s idSet) add(id string) {
	if id != "" {
		s[id] = struct{}{}
	}
}

func (s idSet) sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func validate(i int, a MutationAction) error {
	var missing string
	switch a.Kind {
	case KindCampaign:
		if a.CampaignID == "" {
			missing = "campaign_id"
		}
	case KindAdGroup:
		if a.AdGroupID == "" {
			missing = "ad_group_id"
		}
	case KindTarget:
		if a.TargetID == "" {
			missing = "target_id"
		}
	case KindPlacement:
		if a.CampaignID == "" {
			missing = "campaign_id"
		} else if a.Placement == "" {
			missing = "placement"
		}
	default:
		return fmt.Errorf("%w: actions[%d] has unknown kind %q", ErrInvalidAction, i, a.Kind)
	}
	if missing != "" {
		return fmt.Errorf("%w: actions[%d] of kind %s requires %s", ErrInvalidAction, i, a.Kind, missing)
	}
	return nil
}

// Resolve returns the current state of every entity the actions reference,
// including the ancestry of targets and ad groups. Backend failures return a
// *snapshot.LookupError and no result.
func (r *Resolver) Resolve(ctx context.Context, actions []MutationAction) (*CurrentEntitySnapshot, error) {
	campaigns, adGroups, targets, placementCampaigns := idSet{}, idSet{}, idSet{}, idSet{}
	for i, a := range actions {
		if err := validate(i, a); err != nil {
			return nil, err
		}
		campaigns.add(a.CampaignID)
		adGroups.add(a.AdGroupID)
		targets.add(a.TargetID)
		if a.Kind == KindPlacement {
			placementCampaigns.add(a.CampaignID)
		}
	}

	out := newCurrentEntitySnapshot(r.accountID)
	if len(campaigns)+len(adGroups)+len(targets) == 0 {
		return out, nil
	}

	date, err := r.repo.LatestDate(ctx, r.accountID)
	if err != nil {
		return nil, err
	}
	out.SnapshotDate = date

	// Leaves first so that their parents join the later fetches
	targetRows, err := fetchChunked(ctx, targets.sorted(), r.pageSize, func(ctx context.Context, ids []string) ([]snapshot.TargetRow, error) {
		return r.repo.TargetsByID(ctx, r.accountID, date, ids)
	})
	if err != nil {
		return nil, err
	}
	for _, row := range targetRows {
		adGroups.add(row.AdGroupID)
		campaigns.add(row.CampaignID)
		out.Targets[row.TargetID] = TargetState{
			TargetID:   row.TargetID,
			AdGroupID:  row.AdGroupID,
			CampaignID: row.CampaignID,
			Expression: row.Expression,
			MatchType:  row.MatchType,
			State:      row.State,
			Bid:        row.Bid,
		}
	}

	adGroupRows, err := fetchChunked(ctx, adGroups.sorted(), r.pageSize, func(ctx context.Context, ids []string) ([]snapshot.AdGroupRow, error) {
		return r.repo.AdGroupsByID(ctx, r.accountID, date, ids)
	})
	if err != nil {
		return nil, err
	}
	for _, row := range adGroupRows {
		campaigns.add(row.CampaignID)
		out.AdGroups[row.AdGroupID] = AdGroupState{
			AdGroupID:  row.AdGroupID,
			CampaignID: row.CampaignID,
			Name:       row.Name,
			State:      row.State,
			DefaultBid: row.DefaultBid,
		}
	}

	campaignRows, err := fetchChunked(ctx, campaigns.sorted(), r.pageSize, func(ctx context.Context, ids []string) ([]snapshot.CampaignRow, error) {
		return r.repo.CampaignsByID(ctx, r.accountID, date, ids)
	})
	if err != nil {
		return nil, err
	}
	for _, row := range campaignRows {
		out.Campaigns[row.CampaignID] = CampaignState{
			CampaignID:    row.CampaignID,
			PortfolioID:   row.PortfolioID,
			Name:          row.Name,
			State:         row.State,
			TargetingType: row.TargetingType,
			Budget:        row.Budget,
		}
	}

	placementRows, err := fetchChunked(ctx, placementCampaigns.sorted(), r.pageSize, func(ctx context.Context, ids []string) ([]snapshot.PlacementRow, error) {
		return r.repo.PlacementsByCampaign(ctx, r.accountID, date, ids)
	})
	if err != nil {
		return nil, err
	}
	for _, row := range placementRows {
		out.Placements[PlacementKey(row.CampaignID, row.Placement)] = PlacementState{
			CampaignID: row.CampaignID,
			Placement:  row.Placement,
			Percentage: row.Percentage,
		}
	}

	return out, nil
}

// fetchChunked calls fetch with consecutive slices of ids of at most size
// elements and concatenates the rows.
func fetchChunked[T any](ctx context.Context, ids []string, size int, fetch func(context.Context, []string) ([]T, error)) ([]T, error) {
	var rows []T
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		page, err := fetch(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		rows = append(rows, page...)
	}
	return rows, nil
}
