package snapshot

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// LoadLatest resolves the latest published date for the account and loads the
// requested kinds of that date. With no kinds, every kind is loaded.
func LoadLatest(ctx context.Context, repo Repository, accountID string, kinds ...Kind) (*Snapshot, error) {
	date, err := repo.LatestDate(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return LoadDate(ctx, repo, accountID, date, kinds...)
}

// LoadDate loads the requested kinds of one snapshot date concurrently and
// builds the indexed view. Any backend failure fails the whole load.
func LoadDate(ctx context.Context, repo Repository, accountID, date string, kinds ...Kind) (*Snapshot, error) {
	if len(kinds) == 0 {
		kinds = AllKinds
	}

	var (
		campaigns  []CampaignRow
		adGroups   []AdGroupRow
		targets    []TargetRow
		placements []PlacementRow
	)

	g, gctx := errgroup.WithContext(ctx)
	seen := make(map[Kind]bool, len(kinds))

	for _, kind := range kinds {
		if seen[kind] {
			continue
		}
		seen[kind] = true

		switch kind {
		case KindCampaign:
			g.Go(func() error {
				rows, err := repo.LoadCampaigns(gctx, accountID, date)
				campaigns = rows
				return err
			})
		case KindAdGroup:
			g.Go(func() error {
				rows, err := repo.LoadAdGroups(gctx, accountID, date)
				adGroups = rows
				return err
			})
		case KindTarget:
			g.Go(func() error {
				rows, err := repo.LoadTargets(gctx, accountID, date)
				targets = rows
				return err
			})
		case KindPlacement:
			g.Go(func() error {
				rows, err := repo.LoadPlacements(gctx, accountID, date)
				placements = rows
				return err
			})
		default:
			// Let already started loads finish before returning.
			_ = g.Wait()
			return nil, fmt.Errorf("unknown snapshot kind %q", kind)
		}
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return New(accountID, date, campaigns, adGroups, targets, placements), nil
}
