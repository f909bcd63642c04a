package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ads-reconciler/core/normalize"

	"gorm.io/gorm"
)

// Repository is the backend accessor for published snapshots.
type Repository interface {
	// LatestDate returns the most recent published snapshot date for the account.
	// It returns an error matching ErrNoSnapshot if nothing was ever published.
	LatestDate(ctx context.Context, accountID string) (string, error)

	// LoadCampaigns returns every campaign row of one snapshot.
	LoadCampaigns(ctx context.Context, accountID, date string) ([]CampaignRow, error)
	// LoadAdGroups returns every ad group row of one snapshot.
	LoadAdGroups(ctx context.Context, accountID, date string) ([]AdGroupRow, error)
	// LoadTargets returns every target row of one snapshot.
	LoadTargets(ctx context.Context, accountID, date string) ([]TargetRow, error)
	// LoadPlacements returns every placement row of one snapshot.
	LoadPlacements(ctx context.Context, accountID, date string) ([]PlacementRow, error)

	// CampaignsByID returns the campaign rows whose ids are listed.
	// Unknown ids are skipped. Callers bound len(ids) to the backend limit.
	CampaignsByID(ctx context.Context, accountID, date string, ids []string) ([]CampaignRow, error)
	// AdGroupsByID returns the ad group rows whose ids are listed.
	AdGroupsByID(ctx context.Context, accountID, date string, ids []string) ([]AdGroupRow, error)
	// TargetsByID returns the target rows whose ids are listed.
	TargetsByID(ctx context.Context, accountID, date string, ids []string) ([]TargetRow, error)
	// PlacementsByCampaign returns the placement rows of the listed campaigns.
	PlacementsByCampaign(ctx context.Context, accountID, date string, campaignIDs []string) ([]PlacementRow, error)
}

// GormRepository implements Repository on a gorm connection.
type GormRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// NewGormRepository creates a repository backed by db.
func NewGormRepository(db *gorm.DB) *GormRepository {
	return &GormRepository{db: db, now: time.Now}
}

// Migrate creates or updates every snapshot table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate snapshot tables: %w", err)
	}
	return nil
}

// LatestDate returns the most recent published snapshot date.
func (r *GormRepository) LatestDate(ctx context.Context, accountID string) (string, error) {
	var pub Publication
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("snapshot_date DESC").
		Take(&pub).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", fmt.Errorf("%w: account %s", ErrNoSnapshot, accountID)
	}
	if err != nil {
		return "", &LookupError{Kind: KindPublication, Err: err}
	}
	return pub.SnapshotDate, nil
}

// LoadCampaigns returns every campaign row of one snapshot.
func (r *GormRepository) LoadCampaigns(ctx context.Context, accountID, date string) ([]CampaignRow, error) {
	var rows []CampaignRow
	if err := r.scope(ctx, accountID, date).Find(&rows).Error; err != nil {
		return nil, &LookupError{Kind: KindCampaign, Err: err}
	}
	return rows, nil
}

// LoadAdGroups returns every ad group row of one snapshot.
func (r *GormRepository) LoadAdGroups(ctx context.Context, accountID, date string) ([]AdGroupRow, error) {
	var rows []AdGroupRow
	if err := r.scope(ctx, accountID, date).Find(&rows).Error; err != nil {
		return nil, &LookupError{Kind: KindAdGroup, Err: err}
	}
	return rows, nil
}

// LoadTargets returns every target row of one snapshot.
func (r *GormRepository) LoadTargets(ctx context.Context, accountID, date string) ([]TargetRow, error) {
	var rows []TargetRow
	if err := r.scope(ctx, accountID, date).Find(&rows).Error; err != nil {
		return nil, &LookupError{Kind: KindTarget, Err: err}
	}
	return rows, nil
}

// LoadPlacements returns every placement row of one snapshot.
func (r *GormRepository) LoadPlacements(ctx context.Context, accountID, date string) ([]PlacementRow, error) {
	var rows []PlacementRow
	if err := r.scope(ctx, accountID, date).Find(&rows).Error; err != nil {
		return nil, &LookupError{Kind: KindPlacement, Err: err}
	}
	return rows, nil
}

// CampaignsByID returns the campaign rows whose ids are listed.
func (r *GormRepository) CampaignsByID(ctx context.Context, accountID, date string, ids []string) ([]CampaignRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []CampaignRow
	if err := r.scope(ctx, accountID, date).Where("campaign_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, &LookupError{Kind: KindCampaign, Err: err}
	}
	return rows, nil
}

// AdGroupsByID returns the ad group rows whose ids are listed.
func (r *GormRepository) AdGroupsByID(ctx context.Context, accountID, date string, ids []string) ([]AdGroupRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []AdGroupRow
	if err := r.scope(ctx, accountID, date).Where("ad_group_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, &LookupError{Kind: KindAdGroup, Err: err}
	}
	return rows, nil
}

// TargetsByID returns the target rows whose ids are listed.
func (r *GormRepository) TargetsByID(ctx context.Context, accountID, date string, ids []string) ([]TargetRow, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var rows []TargetRow
	if err := r.scope(ctx, accountID, date).Where("target_id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, &LookupError{Kind: KindTarget, Err: err}
	}
	return rows, nil
}

// PlacementsByCampaign returns the placement rows of the listed campaigns.
func (r *GormRepository) PlacementsByCampaign(ctx context.Context, accountID, date string, campaignIDs []string) ([]PlacementRow, error) {
	if len(campaignIDs) == 0 {
		return nil, nil
	}
	var rows []PlacementRow
	if err := r.scope(ctx, accountID, date).Where("campaign_id IN ?", campaignIDs).Find(&rows).Error; err != nil {
		return nil, &LookupError{Kind: KindPlacement, Err: err}
	}
	return rows, nil
}

func (r *GormRepository) scope(ctx context.Context, accountID, date string) *gorm.DB {
	return r.db.WithContext(ctx).Where("account_id = ? AND snapshot_date = ?", accountID, date)
}

// publishBatchSize bounds the number of rows per INSERT statement.
const publishBatchSize = 500

// Publish stores an export as one published snapshot. Rows of a previous
// publication of the same account and date are replaced. Normalized names are
// computed here so that the stored keys come from the shared normalizer.
func (r *GormRepository) Publish(ctx context.Context, export *Export) error {
	if export == nil || export.AccountID == "" {
		return fmt.Errorf("export requires an account_id")
	}
	if _, err := time.Parse(DateLayout, export.SnapshotDate); err != nil {
		return fmt.Errorf("invalid snapshot_date %q: %w", export.SnapshotDate, err)
	}

	accountID, date := export.AccountID, export.SnapshotDate

	for i := range export.Campaigns {
		row := &export.Campaigns[i]
		row.ID, row.AccountID, row.SnapshotDate = 0, accountID, date
		row.NameNorm = normalize.Name(row.Name)
	}
	for i := range export.AdGroups {
		row := &export.AdGroups[i]
		row.ID, row.AccountID, row.SnapshotDate = 0, accountID, date
		row.NameNorm = normalize.Name(row.Name)
	}
	for i := range export.Targets {
		row := &export.Targets[i]
		row.ID, row.AccountID, row.SnapshotDate = 0, accountID, date
		row.ExpressionNorm = normalize.Name(row.Expression)
		row.MatchType = normalize.MatchType(row.MatchType)
	}
	for i := range export.Placements {
		row := &export.Placements[i]
		row.ID, row.AccountID, row.SnapshotDate = 0, accountID, date
		row.PlacementNorm = normalize.Placement(row.Placement)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range Models() {
			if err := tx.Where("account_id = ? AND snapshot_date = ?", accountID, date).Delete(model).Error; err != nil {
				return fmt.Errorf("failed to clear previous rows: %w", err)
			}
		}

		if len(export.Campaigns) > 0 {
			if err := tx.CreateInBatches(&export.Campaigns, publishBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert campaigns: %w", err)
			}
		}
		if len(export.AdGroups) > 0 {
			if err := tx.CreateInBatches(&export.AdGroups, publishBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert ad groups: %w", err)
			}
		}
		if len(export.Targets) > 0 {
			if err := tx.CreateInBatches(&export.Targets, publishBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert targets: %w", err)
			}
		}
		if len(export.Placements) > 0 {
			if err := tx.CreateInBatches(&export.Placements, publishBatchSize).Error; err != nil {
				return fmt.Errorf("failed to insert placements: %w", err)
			}
		}

		pub := Publication{AccountID: accountID, SnapshotDate: date, PublishedAt: r.now().UTC()}
		if err := tx.Create(&pub).Error; err != nil {
			return fmt.Errorf("failed to record publication: %w", err)
		}
		return nil
	})
}
