package checks

import (
	"context"
	"errors"
	"time"

	"ads-reconciler/core/snapshot"
)

// SnapshotReport describes the latest published snapshot of an account.
type SnapshotReport struct {
	AccountID    string `json:"account_id"`
	Published    bool   `json:"published"`
	SnapshotDate string `json:"snapshot_date,omitempty"`
	AgeDays      int    `json:"age_days"`
}

// CheckSnapshot reports the latest published date and its age relative to now.
// An account without a publication is reported, not returned as an error.
func CheckSnapshot(ctx context.Context, repo snapshot.Repository, accountID string, now time.Time) (*SnapshotReport, error) {
	report := &SnapshotReport{AccountID: accountID}

	date, err := repo.LatestDate(ctx, accountID)
	if errors.Is(err, snapshot.ErrNoSnapshot) {
		return report, nil
	}
	if err != nil {
		return nil, err
	}

	report.Published = true
	report.SnapshotDate = date
	if day, err := time.Parse(snapshot.DateLayout, date); err == nil {
		today := now.UTC().Truncate(24 * time.Hour)
		report.AgeDays = int(today.Sub(day) / (24 * time.Hour))
	}
	return report, nil
}
