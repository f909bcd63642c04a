// Package snapshot provides read access to the platform's periodic full-state
// exports ("snapshots").
//
// A snapshot is identified by an account and a snapshot date. Only dates that
// have a Publication row are visible: ingestion writes every row of a date
// first and the Publication last, inside one transaction.
//
// # Components
//
//   - Repository: backend accessor (GormRepository on *gorm.DB). Provides full
//     loads per entity kind and batched lookups by platform identifier.
//   - Snapshot: immutable, indexed, point-in-time view used by the reconcile
//     engine. Every lookup returns all candidates so the caller decides what
//     an ambiguous natural key means.
//   - Loader: caches Snapshots per account and date with singleflight
//     protection, so concurrent callers share one load.
//
// # Consistency
//
// LoadLatest resolves the latest published date once and loads every
// requested kind for that date only. Parent/child linkage (ad group to
// campaign, target to ad group) therefore always resolves against the same
// export.
//
// # Usage
//
//	repo := snapshot.NewGormRepository(db)
//	snap, err := snapshot.LoadLatest(ctx, repo, "ACC-1")
//	if errors.Is(err, snapshot.ErrNoSnapshot) {
//	    // nothing published yet, retry later
//	}
//	rows := snap.CampaignsByName(normalize.Name("Summer Sale"))
package snapshot
