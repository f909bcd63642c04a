// Package reconcile binds creation manifests to the platform ids published in
// the latest snapshot and drives manifests through the queue.
//
// # Matching
//
// Reconcile resolves entities in dependency order. Campaigns match on their
// normalized name. Ad groups match on the resolved campaign id plus their
// normalized name, so an ad group whose campaign did not match never matches.
// Keywords match on the resolved ad group id, the normalized expression and
// the normalized match type. Product ads have no id in the snapshot; they are
// confirmed when their parent ad group exists and are reported with
// confirmation "parent_ad_group" and a null ad_id.
//
// A lookup with zero candidates reports "not_found". More than one candidate
// reports "ambiguous" and is never bound.
//
// # Passes
//
// A Runner performs one reconciliation pass:
//
//  1. obtain the pass lock of the account
//  2. load the latest snapshot once
//  3. Plan: read and reconcile every pending manifest
//  4. Apply: move fully matched manifests to reconciled and structurally
//     invalid ones to failed, each with its sidecar
//
// Partially matched manifests stay pending. A manifest another pass already
// moved is counted as skipped. Dry runs stop after Plan.
//
// # Usage
//
//	runner := &reconcile.Runner{
//	    Store:     store,
//	    Snapshots: snapshot.NewLoader(repo, 0),
//	    AccountID: cfg.Reconcile.AccountID,
//	    Locker:    locker,
//	    Logger:    logger,
//	}
//	report, err := runner.Run(ctx, reconcile.Options{DryRun: true})
package reconcile
