// Package manifest defines creation manifests: the batch records a bulk-file
// generator writes when it submits new campaigns, ad groups, product ads and
// keywords to the ads platform.
//
// A manifest only carries natural keys (names). Platform identifiers are
// learned later by the reconcile package, when a published snapshot contains
// the entities.
//
// Parse is the single entry point for untrusted bytes. It decodes the JSON and
// validates its shape; a manifest that fails either step is structurally
// invalid and is never partially processed.
package manifest
