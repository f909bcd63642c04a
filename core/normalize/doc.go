// Package normalize turns raw entity names into comparison keys.
//
// Manifest matching, snapshot ingestion and snapshot indexing all go through
// Name so that both sides of a natural-key join are produced by the same
// function. Any change here changes matching for every caller at once.
//
// # Usage
//
//	key := normalize.Name("  Summer   Sale ") // "summer sale"
//	p := normalize.Placement("PLACEMENT_TOP") // "top of search"
package normalize
