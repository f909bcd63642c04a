// Package resolver looks up the current platform state of entities that
// pending mutation actions refer to by id.
//
// Resolve collects the distinct ids of each kind, pulls in the ad group and
// campaign of every target and the campaign of every ad group, and fetches
// the rows of the latest published snapshot in sorted chunks of at most
// PageSize ids. Each id is requested once per call. Ids that the snapshot does
// not contain are simply absent from the result.
//
// The result is built fresh on every call.
package resolver
