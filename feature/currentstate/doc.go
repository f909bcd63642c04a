// Package currentstate exposes the current state resolver over HTTP.
//
// POST /current-state/resolve takes {"actions":[...]} and answers with the
// current state of every referenced entity and its ancestry, read from the
// latest published snapshot. Invalid actions answer 400, an account without
// a published snapshot answers 404 and backend failures answer 502.
package currentstate
