// Package sheets retrieves Google Sheets worksheets as normalized datasets.
//
// Two retrieval paths produce identical output:
//
//  1. the public CSV export endpoints (the default, needs no credentials)
//  2. the Sheets Values API, used when an API key is configured
//
// Both return a domain.Dataset whose rows are padded or truncated to the
// header length, with all-blank rows dropped. Fetch failures carry a closed
// error-kind taxonomy (argument / transport / network) on *FetchError.
package sheets
