package services

import "errors"

var (
	// ErrMissingSheetID indicates no spreadsheet ID came from the request or
	// the configured defaults.
	ErrMissingSheetID = errors.New("no spreadsheet id provided")

	// ErrNoData indicates the fetched worksheet had no header row or no
	// data rows.
	ErrNoData = errors.New("worksheet contains no data")
)
