package types

import "errors"

var (
	ErrNoProfilesFound       = errors.New("no AWS profiles found. Please configure AWS CLI first")
	ErrNoValidProfilesFound  = errors.New("none of the specified profiles were found in AWS configuration")
	ErrNoAccountsAnalysed    = errors.New("no account could be analysed")
	ErrInvalidLookback       = errors.New("lookback days must be between 1 and 365")
	ErrUnsupportedReportType = errors.New("unsupported report type")
)
