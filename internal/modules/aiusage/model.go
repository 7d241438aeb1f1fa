// README: Monthly trip-generation quota definitions.
package aiusage

import "errors"

// ErrInsufficientTokens is returned when a user has no tokens remaining for the current month.
var ErrInsufficientTokens = errors.New("insufficient tokens")

// DefaultTokens is the number of generations granted per month when no allowance is configured.
const DefaultTokens = 20

const monthLayout = "2006-01"
