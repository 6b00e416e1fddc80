package match_bus

import (
	"errors"

	"github.com/rskv-p/busmatch/mod/m_match/match_type"
)

//---------------------
// Errors
//---------------------

var (
	// ErrPeerUnknown is returned for operations on a peer that was never added
	// or has been removed.
	ErrPeerUnknown = errors.New("unknown peer")

	// ErrPeerExists is returned when a peer id is registered twice.
	ErrPeerExists = errors.New("peer already exists")

	// ErrQuotaExceeded is returned when a peer holds too many match references.
	ErrQuotaExceeded = errors.New("match quota exceeded")
)

// D-Bus error names reported to remote peers.
const (
	ErrNameMatchRuleInvalid  = "org.freedesktop.DBus.Error.MatchRuleInvalid"
	ErrNameMatchRuleNotFound = "org.freedesktop.DBus.Error.MatchRuleNotFound"
	ErrNameLimitsExceeded    = "org.freedesktop.DBus.Error.LimitsExceeded"
	ErrNameInvalidArgs       = "org.freedesktop.DBus.Error.InvalidArgs"
	ErrNameFailed            = "org.freedesktop.DBus.Error.Failed"
)

// ErrorName maps a broker error to its D-Bus error name.
func ErrorName(err error) string {
	switch {
	case errors.Is(err, match_type.ErrInvalidSyntax):
		return ErrNameMatchRuleInvalid
	case errors.Is(err, match_type.ErrNotFound):
		return ErrNameMatchRuleNotFound
	case errors.Is(err, ErrQuotaExceeded):
		return ErrNameLimitsExceeded
	case errors.Is(err, ErrPeerUnknown), errors.Is(err, ErrPeerExists):
		return ErrNameInvalidArgs
	default:
		return ErrNameFailed
	}
}
