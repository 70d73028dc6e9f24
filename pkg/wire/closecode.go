package wire

import "fmt"

// WebSocket close codes surfaced verbatim to the disconnect event.
const (
	CloseNormal          = 1000
	CloseGoingAway       = 1001
	CloseProtocolError   = 1002
	CloseUnsupported     = 1003
	CloseAbnormal        = 1006
	CloseInvalidPayload  = 1007
	ClosePolicyViolation = 1008
	CloseTooLarge        = 1009
	CloseInternalError   = 1011
	CloseServiceRestart  = 1012
	CloseTryAgainLater   = 1013
)

// closeCodeText maps common close codes to human-readable explanations.
// Presentational only; routing decisions use the numeric code.
var closeCodeText = map[int]string{
	CloseNormal:          "normal closure",
	CloseGoingAway:       "going away",
	CloseProtocolError:   "protocol error",
	CloseUnsupported:     "unsupported data",
	CloseAbnormal:        "abnormal closure",
	CloseInvalidPayload:  "invalid payload data",
	ClosePolicyViolation: "policy violation",
	CloseTooLarge:        "message too large",
	CloseInternalError:   "server error",
	CloseServiceRestart:  "service restart",
	CloseTryAgainLater:   "try again later",
}

// CloseCodeText returns a human-readable explanation for a close code.
func CloseCodeText(code int) string {
	if text, ok := closeCodeText[code]; ok {
		return text
	}
	return fmt.Sprintf("unknown close code %d", code)
}
