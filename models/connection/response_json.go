package connection

import "github.com/saeidalz13/battleship-solo/models/battleship"

const (
	MsgMissingSessionKey = "No consumer key found."
	MsgNoFleetFound      = "No ship(s) were found to shoot."
	MsgInternalFailure   = "Something went wrong, please try again."
	MsgSessionCleared    = "Session cleared."
	MsgNotEnoughSpace    = "Not enough space found."
	MsgShipNotFound      = "Ship not found."
)

type RespSessionId struct {
	SessionID string `json:"session_id"`
}

type RespSessionKey struct {
	SessionKey string `json:"session_key"`
}

type RespFleet = Result[battleship.Fleet]

type RespShot = Result[battleship.ShotResult]

type RespAnalytics struct {
	FleetsPlaced int64 `json:"fleets_placed"`
	ShotsFired   int64 `json:"shots_fired"`
}

type RespErr struct {
	ErrorDetails string `json:"error_details,omitempty"`
	Message      string `json:"message,omitempty"`
}

func NewRespErr(errorDetails, message string) *RespErr {
	return &RespErr{
		ErrorDetails: errorDetails,
		Message:      message,
	}
}
