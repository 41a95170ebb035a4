package connection

const (
	CodeSessionID uint8 = iota
	CodePlaceFleet
	CodeShoot
	CodeForget
	CodeInvalidSignal

	// if the req msg does not contain "code" field
	CodeSignalAbsent

	// Storage or other unexpected failure while serving a request
	CodeInternalError
)

type Signal struct {
	Code uint8 `json:"code"`
}

func NewSignal(code uint8) Signal {
	return Signal{Code: code}
}
