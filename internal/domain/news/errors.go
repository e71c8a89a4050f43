package news

// IllegalDateMessage is reported when year and month do not form a date.
const IllegalDateMessage = "Illegal date"

// BadDataRequestError signals client-supplied parameters that cannot be
// interpreted. It is the only validation failure returned to callers.
type BadDataRequestError struct {
	Message string
}

func (e *BadDataRequestError) Error() string {
	return e.Message
}

// NewIllegalDateError builds the error returned for an invalid year/month pair.
func NewIllegalDateError() *BadDataRequestError {
	return &BadDataRequestError{Message: IllegalDateMessage}
}
