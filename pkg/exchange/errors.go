package exchange

import "fmt"

// ErrUnknownClient is returned when a client id cannot be resolved after its
// secret was already validated upstream. This indicates a configuration
// inconsistency, not an end-user error.
type ErrUnknownClient struct {
	ClientID string
}

func (e ErrUnknownClient) Error() string {
	return fmt.Sprintf("the application details cannot be found for client: %s", e.ClientID)
}

// ErrInvalidCredentials is returned for an unknown username, a wrong password
// and a locked-out account alike, so callers cannot enumerate accounts
type ErrInvalidCredentials struct{}

func (e ErrInvalidCredentials) Error() string {
	return "the username/password couple is invalid"
}

// ErrUnsupportedGrantType is returned when the requested grant type is not implemented
type ErrUnsupportedGrantType struct {
	GrantType string
}

func (e ErrUnsupportedGrantType) Error() string {
	return fmt.Sprintf("the specified grant type is not supported: %s", e.GrantType)
}

// ErrInternal wraps storage or infrastructure failures that are fatal for the request
type ErrInternal struct {
	Err error
}

func (e ErrInternal) Error() string {
	return fmt.Sprintf("internal error: %v", e.Err)
}

func (e ErrInternal) Unwrap() error {
	return e.Err
}
