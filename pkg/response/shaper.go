package response

import (
	"errors"
	"net/http"
	"strings"

	"github.com/tendant/simple-oauth2/pkg/exchange"
	"github.com/tendant/simple-oauth2/pkg/principal"
)

// OAuth2 error identifiers carried in the envelope's error list
const (
	ErrorInvalidClient        = "invalid_client"
	ErrorInvalidGrant         = "invalid_grant"
	ErrorUnsupportedGrantType = "unsupported_grant_type"
	ErrorServerError          = "server_error"
)

// Shape wraps the issued token parameters into a success envelope. The
// parameter map is carried verbatim; exactly one of Result and Errors is set.
func Shape(params map[string]interface{}) TokenResponseEnvelope {
	return TokenResponseEnvelope{
		StatusCode: http.StatusOK,
		IsSuccess:  true,
		Result:     params,
	}
}

// ShapeError maps an exchange denial onto the error envelope. Unknown clients
// and storage failures are configuration or infrastructure faults and shape as
// 5xx; credential and grant-type denials are caller errors and shape as 4xx.
func ShapeError(err error) TokenResponseEnvelope {
	var (
		unknownClient      exchange.ErrUnknownClient
		invalidCredentials exchange.ErrInvalidCredentials
		unsupportedGrant   exchange.ErrUnsupportedGrantType
	)

	switch {
	case errors.As(err, &unknownClient):
		return errorEnvelope(http.StatusInternalServerError, ErrorInvalidClient,
			"The application details cannot be found in the database.")
	case errors.As(err, &invalidCredentials):
		return errorEnvelope(http.StatusBadRequest, ErrorInvalidGrant,
			"The username/password couple is invalid.")
	case errors.As(err, &unsupportedGrant):
		return errorEnvelope(http.StatusBadRequest, ErrorUnsupportedGrantType,
			"The specified grant type is not supported.")
	default:
		return errorEnvelope(http.StatusInternalServerError, ErrorServerError,
			"An internal error has occurred.")
	}
}

// ShapeIntrospection wraps an introspected principal into the envelope. The
// claims view is augmented with a Name field and, when the principal carries
// role claims, a Role field holding every role value.
func ShapeIntrospection(p *principal.Principal) TokenResponseEnvelope {
	result := map[string]interface{}{
		"active": true,
		"sub":    p.Subject,
	}
	if len(p.Scopes) > 0 {
		result["scope"] = strings.Join(p.Scopes, " ")
	}
	if p.AuthorizationID != "" {
		result["authorization_id"] = p.AuthorizationID
	}

	if name, ok := p.FirstClaim(principal.ClaimName); ok {
		result["Name"] = name
	}
	if roles := p.ClaimValues(principal.ClaimRole); len(roles) > 0 {
		result["Role"] = roles
	}

	return Shape(result)
}

func errorEnvelope(statusCode int, id, message string) TokenResponseEnvelope {
	return TokenResponseEnvelope{
		StatusCode: statusCode,
		IsSuccess:  false,
		Errors: []ErrorEntry{
			{Id: id, Message: message},
		},
	}
}
