package response

// ErrorEntry is a single entry in the envelope's error list. Code is
// reserved for machine-readable sub-codes and is omitted while unset.
type ErrorEntry struct {
	Id      string `json:"Id"`
	Code    string `json:"Code,omitempty"`
	Message string `json:"Message"`
}

// TokenResponseEnvelope wraps every token endpoint reply, success or denial,
// in one uniform shape. Field casing is part of the wire contract.
type TokenResponseEnvelope struct {
	StatusCode int                    `json:"StatusCode"`
	IsSuccess  bool                   `json:"IsSuccess"`
	Result     map[string]interface{} `json:"Result"`
	Errors     []ErrorEntry           `json:"Errors"`
}
