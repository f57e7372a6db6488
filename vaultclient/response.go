package vaultclient

// Response is a classified response from the Vault API. It is created once
// per request and should be treated as read-only.
type Response struct {
	// Data is the decoded JSON body. It is never nil - empty and unparseable
	// bodies of success-like responses decode to an empty map.
	Data map[string]any

	// Errors holds the "errors" array of the body, if one was present.
	Errors []string

	// StatusCode is the classification of the HTTP status code.
	StatusCode StatusCode
}

// NewResponse builds a Response from a decoded body and a raw HTTP status
// code. An unknown code fails with [ErrUnknownStatus].
func NewResponse(data map[string]any, code int, errs ...string) (*Response, error) {
	s, err := ParseStatusCode(code)
	if err != nil {
		return nil, err
	}

	if data == nil {
		data = map[string]any{}
	}

	if len(errs) == 0 {
		errs = nil
	}

	return &Response{Data: data, StatusCode: s, Errors: errs}, nil
}

// OK reports whether the response status is success-like.
func (r *Response) OK() bool {
	return r.StatusCode.OK()
}

// bodyErrors extracts the string entries of a Vault "errors" array
func bodyErrors(data map[string]any) []string {
	raw, ok := data["errors"].([]any)
	if !ok {
		return nil
	}

	errs := make([]string, 0, len(raw))

	for _, e := range raw {
		if s, ok := e.(string); ok {
			errs = append(errs, s)
		}
	}

	return errs
}
