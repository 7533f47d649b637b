package client

import (
	"strconv"

	"rawhttp/application/http"

	"github.com/pkg/errors"
)

const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

// The server is asked to close the connection after responding.
// The value is sent as "Closed" rather than the registered "close"; servers match it case-insensitively.
var baseFields = []http.Field{
	{Name: "Accept", Value: "*/*"},
	{Name: "Connection", Value: "Closed"},
}

// BuildGetRequest renders a GET request for target without a body.
func (c *Client) BuildGetRequest(target Target) ([]byte, error) {
	fields := c.commonFields(target)

	b, err := http.EncodeRequest(http.NewRequest(MethodGet, target.PathWithQuery, fields, nil), c.opts.Send.Encode)
	if err != nil {
		return nil, errors.Wrap(err, "encoding GET request")
	}
	return b, nil
}

// BuildPostRequest renders a POST request for target carrying form as its body.
// A form without fields sends an empty body and no Content-Type.
// A field without values still marks the body as a form, even though it encodes to nothing.
func (c *Client) BuildPostRequest(target Target, form http.Form) ([]byte, error) {
	body := form.Encode()

	fields := c.commonFields(target)
	fields = append(fields, http.Field{Name: "Content-Length", Value: strconv.Itoa(len(body))})
	if len(form) > 0 {
		fields = append(fields, http.Field{Name: "Content-Type", Value: http.FormContentType})
	}

	b, err := http.EncodeRequest(http.NewRequest(MethodPost, target.PathWithQuery, fields, []byte(body)), c.opts.Send.Encode)
	if err != nil {
		return nil, errors.Wrap(err, "encoding POST request")
	}
	return b, nil
}

func (c *Client) commonFields(target Target) []http.Field {
	fields := make([]http.Field, 0, len(baseFields)+3)
	fields = append(fields, http.Field{Name: "Host", Value: target.hostField()})
	fields = append(fields, baseFields...)
	return fields
}
