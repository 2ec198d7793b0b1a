package api

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed backend.yaml
var backendDocument []byte

var ErrUndocumentedOperation = errors.New("operation is not described by the backend contract")

// Contract validates backend responses against the embedded OpenAPI document.
type Contract struct {
	doc *openapi3.T
}

func LoadContract() (*Contract, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(backendDocument)
	if err != nil {
		return nil, fmt.Errorf("loading backend contract: %w", err)
	}

	err = doc.Validate(loader.Context)
	if err != nil {
		return nil, fmt.Errorf("invalid backend contract: %w", err)
	}

	return &Contract{doc: doc}, nil
}

// ValidateResponse checks a JSON body returned for method and path. Statuses
// without a documented JSON schema are accepted as is.
func (c *Contract) ValidateResponse(method, path string, status int, body []byte) error {
	pathItem := c.doc.Paths.Value(path)
	if pathItem == nil {
		return fmt.Errorf("%s %s: %w", method, path, ErrUndocumentedOperation)
	}

	operation := pathItem.GetOperation(method)
	if operation == nil || operation.Responses == nil {
		return fmt.Errorf("%s %s: %w", method, path, ErrUndocumentedOperation)
	}

	response := operation.Responses.Status(status)
	if response == nil {
		response = operation.Responses.Default()
	}

	if response == nil || response.Value == nil {
		return nil
	}

	media := response.Value.Content.Get("application/json")
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil
	}

	var value any
	err := json.Unmarshal(body, &value)
	if err != nil {
		return fmt.Errorf("%s %s: decoding body: %w", method, path, err)
	}

	err = media.Schema.Value.VisitJSON(value)
	if err != nil {
		return fmt.Errorf("%s %s %d: %w", method, path, status, err)
	}

	return nil
}

// Operations lists the documented method and path pairs.
func (c *Contract) Operations() []string {
	var ops []string

	for path, item := range c.doc.Paths.Map() {
		for method := range item.Operations() {
			ops = append(ops, fmt.Sprintf("%s %s", method, path))
		}
	}

	return ops
}
