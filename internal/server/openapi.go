package server

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

//go:embed openapi.yaml
var openAPISpec []byte

// OpenAPI loads and validates the embedded description of the server's
// routes.
func OpenAPI(ctx context.Context) (*openapi3.T, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(openAPISpec)
	if err != nil {
		return nil, fmt.Errorf("server: load openapi document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("server: validate openapi document: %w", err)
	}
	return doc, nil
}

func openAPIJSON(ctx context.Context, title string) ([]byte, error) {
	doc, err := OpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	if title != "" {
		doc.Info.Title = title
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("server: encode openapi document: %w", err)
	}
	return payload, nil
}
