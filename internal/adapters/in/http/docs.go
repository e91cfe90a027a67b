package http

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var openapiYAML []byte

// apiDoc is the parsed OpenAPI document served at /openapi.json and
// handed to the swagger UI.
type apiDoc struct {
	json string
}

func (d *apiDoc) ReadDoc() string {
	return d.json
}

var (
	loadDocOnce sync.Once
	loadedDoc   *apiDoc
	loadDocErr  error
)

// loadAPIDoc parses and validates the embedded document and registers it
// with swag. The work is done once per process.
func loadAPIDoc() (*apiDoc, error) {
	loadDocOnce.Do(func() {
		loader := openapi3.NewLoader()
		doc, err := loader.LoadFromData(openapiYAML)
		if err != nil {
			loadDocErr = fmt.Errorf("load openapi document: %w", err)
			return
		}
		if err := doc.Validate(loader.Context); err != nil {
			loadDocErr = fmt.Errorf("validate openapi document: %w", err)
			return
		}
		raw, err := json.Marshal(doc)
		if err != nil {
			loadDocErr = fmt.Errorf("encode openapi document: %w", err)
			return
		}

		loadedDoc = &apiDoc{json: string(raw)}
		swag.Register(swag.Name, loadedDoc)
	})
	return loadedDoc, loadDocErr
}
