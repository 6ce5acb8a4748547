package ports

import "go.trai.ch/kunlun/internal/core/domain"

// SchemaInferrer derives an operator schema string from a signature.
//
//go:generate go run go.uber.org/mock/mockgen -source=schema.go -destination=mocks/mock_schema.go -package=mocks
type SchemaInferrer interface {
	// Infer returns the schema of sig, without the operator name, marking
	// the parameters named in mutates as written in place.
	Infer(sig domain.Signature, mutates []string) (string, error)
}
