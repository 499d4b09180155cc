// Package product serves the static product catalogue.
package product

import (
	"context"

	"github.com/morezero/employee-service/pkg/mediator"
)

// NameGetAll is the request name of GetAllQuery.
const NameGetAll = "product.getAll"

// Product is a catalogue entry.
type Product struct {
	ID int `json:"id"`
}

// GetAllResult wraps the catalogue.
type GetAllResult struct {
	Data []Product `json:"data"`
}

// GetAllQuery lists the catalogue.
type GetAllQuery struct {
	mediator.Returns[GetAllResult]
}

func (GetAllQuery) RequestName() string { return NameGetAll }

// HandleGetAll returns the fixed catalogue.
func HandleGetAll(_ context.Context, _ GetAllQuery) (GetAllResult, error) {
	return GetAllResult{Data: []Product{{ID: 1}, {ID: 2}}}, nil
}

// Register binds the product handlers to m.
func Register(m *mediator.Mediator) {
	mediator.Register(m, HandleGetAll)
}
