package product

import (
	"context"
	"testing"

	"github.com/morezero/employee-service/pkg/mediator"
)

func TestGetAll(t *testing.T) {
	m := mediator.New()
	Register(m)

	res, err := mediator.Send[GetAllResult](context.Background(), m, GetAllQuery{})
	if err != nil {
		t.Fatalf("product:product_test - unexpected error: %v", err)
	}
	if len(res.Data) != 2 || res.Data[0].ID != 1 || res.Data[1].ID != 2 {
		t.Errorf("product:product_test - unexpected catalogue %+v", res.Data)
	}
}
