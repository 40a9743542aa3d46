package dto

import (
	"github.com/microshop/microshop/internal/model"
	"github.com/microshop/microshop/internal/service"
)

// ProductRequest is the body of POST and PUT /products. Absent fields stay nil.
type ProductRequest struct {
	Name  *string  `json:"name"`
	Price *float64 `json:"price"`
	Stock *int64   `json:"stock"`
}

// ToInput converts the request into service input.
func (r ProductRequest) ToInput() service.ProductInput {
	return service.ProductInput{Name: r.Name, Price: r.Price, Stock: r.Stock}
}

// DeleteProductResponse is returned by DELETE /products/{id}.
type DeleteProductResponse struct {
	Message string         `json:"message"`
	Product *model.Product `json:"product"`
}
