package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidFilterInput = errors.New("invalid filter input")
	ErrInvalidCatalogItem = errors.New("invalid catalog item")
	ErrEmptyCart          = errors.New("empty cart")
	ErrUnknownCurrency    = errors.New("unknown currency")
	ErrInvalidCustomer    = errors.New("invalid customer details")
	ErrOutOfStock         = errors.New("out of stock")
	ErrInvalidOption      = errors.New("invalid product option")
	ErrQuantityLimit      = errors.New("quantity limit exceeded")
)
