package api

import (
	"biosearch/app/graph/query"

	"github.com/go-playground/validator/v10"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	_ = v.RegisterValidation("reltype", func(fl validator.FieldLevel) bool {
		return query.ValidRelationship(fl.Field().String())
	})

	return v
}
