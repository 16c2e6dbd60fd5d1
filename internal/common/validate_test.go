package common

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type validateLine struct {
	Name  string `json:"name" validate:"required"`
	Price string `json:"price" validate:"required"`
}

type validateRequest struct {
	Products []validateLine `json:"products" validate:"required,min=1,dive"`
	Note     string         `json:"-" validate:"max=3"`
}

func TestValidationErrorsUseJSONPaths(t *testing.T) {
	v := NewValidator()
	err := v.Struct(validateRequest{Products: []validateLine{{Name: "Bread", Price: "1"}, {Price: "2"}}})
	require.Error(t, err)

	fields := ValidationErrors(err)
	require.Len(t, fields, 1)
	require.Equal(t, FieldError{Field: "products[1].name", Rule: "required"}, fields[0])
}

func TestValidationErrorsReportParam(t *testing.T) {
	v := NewValidator()
	fields := ValidationErrors(v.Struct(validateRequest{}))
	require.Len(t, fields, 1)
	require.Equal(t, "products", fields[0].Field)
	require.Equal(t, "required", fields[0].Rule)
}

func TestValidationErrorsIgnoresOtherErrors(t *testing.T) {
	require.Nil(t, ValidationErrors(nil))
	require.Nil(t, ValidationErrors(NewAppError("X", "y", 400, nil)))
}
