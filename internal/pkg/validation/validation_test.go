package validation

import (
	"errors"
	"testing"

	"github.com/gdugdh24/dejavu-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Category string `json:"category" binding:"required,oneof=formative growth"`
	Age      *int   `json:"age_when_happened" binding:"omitempty,min=0,max=100"`
}

func intPtr(i int) *int { return &i }

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(&sample{Category: "growth"}))
	assert.NoError(t, Struct(&sample{Category: "growth", Age: intPtr(0)}))

	tests := []struct {
		name  string
		in    sample
		field string
	}{
		{"missing category", sample{}, "category"},
		{"unknown category", sample{Category: "other"}, "category"},
		{"age too high", sample{Category: "growth", Age: intPtr(101)}, "age_when_happened"},
		{"age negative", sample{Category: "growth", Age: intPtr(-1)}, "age_when_happened"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.in)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrValidation)

			var verr *domain.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestFromValidator_OtherErrors(t *testing.T) {
	err := FromValidator(errors.New("unexpected EOF"))
	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "body", verr.Field)
}
