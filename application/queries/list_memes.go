package queries

import (
	pkgerrors "memebrowser/pkg/errors"
	"memebrowser/pkg/utils"
)

// ListMemesQuery pages through every meme in id order
type ListMemesQuery struct {
	Page  int `validate:"gte=1"`
	Limit int `validate:"gte=1"`
}

// Validate validates the query
func (q ListMemesQuery) Validate() error {
	if err := utils.ValidateStruct(q); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}
