package queries

import (
	"strings"

	pkgerrors "memebrowser/pkg/errors"
	"memebrowser/pkg/utils"
)

// SearchMemesQuery pages through the memes that pass a tag and title filter.
// Blank Query and empty Tag mean no constraint; every entry of Tags is required.
type SearchMemesQuery struct {
	Page  int `validate:"gte=1"`
	Limit int `validate:"gte=1"`
	Query string
	Tag   string
	Tags  []string
}

// Validate validates the query
func (q SearchMemesQuery) Validate() error {
	if err := utils.ValidateStruct(q); err != nil {
		return pkgerrors.NewValidationError(err.Error())
	}
	return nil
}

// HasTextFilter reports whether titles must match Query. A blank Query is no
// constraint; any other Query is matched exactly as given.
func (q SearchMemesQuery) HasTextFilter() bool {
	return strings.TrimSpace(q.Query) != ""
}
