package credential

import (
	"github.com/go-playground/validator/v10"

	"github.com/Fidenz/fi-verifiable-data/pkg/verrors"
)

var validate = validator.New()

// constructionInput is validated at New time so a caller gets a
// FieldCasting error up front rather than a credential that silently
// carries an empty id. validFrom is stamped internally by New and is
// never caller-supplied, so it is not part of this check.
type constructionInput struct {
	ID string `validate:"required"`
}

func validateConstruction(id string) error {
	if err := validate.Struct(constructionInput{ID: id}); err != nil {
		return verrors.New("VC.New", verrors.FieldCasting, err)
	}
	return nil
}
