package app

import (
	"errors"
	"fmt"
	"strings"

	"qiyas/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// checkInput runs struct validation and folds failures into a
// domain.ErrValidation naming the offending fields.
func checkInput(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", domain.ErrValidation, strings.Join(msgs, ", "))
}
