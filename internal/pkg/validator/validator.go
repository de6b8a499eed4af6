package validator

import (
	"errors"
	"regexp"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

// имя набора данных = имя файла в бакете / ключ в таблице features
var datasetPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

func init() {
	validate = validator.New()
	_ = validate.RegisterValidation("dataset", func(fl validator.FieldLevel) bool {
		return datasetPattern.MatchString(fl.Field().String())
	})
}

// Validate - валидация структуры
func Validate(s interface{}) error {
	return validate.Struct(s)
}

// Details - поле -> нарушенное правило, для поля details в ответе об ошибке
func Details(err error) map[string]interface{} {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]interface{}{"error": err.Error()}
	}

	out := make(map[string]interface{}, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			out[fe.Field()] = fe.Tag() + "=" + fe.Param()
			continue
		}
		out[fe.Field()] = fe.Tag()
	}
	return out
}

// IsValidDataset проверяет имя набора данных вне структуры
func IsValidDataset(name string) bool {
	return datasetPattern.MatchString(name)
}
