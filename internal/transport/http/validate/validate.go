package validate

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/baechuer/craft-marketplace/services/recs-service/internal/domain"
)

var validate = validator.New()

// DecodeJSON strictly decodes the request body into dst.
func DecodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// Struct runs validator tags over dst and converts failures into the
// platform validation error shape.
func Struct(dst any) error {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	meta := map[string]string{}
	if ok := errorsAs(err, &verrs); ok {
		for _, fe := range verrs {
			meta[fe.Field()] = "failed on " + fe.Tag()
		}
	}
	return domain.ErrValidationMeta("invalid request body", meta)
}

func errorsAs(err error, target *validator.ValidationErrors) bool {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		*target = verrs
		return true
	}
	return false
}
