package handlers

import (
	"errors"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"pgn_backend/internal/models"
)

var (
	registerOnce sync.Once
	registerErr  error
)

// RegisterValidators adds the custom binding tags used by request bodies.
// orgrole accepts org_admin, process_owner and viewer. notblank rejects
// strings that are empty once trimmed.
func RegisterValidators() error {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			registerErr = errors.New("gin validator is not go-playground/validator")
			return
		}
		registerErr = errors.Join(
			v.RegisterValidation("orgrole", func(fl validator.FieldLevel) bool {
				return models.OrgRole(fl.Field().String()).Valid()
			}),
			v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
				return strings.TrimSpace(fl.Field().String()) != ""
			}),
		)
	})
	return registerErr
}
