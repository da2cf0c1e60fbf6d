package utils

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"
)

// Error taxonomy. Every user-visible failure maps to exactly one of these;
// store-layer faults on malformed identifiers are normalized to not_found at
// the handler boundary, ownership failures to forbidden.

func JSONError(ctx iris.Context, status int, code, message string) {
	ctx.StatusCode(status)
	ctx.JSON(iris.Map{"error": code, "message": message})
}

func CreateNotFound(ctx iris.Context, message string) {
	JSONError(ctx, http.StatusNotFound, "not_found", message)
}

func CreateForbidden(ctx iris.Context, message string) {
	JSONError(ctx, http.StatusForbidden, "forbidden", message)
}

func CreateConflict(ctx iris.Context, message string) {
	JSONError(ctx, http.StatusConflict, "conflict", message)
}

func CreateValidationError(ctx iris.Context, message string) {
	JSONError(ctx, http.StatusUnprocessableEntity, "validation_error", message)
}

func CreateInternalServerError(ctx iris.Context) {
	JSONError(ctx, http.StatusInternalServerError, "server_error", "an internal server error occurred")
}

// HandleValidationErrors renders validator.v10 field errors from ReadJSON as
// a 422 with per-field details; any other decode error becomes a 400.
func HandleValidationErrors(err error, ctx iris.Context) {
	if errs, ok := err.(validator.ValidationErrors); ok {
		fields := make([]iris.Map, 0, len(errs))
		for _, fe := range errs {
			fields = append(fields, iris.Map{
				"field": fe.Field(),
				"tag":   fe.Tag(),
				"param": fe.Param(),
			})
		}
		ctx.StatusCode(http.StatusUnprocessableEntity)
		ctx.JSON(iris.Map{"error": "validation_error", "fields": fields})
		return
	}
	JSONError(ctx, http.StatusBadRequest, "invalid_payload", err.Error())
}
