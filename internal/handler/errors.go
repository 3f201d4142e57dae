package handler

import (
	"fmt"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/session"
)

// BadRequestError indicates a malformed request body or parameter.
type BadRequestError struct {
	Message string
}

func (e *BadRequestError) Error() string {
	return e.Message
}

func badRequest(format string, args ...any) error {
	return &BadRequestError{Message: fmt.Sprintf(format, args...)}
}

// writeError maps domain errors to HTTP status codes and writes a
// {"code","message"} body. Unmapped errors are logged and reported as 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, msg := http.StatusInternalServerError, "internal server error"

	var brErr *BadRequestError
	switch {
	case errors.As(err, &brErr):
		code, msg = http.StatusBadRequest, brErr.Message
	case errors.Is(err, product.ErrInvalidPriceRange),
		errors.Is(err, product.ErrInvalidSort):
		code, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, session.ErrNotFound):
		code, msg = http.StatusNotFound, "session not found"
	case errors.Is(err, product.ErrNotFound):
		code, msg = http.StatusNotFound, "product not found"
	case errors.Is(err, cart.ErrItemNotFound):
		code, msg = http.StatusNotFound, "cart item not found"
	default:
		zctx.From(r.Context()).Error("Request failed", zap.Error(err))
	}

	writeJSON(w, code, func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("code")
		e.Int(code)
		e.FieldStart("message")
		e.Str(msg)
		e.ObjEnd()
	})
}
