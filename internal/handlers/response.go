package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/tonzxz12/Findr-sub000/internal/apperrors"
	"github.com/tonzxz12/Findr-sub000/internal/logger"
	"github.com/tonzxz12/Findr-sub000/internal/middleware"
	"github.com/tonzxz12/Findr-sub000/internal/tenant"
)

var (
	errInvalidBody = apperrors.New(apperrors.CodeInvalid, "request body must be valid JSON")
	errBodyTooBig  = apperrors.New(apperrors.CodeTooLarge, "request body too large")
	errNoTenant    = apperrors.New(apperrors.CodeInternal, "tenant not resolved")
)

type baseHandler struct {
	logger *logger.Logger
}

func (h *baseHandler) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	middleware.WriteJSON(w, statusCode, data)
}

func (h *baseHandler) writeErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	middleware.WriteError(w, r, h.logger, err)
}

// decodeJSON reads a single JSON document from the request body
func decodeJSON(r *http.Request, dest interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return errInvalidBody
		}
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return apperrors.Wrap(err, errBodyTooBig.Code, errBodyTooBig.Message)
		}
		return apperrors.Wrap(err, apperrors.CodeInvalid, errInvalidBody.Message)
	}
	return nil
}

// requestTenant returns the tenant resolved by the tenant middleware
func requestTenant(r *http.Request) (tenant.Tenant, error) {
	t, ok := tenant.FromContext(r.Context())
	if !ok {
		return tenant.Tenant{}, errNoTenant
	}
	return t, nil
}

func pathVar(r *http.Request, name string) string {
	return mux.Vars(r)[name]
}
