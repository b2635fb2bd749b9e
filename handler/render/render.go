package render

import (
	"encoding/json"
	"errors"
	"net/http"

	"lendex/core"

	"github.com/sirupsen/logrus"
)

type H map[string]interface{}

// JSON render with json
func JSON(w http.ResponseWriter, v interface{}) {
	Status(w, http.StatusOK, v)
}

// Status render v as json with the given status code
func Status(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	enc := json.NewEncoder(w)
	if err := enc.Encode(v); err != nil {
		logrus.WithError(err).Errorln("render.Status")
	}
}

// Error write error
func Error(w http.ResponseWriter, statusCode, errCode int, err error) {
	Status(w, statusCode, H{"code": errCode, "msg": err.Error()})
}

// BadRequest bad request error
func BadRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusBadRequest, -1, err)
}

// NotFoundRequest not found request error
func NotFoundRequest(w http.ResponseWriter, err error) {
	Error(w, http.StatusNotFound, -1, err)
}

// Err render err with the status of its error code
func Err(w http.ResponseWriter, err error) {
	code, ok := core.ErrorCodeOf(err)
	if !ok {
		logrus.WithError(err).Errorln("internal error")
		Error(w, http.StatusInternalServerError, int(core.ErrUnknown), errors.New(core.ErrUnknown.Error()))
		return
	}

	Error(w, StatusOf(code), int(code), err)
}

// StatusOf http status of an error code
func StatusOf(code core.ErrorCode) int {
	switch code {
	case core.ErrMarketNotFound, core.ErrPriceNotFound:
		return http.StatusNotFound
	case core.ErrMarketAlreadyExists, core.ErrVersionConflict:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
