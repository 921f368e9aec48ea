package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/rpupo63/portfolio-cms-backend/errs"
	"github.com/rpupo63/portfolio-cms-backend/services"
)

const (
	maxJSONBody   = 1 << 20
	maxUploadBody = 16 << 20
)

// decodeJSON reads a JSON body into dst, mapping decoder failures to API errors
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		var typeErr *json.UnmarshalTypeError
		switch {
		case errors.Is(err, io.EOF):
			return errs.NewMalformedPayloadError("JSON", err)
		case errors.As(err, &maxErr):
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		case errors.As(err, &typeErr):
			return errs.NewFieldValidationError(typeErr.Field, "has the wrong type")
		default:
			return errs.NewInvalidJSONError(err)
		}
	}
	return nil
}

// parseID reads a positive integer id from the named URL parameter
func parseID(r *http.Request, param string) (uint, error) {
	raw := chi.URLParam(r, param)
	if raw == "" {
		return 0, errs.NewMissingRequiredFieldError(param)
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errs.NewBadRequestError("invalid " + param)
	}
	return uint(id), nil
}

func queryBool(r *http.Request, key string) (value bool, ok bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return false, false
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return b, true
}

func queryInt(r *http.Request, key string, def int) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return def
	}
	return n
}

// formBool treats "1", "true" and "on" as set
func formBool(r *http.Request, key string) bool {
	switch strings.ToLower(r.FormValue(key)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}

// formUpload returns the uploaded file under key, or nil when none was sent.
// The caller closes the returned closer.
func formUpload(r *http.Request, key string) (*services.Upload, io.Closer, error) {
	file, header, err := r.FormFile(key)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, errs.NewMalformedPayloadError("multipart", err)
	}
	return &services.Upload{Name: header.Filename, Size: header.Size, Content: file}, file, nil
}

func parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxUploadBody); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return errs.NewMaxBodySizeExceededError(maxErr.Limit)
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return errs.NewUnsupportedMediaTypeError(r.Header.Get("Content-Type"), []string{"multipart/form-data"})
		}
		return errs.NewMalformedPayloadError("multipart", err)
	}
	return nil
}
