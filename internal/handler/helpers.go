// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/lagrandiose/grandiose/internal/imaging"
	"github.com/lagrandiose/grandiose/internal/model"
	"github.com/lagrandiose/grandiose/internal/service"
	"github.com/lagrandiose/grandiose/internal/util"
)

// maxFormMemory bounds the in-memory part of multipart forms; larger
// uploads spill to temporary files.
const maxFormMemory = imaging.MaxUploadSize + 1<<20

// byLocale indexes translation records by locale code for form templates.
func byLocale[T model.Localized](records []T) map[string]T {
	out := make(map[string]T, len(records))
	for _, r := range records {
		out[r.LocaleCode()] = r
	}
	return out
}

// formLocaleValues returns field_<code> for every supported locale.
func formLocaleValues(r *http.Request, field string) map[string]string {
	out := make(map[string]string, len(model.SupportedLocales))
	for _, code := range model.SupportedLocales {
		out[code] = r.FormValue(field + "_" + code)
	}
	return out
}

// parseEntityForm parses urlencoded and multipart bodies alike.
func parseEntityForm(w http.ResponseWriter, r *http.Request) error {
	if strings.HasPrefix(r.Header.Get(HeaderContentType), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormMemory+1<<20)
		return r.ParseMultipartForm(maxFormMemory)
	}
	return r.ParseForm()
}

// formInt64 parses a non-negative integer form field; blank means 0.
func formInt64(r *http.Request, field string) (int64, bool) {
	v := strings.TrimSpace(r.FormValue(field))
	if v == "" {
		return 0, true
	}
	n, err := strconv.ParseInt(v, 10, 64)
	return n, err == nil && n >= 0
}

// formOptionalID parses an optional foreign key field.
func formOptionalID(r *http.Request, field string) *int64 {
	return util.PtrFromNullInt64(util.ParseNullInt64Positive(r.FormValue(field)))
}

// validationFields returns the field errors of err, or nil.
func validationFields(err error) map[string]string {
	if ve, ok := service.AsValidationError(err); ok {
		return ve.Fields
	}
	return nil
}

// imageChange tracks an uploaded replacement so it can be undone when the
// record fails to save.
type imageChange struct {
	images *imaging.Processor
	old    string
	URL    string
}

// changed reports whether the stored URL must be replaced.
func (c imageChange) changed() bool {
	return c.URL != c.old
}

// commit deletes the replaced image after the record was saved.
func (c imageChange) commit() {
	if c.changed() && c.old != "" {
		if err := c.images.Delete(c.old); err != nil {
			slog.Warn("failed to delete replaced image", "url", c.old, "error", err)
		}
	}
}

// rollback deletes a freshly uploaded image after a failed save.
func (c imageChange) rollback() {
	if c.changed() && c.URL != "" {
		if err := c.images.Delete(c.URL); err != nil {
			slog.Warn("failed to delete orphan upload", "url", c.URL, "error", err)
		}
	}
}

// receiveImage processes the file posted under field. Without a file the
// current URL is kept, unless remove_<field> is checked.
func receiveImage(r *http.Request, images *imaging.Processor, field, kind, current string) (imageChange, error) {
	change := imageChange{images: images, old: current, URL: current}

	if r.FormValue("remove_"+field) != "" {
		change.URL = ""
	}

	if r.MultipartForm == nil {
		return change, nil
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return change, nil
		}
		return change, err
	}
	defer func() { _ = file.Close() }()

	if header.Size == 0 {
		return change, nil
	}
	if header.Size > imaging.MaxUploadSize {
		return change, &service.ValidationError{Fields: map[string]string{field: "validation.image_size"}}
	}

	res, err := images.Save(kind, file)
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		return change, &service.ValidationError{Fields: map[string]string{field: "validation.image_size"}}
	case errors.Is(err, imaging.ErrUnsupportedFormat):
		return change, &service.ValidationError{Fields: map[string]string{field: "validation.image"}}
	case err != nil:
		return change, err
	}
	change.URL = res.URL
	return change, nil
}
