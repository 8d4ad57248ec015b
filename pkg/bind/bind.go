// Package bind decodes and validates an HTTP request body into a struct.
package bind

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/config"
	"github.com/KaiiGritt/Bulan-lawlaw-delicacy-system-sub002/pkg/validate"
)

func maxBodyBytes() int64 {
	// MAX_BODY_BYTES caps request bodies, default 4 MB.
	if n := config.GetInt("MAX_BODY_BYTES", 4<<20); n > 0 {
		return int64(n)
	}
	return 4 << 20
}

// JSON decodes r.Body as a single JSON value into dest and validates it.
// Returns (errs, nil) on validation failures and (nil, err) when the
// body is malformed, too large, or carries trailing data.
func JSON(r *http.Request, dest interface{}) (errs map[string]string, err error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes())

	dec := json.NewDecoder(r.Body)
	if err = dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	if dec.More() {
		return nil, errors.New("invalid JSON: trailing data after value")
	}

	if errs = validate.Struct(dest); validate.HasErrors(errs) {
		return errs, nil
	}
	return nil, nil
}
