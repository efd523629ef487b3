package service

import (
	"bytes"
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch/v5"
	"github.com/wishstock/wishlist/common/apperr"
)

// applyMergePatch applies an RFC 7386 merge patch to current and decodes the
// result into out. Fields out does not declare are rejected.
func applyMergePatch(current any, patch []byte, out any) error {
	if len(bytes.TrimSpace(patch)) == 0 {
		return apperr.Invalid("patch body is empty")
	}

	original, err := json.Marshal(current)
	if err != nil {
		return err
	}

	merged, err := jsonpatch.MergePatch(original, patch)
	if err != nil {
		return apperr.Invalid("malformed merge patch: %v", err)
	}

	dec := json.NewDecoder(bytes.NewReader(merged))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return apperr.Invalid("patch not applicable: %v", err)
	}
	return nil
}
