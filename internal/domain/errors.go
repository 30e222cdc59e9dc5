package domain

import "errors"

// ErrInvalidInput indicates an email is missing the text fields required
// for classification. Surfaced per item; never aborts a batch.
var ErrInvalidInput = errors.New("invalid input: email has no subject or body")
