package domain

import "errors"

var ErrBucketNotConfigured = errors.New("GCS_BUCKET environment variable must be set")
