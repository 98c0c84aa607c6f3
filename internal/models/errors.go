package models

import "errors"

var ErrAuditImmutable = errors.New("admin actions are append-only")
