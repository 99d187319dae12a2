package eventstore

import (
	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

func historyErr(op, path string, cause error) error {
	b := errors.WrapError(cause, errors.CategoryHistory, "build history: "+op)
	if path != "" {
		b = b.WithContext("path", path)
	}
	return b.Build()
}
