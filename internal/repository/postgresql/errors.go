package postgresql

import "errors"

// Postgres error code for unique constraint violations.
const uniqueViolation = "23505"

func errAs(err error, target interface{}) bool {
	return errors.As(err, target)
}
