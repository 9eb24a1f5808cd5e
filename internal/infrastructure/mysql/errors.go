package mysql

import (
	"errors"

	driver "github.com/go-sql-driver/mysql"
)

const (
	// ER_DUP_ENTRY: a unique or primary key already holds the value.
	errDuplicateEntry = 1062
	// ER_ROW_IS_REFERENCED_2: a foreign key still points at the row.
	errRowIsReferenced = 1451
)

// IsDuplicateKey reports whether err carries MySQL's unique constraint violation signal.
func IsDuplicateKey(err error) bool {
	return hasErrorNumber(err, errDuplicateEntry)
}

func IsRowReferenced(err error) bool {
	return hasErrorNumber(err, errRowIsReferenced)
}

func hasErrorNumber(err error, number uint16) bool {
	var mysqlErr *driver.MySQLError
	if errors.As(err, &mysqlErr) {
		return mysqlErr.Number == number
	}
	return false
}
