package repositories

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// mysqlDuplicateEntry is ER_DUP_ENTRY
const mysqlDuplicateEntry = 1062

// duplicateKey returns the name of the violated unique key, or "" when err is not a duplicate entry error
func duplicateKey(err error) (string, bool) {
	var mysqlErr *mysql.MySQLError
	if !errors.As(err, &mysqlErr) || mysqlErr.Number != mysqlDuplicateEntry {
		return "", false
	}
	// Message format: Duplicate entry 'x' for key 'users.email'
	idx := strings.LastIndex(mysqlErr.Message, "for key '")
	if idx < 0 {
		return "", true
	}
	key := strings.TrimSuffix(mysqlErr.Message[idx+len("for key '"):], "'")
	if dot := strings.LastIndex(key, "."); dot >= 0 {
		key = key[dot+1:]
	}
	return key, true
}

// mysqlNoReferencedRow is ER_NO_REFERENCED_ROW_2
const mysqlNoReferencedRow = 1452

// isForeignKeyViolation reports whether err is a failed foreign key check on insert or update
func isForeignKeyViolation(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == mysqlNoReferencedRow
}
