package mariadb

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// erDupEntry is the server error number for a duplicate key.
const erDupEntry = 1062

// isDuplicateEntry reports whether err is a duplicate key error, optionally
// restricted to a named unique key. The key name is only available in the
// message ("Duplicate entry 'x' for key 'name'"), prefixed by the table on MySQL 8.
func isDuplicateEntry(err error, key string) bool {
	var myErr *mysql.MySQLError
	if !errors.As(err, &myErr) {
		return false
	}
	if myErr.Number != erDupEntry {
		return false
	}
	return key == "" || strings.Contains(myErr.Message, key)
}
