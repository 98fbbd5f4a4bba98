package handlers

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// isDuplicateKey reports whether err is a MySQL unique-key violation
// (error 1062). Used wherever the schema enforces uniqueness: user
// emails, coupon codes, product slugs, one-review-per-product-per-user.
func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}
