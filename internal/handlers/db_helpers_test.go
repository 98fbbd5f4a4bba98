package handlers

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
)

func TestIsDuplicateKey(t *testing.T) {
	t.Run("unique-key violation is detected", func(t *testing.T) {
		err := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry '1-2' for key 'reviews.product_id'"}
		if !isDuplicateKey(err) {
			t.Error("expected 1062 to be a duplicate key")
		}
	})

	t.Run("wrapped violation is still detected", func(t *testing.T) {
		err := fmt.Errorf("insert review: %w", &mysql.MySQLError{Number: 1062})
		if !isDuplicateKey(err) {
			t.Error("expected wrapped 1062 to be a duplicate key")
		}
	})

	t.Run("other mysql errors are not", func(t *testing.T) {
		if isDuplicateKey(&mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}) {
			t.Error("1452 should not be a duplicate key")
		}
	})

	t.Run("plain errors are not", func(t *testing.T) {
		if isDuplicateKey(errors.New("connection reset")) {
			t.Error("plain error should not be a duplicate key")
		}
		if isDuplicateKey(nil) {
			t.Error("nil should not be a duplicate key")
		}
	})
}
