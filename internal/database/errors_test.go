package database

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	unique := []error{
		gorm.ErrDuplicatedKey,
		fmt.Errorf("save field: %w", gorm.ErrDuplicatedKey),
		&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"},
		&pgconn.PgError{Code: "23505"},
		errors.New("UNIQUE constraint failed: form_fields.form_id, form_fields.label"),
	}
	for _, err := range unique {
		if !IsUniqueViolation(err) {
			t.Errorf("expected unique violation for %v", err)
		}
	}

	other := []error{
		nil,
		gorm.ErrRecordNotFound,
		&mysql.MySQLError{Number: 1213, Message: "Deadlock"},
		&pgconn.PgError{Code: "40001"},
	}
	for _, err := range other {
		if IsUniqueViolation(err) {
			t.Errorf("did not expect unique violation for %v", err)
		}
	}
}
