package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewQueryDBRejectsUnknownDriver(t *testing.T) {
	db, err := NewQueryDB("oracle", "whatever")
	assert.Nil(t, db)
	assert.EqualError(t, err, "unsupported query database driver: oracle")
}
