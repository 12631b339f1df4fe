package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKind(t *testing.T) {
	assert.Equal(t, KindNotFound, Kind(ErrNotFound))
	assert.Equal(t, KindNotFound, Kind(sql.ErrNoRows))
	assert.Equal(t, KindNotFound, Kind(fmt.Errorf("get school 7: %w", ErrNotFound)))
	assert.Equal(t, KindStorageFailure, Kind(errors.New("connection refused")))
	assert.Equal(t, KindStorageFailure, Kind(sql.ErrConnDone))
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "not_found", KindNotFound.String())
	assert.Equal(t, "storage_failure", KindStorageFailure.String())
	assert.Equal(t, "ErrorKind(9)", ErrorKind(9).String())
}
