// AngelaMos | 2026
// client_test.go

package remote

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func TestOne(t *testing.T) {
	var r row
	err := One(json.RawMessage(`[{"id":"u1","name":"Aisha"}]`), &r)
	require.NoError(t, err)
	assert.Equal(t, row{ID: "u1", Name: "Aisha"}, r)

	err = One(json.RawMessage(`[]`), &r)
	re, ok := AsRemoteError(err)
	require.True(t, ok)
	assert.Equal(t, CodeSingleRow, re.Code)
	assert.Equal(t, "The result contains 0 rows", re.Details)
	assert.ErrorIs(t, err, ErrNoRows)

	err = One(json.RawMessage(`[{"id":"a"},{"id":"b"}]`), &r)
	assert.ErrorIs(t, err, ErrNoRows)
}

func TestFirst(t *testing.T) {
	var r row
	found, err := First(json.RawMessage(`[]`), &r)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = First(json.RawMessage(`[{"id":"a"},{"id":"b"}]`), &r)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a", r.ID)
}

func TestDecodeFailures(t *testing.T) {
	var rows []row
	err := Many(json.RawMessage(`{"not":"an array"}`), &rows)

	var de *DecodeError
	assert.ErrorAs(t, err, &de)

	var r row
	_, err = First(json.RawMessage(`nope`), &r)
	assert.ErrorAs(t, err, &de)
}

func TestTranslate(t *testing.T) {
	pgErr := &pgconn.PgError{
		Code:    "23505",
		Message: `duplicate key value violates unique constraint "likes_user_post_key"`,
		Detail:  "Key (user_id, post_id)=(u1, p1) already exists.",
	}

	re, ok := AsRemoteError(translate(pgErr))
	require.True(t, ok)
	assert.Equal(t, "23505", re.Code)
	assert.Equal(t, pgErr.Detail, re.Details)
	assert.ErrorIs(t, re, pgErr)

	re, ok = AsRemoteError(translate(errors.New("connection refused")))
	require.True(t, ok)
	assert.Empty(t, re.Code)
	assert.Equal(t, "connection refused", re.Error())
}
