package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mixit-delights/storefront/internal/domain"
)

type stubRow struct {
	doc []byte
	err error
}

func (r stubRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	*(dest[0].(*[]byte)) = r.doc
	return nil
}

// singleRowDB serves one canned row; everything else is off-limits for the
// read path under test.
type singleRowDB struct {
	row stubRow
}

func (d *singleRowDB) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	return nil, errors.New("unexpected Query")
}

func (d *singleRowDB) QueryRow(ctx context.Context, sql string, args ...any) Row {
	return d.row
}

func (d *singleRowDB) Exec(ctx context.Context, sql string, args ...any) (CommandTag, error) {
	return nil, errors.New("unexpected Exec")
}

func (d *singleRowDB) Begin(ctx context.Context) (Tx, error) {
	return nil, errors.New("unexpected Begin")
}

func (d *singleRowDB) Close() {}

func TestProfileGetReturnsEmptyProfileWhenMissing(t *testing.T) {
	repo := NewProfileRepository(&singleRowDB{row: stubRow{err: pgx.ErrNoRows}})

	profile, err := repo.Get(context.Background(), "user-1")
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.False(t, profile.Complete())
	assert.Empty(t, profile.SavedLocations)
}

func TestProfileGetPropagatesStoreFailure(t *testing.T) {
	repo := NewProfileRepository(&singleRowDB{row: stubRow{err: errors.New("connection refused")}})

	profile, err := repo.Get(context.Background(), "user-1")
	require.Error(t, err)
	assert.ErrorContains(t, err, "connection refused")
	assert.Nil(t, profile, "a store outage must not look like a blank profile")
}

func TestProfileGetDecodesStoredDoc(t *testing.T) {
	doc, err := json.Marshal(domain.UserProfile{
		Name:  "Ada Obi",
		Email: "ada@example.com",
		Phone: "+2348012345678",
		SavedLocations: []domain.Location{
			{Name: "Home", Lat: 10.52, Lng: 7.43},
		},
	})
	require.NoError(t, err)

	repo := NewProfileRepository(&singleRowDB{row: stubRow{doc: doc}})

	profile, err := repo.Get(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Obi", profile.Name)
	assert.Len(t, profile.SavedLocations, 1)
	assert.True(t, profile.Complete())
}
