package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// DBTestSuite provides a test suite for key/value operations
type DBTestSuite struct {
	suite.Suite
	db *DB
}

// SetupTest runs before each test
func (suite *DBTestSuite) SetupTest() {
	db, err := NewDB(":memory:")
	require.NoError(suite.T(), err, "failed to create test database")
	suite.db = db
}

// TearDownTest runs after each test
func (suite *DBTestSuite) TearDownTest() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *DBTestSuite) TestGetMissingKey() {
	value, ok, err := suite.db.Get(KeyToken)
	require.NoError(suite.T(), err)
	assert.False(suite.T(), ok)
	assert.Empty(suite.T(), value)
}

func (suite *DBTestSuite) TestSetAndGet() {
	require.NoError(suite.T(), suite.db.Set(KeyToken, "abc"))

	value, ok, err := suite.db.Get(KeyToken)
	require.NoError(suite.T(), err)
	assert.True(suite.T(), ok)
	assert.Equal(suite.T(), "abc", value)
}

func (suite *DBTestSuite) TestSetOverwrites() {
	require.NoError(suite.T(), suite.db.Set(KeyToken, "first"))
	require.NoError(suite.T(), suite.db.Set(KeyToken, "second"))

	value, _, err := suite.db.Get(KeyToken)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "second", value)

	keys, err := suite.db.Keys()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{KeyToken}, keys)
}

func (suite *DBTestSuite) TestSetManyAndRemove() {
	err := suite.db.SetMany(map[string]string{
		KeyToken: "tok",
		KeyUser:  `{"id":"1"}`,
	})
	require.NoError(suite.T(), err)

	keys, err := suite.db.Keys()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), []string{KeyToken, KeyUser}, keys)

	require.NoError(suite.T(), suite.db.Remove(KeyToken, KeyUser))

	keys, err = suite.db.Keys()
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), keys)
}

func (suite *DBTestSuite) TestRemoveMissingKeyIsNoop() {
	assert.NoError(suite.T(), suite.db.Remove(KeyToken, KeyUser))
}

func (suite *DBTestSuite) TestLanguageDefault() {
	lang, err := suite.db.Language()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), DefaultLanguage, lang)
}

func (suite *DBTestSuite) TestSetLanguage() {
	require.NoError(suite.T(), suite.db.SetLanguage("ar"))

	lang, err := suite.db.Language()
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "ar", lang)
	assert.True(suite.T(), IsRTL(lang))
}

func (suite *DBTestSuite) TestSetLanguageRejectsInvalidCode() {
	for _, code := range []string{"", "e", "eng", "EN", "e1"} {
		assert.ErrorIs(suite.T(), suite.db.SetLanguage(code), ErrInvalidLanguage, "code %q", code)
	}
}

func TestDBPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	db, err := NewDB(path)
	require.NoError(t, err)
	require.NoError(t, db.Set(KeyToken, "persisted"))
	require.NoError(t, db.Close())

	db, err = NewDB(path)
	require.NoError(t, err)
	defer db.Close()

	value, ok, err := db.Get(KeyToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "persisted", value)
}

func TestNewDBInvalidPath(t *testing.T) {
	// A directory cannot be opened as a database file
	_, err := NewDB(t.TempDir())
	assert.Error(t, err)
}

// Test suite runners
func TestDBSuite(t *testing.T) {
	suite.Run(t, new(DBTestSuite))
}
