package mongo

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/projecthub/tracker-api/internal/core/authz"
	"github.com/projecthub/tracker-api/internal/core/domain"
)

const ownerHex = "64b7f0c2a1b2c3d4e5f60718"

func TestScopeFilter(t *testing.T) {
	owner, _ := primitive.ObjectIDFromHex(ownerHex)

	assert.Nil(t, scopeFilter(authz.Scope{Unrestricted: true}))
	assert.Equal(t, bson.M{"created_by": owner}, scopeFilter(authz.Scope{OwnerID: ownerHex}))
	assert.Equal(t, bson.M{"$or": bson.A{
		bson.M{"created_by": owner},
		bson.M{"team_members": owner},
	}}, scopeFilter(authz.Scope{OwnerID: ownerHex, AllowMembers: true}))

	assert.Equal(t, bson.M{"created_by": primitive.NilObjectID}, scopeFilter(authz.Scope{OwnerID: "bogus"}))
}

func TestAnd_KeepsBothOrClauses(t *testing.T) {
	scope := scopeFilter(authz.Scope{OwnerID: ownerHex, AllowMembers: true})
	search := searchFilter("web", "name", "tags")

	got := and(bson.M{"is_active": true}, scope, search)
	parts, ok := got["$and"].(bson.A)
	require.True(t, ok)
	assert.Len(t, parts, 3)

	assert.Equal(t, bson.M{}, and(nil, bson.M{}))
	assert.Equal(t, bson.M{"a": 1}, and(nil, bson.M{"a": 1}))
}

func TestSearchFilter_QuotesMeta(t *testing.T) {
	got := searchFilter("a.b", "name")
	or := got["$or"].(bson.A)
	re := or[0].(bson.M)["name"].(primitive.Regex)
	assert.Equal(t, `a\.b`, re.Pattern)
	assert.Equal(t, "i", re.Options)

	assert.Nil(t, searchFilter("", "name"))
}

func TestDuplicateField(t *testing.T) {
	err := mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: `E11000 duplicate key error collection: tracker.users index: username_1 dup key: { username: "bob" }`,
	}}}

	var dup *domain.DuplicateError
	require.True(t, errors.As(duplicateField(err, "email", "username"), &dup))
	assert.Equal(t, "username", dup.Field)

	assert.Nil(t, duplicateField(errors.New("boom"), "email"))
}
