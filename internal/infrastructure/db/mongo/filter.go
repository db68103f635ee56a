package mongo

import (
	"errors"
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/projecthub/tracker-api/internal/core/authz"
	"github.com/projecthub/tracker-api/internal/core/domain"
)

// scopeFilter translates an authz.Scope into a predicate on created_by and,
// for project access, team_members. An unrestricted scope matches everything.
func scopeFilter(s authz.Scope) bson.M {
	if s.Unrestricted {
		return nil
	}
	owner, err := primitive.ObjectIDFromHex(s.OwnerID)
	if err != nil {
		// an owner that cannot exist matches nothing
		owner = primitive.NilObjectID
	}
	if s.AllowMembers {
		return bson.M{"$or": bson.A{
			bson.M{"created_by": owner},
			bson.M{"team_members": owner},
		}}
	}
	return bson.M{"created_by": owner}
}

// searchFilter matches term case-insensitively against any of fields.
func searchFilter(term string, fields ...string) bson.M {
	if term == "" {
		return nil
	}
	re := primitive.Regex{Pattern: regexp.QuoteMeta(term), Options: "i"}
	or := make(bson.A, len(fields))
	for i, f := range fields {
		or[i] = bson.M{f: re}
	}
	return bson.M{"$or": or}
}

// and combines clauses with $and so that several $or predicates never collide.
func and(clauses ...bson.M) bson.M {
	var parts bson.A
	for _, c := range clauses {
		if len(c) > 0 {
			parts = append(parts, c)
		}
	}
	switch len(parts) {
	case 0:
		return bson.M{}
	case 1:
		return parts[0].(bson.M)
	default:
		return bson.M{"$and": parts}
	}
}

func objectID(hex string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(hex)
	return id, err == nil
}

// objectIDs converts ids, skipping malformed ones.
func objectIDs(hexes []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(hexes))
	for _, h := range hexes {
		if id, ok := objectID(h); ok {
			out = append(out, id)
		}
	}
	return out
}

func hexes(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}

// duplicateField maps a unique index violation to the offending field. It
// returns nil when err is not a duplicate key error.
func duplicateField(err error, fields ...string) error {
	if !mongo.IsDuplicateKeyError(err) {
		return nil
	}
	msg := err.Error()
	var we mongo.WriteException
	if errors.As(err, &we) && len(we.WriteErrors) > 0 {
		msg = we.WriteErrors[0].Message
	}
	for _, f := range fields {
		if strings.Contains(msg, f) {
			return &domain.DuplicateError{Field: f}
		}
	}
	return &domain.DuplicateError{Field: fields[0]}
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
