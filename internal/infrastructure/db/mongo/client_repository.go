package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/projecthub/tracker-api/internal/core/authz"
	"github.com/projecthub/tracker-api/internal/core/domain"
	"github.com/projecthub/tracker-api/internal/core/ports"
)

const (
	collectionClients = "clients"
	resourceClient    = "Client"
)

type ClientRepository struct {
	col *mongo.Collection
}

func NewClientRepository(db *mongo.Database) *ClientRepository {
	return &ClientRepository{col: db.Collection(collectionClients)}
}

type addressDoc struct {
	Street  string `bson:"street,omitempty"`
	City    string `bson:"city,omitempty"`
	State   string `bson:"state,omitempty"`
	ZipCode string `bson:"zip_code,omitempty"`
	Country string `bson:"country,omitempty"`
}

type clientDoc struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	Phone     string             `bson:"phone,omitempty"`
	Address   *addressDoc        `bson:"address,omitempty"`
	Company   string             `bson:"company,omitempty"`
	Industry  string             `bson:"industry,omitempty"`
	IsActive  bool               `bson:"is_active"`
	CreatedBy primitive.ObjectID `bson:"created_by"`
	CreatedAt time.Time          `bson:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at"`
}

func (d *clientDoc) toDomain() *domain.Client {
	c := &domain.Client{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Company:   d.Company,
		Industry:  d.Industry,
		IsActive:  d.IsActive,
		CreatedBy: d.CreatedBy.Hex(),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
	if d.Address != nil {
		c.Address = &domain.Address{
			Street:  d.Address.Street,
			City:    d.Address.City,
			State:   d.Address.State,
			ZipCode: d.Address.ZipCode,
			Country: d.Address.Country,
		}
	}
	return c
}

func toAddressDoc(a *domain.Address) *addressDoc {
	if a == nil {
		return nil
	}
	return &addressDoc{Street: a.Street, City: a.City, State: a.State, ZipCode: a.ZipCode, Country: a.Country}
}

// Create inserts a new client document and sets c.ID.
func (r *ClientRepository) Create(ctx context.Context, c *domain.Client) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	owner, ok := objectID(c.CreatedBy)
	if !ok {
		return fmt.Errorf("insert client: invalid owner id %q", c.CreatedBy)
	}
	doc := clientDoc{
		ID:        primitive.NewObjectID(),
		Name:      c.Name,
		Email:     strings.ToLower(c.Email),
		Phone:     c.Phone,
		Address:   toAddressDoc(c.Address),
		Company:   c.Company,
		Industry:  c.Industry,
		IsActive:  c.IsActive,
		CreatedBy: owner,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if dup := duplicateField(err, "email"); dup != nil {
			return dup
		}
		return fmt.Errorf("insert client: %w", err)
	}
	c.ID = doc.ID.Hex()
	return nil
}

func (r *ClientRepository) FindOne(ctx context.Context, id string, scope authz.Scope, activeOnly bool) (*domain.Client, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.NotFound(resourceClient)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	clauses := []bson.M{{"_id": oid}, scopeFilter(scope)}
	if activeOnly {
		clauses = append(clauses, bson.M{"is_active": true})
	}

	var doc clientDoc
	if err := r.col.FindOne(ctx, and(clauses...)).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.NotFound(resourceClient)
		}
		return nil, fmt.Errorf("find client: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ClientRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Client, error) {
	oids := objectIDs(ids)
	if len(oids) == 0 {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, bson.M{"_id": bson.M{"$in": oids}})
	if err != nil {
		return nil, fmt.Errorf("find clients: %w", err)
	}
	return decodeClients(ctx, cur)
}

// List returns one page of clients, newest first.
func (r *ClientRepository) List(ctx context.Context, f ports.ClientFilter) ([]*domain.Client, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	clauses := []bson.M{scopeFilter(f.Scope), searchFilter(f.Search, "name", "email", "company")}
	if f.IsActive != nil {
		clauses = append(clauses, bson.M{"is_active": *f.IsActive})
	}
	filter := and(clauses...)

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	cur, err := r.col.Find(ctx, filter, pageOptions(f.Page, f.Limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	items, err := decodeClients(ctx, cur)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *ClientRepository) Update(ctx context.Context, id string, scope authz.Scope, ch domain.ClientChanges) (*domain.Client, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.NotFound(resourceClient)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updated_at": time.Now().UTC()}
	if ch.Name != nil {
		set["name"] = *ch.Name
	}
	if ch.Email != nil {
		set["email"] = strings.ToLower(*ch.Email)
	}
	if ch.Phone != nil {
		set["phone"] = *ch.Phone
	}
	if ch.Address != nil {
		set["address"] = toAddressDoc(ch.Address)
	}
	if ch.Company != nil {
		set["company"] = *ch.Company
	}
	if ch.Industry != nil {
		set["industry"] = *ch.Industry
	}
	if ch.IsActive != nil {
		set["is_active"] = *ch.IsActive
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc clientDoc
	err := r.col.FindOneAndUpdate(ctx, and(bson.M{"_id": oid}, scopeFilter(scope)), bson.M{"$set": set}, opts).Decode(&doc)
	if err != nil {
		if isNoDocuments(err) {
			return nil, domain.NotFound(resourceClient)
		}
		if dup := duplicateField(err, "email"); dup != nil {
			return nil, dup
		}
		return nil, fmt.Errorf("update client: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *ClientRepository) SetActive(ctx context.Context, id string, active bool) error {
	oid, ok := objectID(id)
	if !ok {
		return domain.NotFound(resourceClient)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateByID(ctx, oid, bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now().UTC()}})
	if err != nil {
		return fmt.Errorf("set client active: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.NotFound(resourceClient)
	}
	return nil
}

// EnsureIndexes creates necessary indexes on the clients collection.
func (r *ClientRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "created_by", Value: 1}, {Key: "created_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func decodeClients(ctx context.Context, cur *mongo.Cursor) ([]*domain.Client, error) {
	var docs []clientDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode clients: %w", err)
	}
	out := make([]*domain.Client, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, nil
}

// pageOptions sorts newest first and skips to the requested page.
func pageOptions(page, limit int) *options.FindOptions {
	if page < 1 {
		page = 1
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetSkip(int64((page - 1) * limit)).SetLimit(int64(limit))
	}
	return opts
}
