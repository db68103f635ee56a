package mongo

import (
	"context"
	"fmt"
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
	collectionProjects = "projects"
	resourceProject    = "Project"
)

type ProjectRepository struct {
	col *mongo.Collection
}

func NewProjectRepository(db *mongo.Database) *ProjectRepository {
	return &ProjectRepository{col: db.Collection(collectionProjects)}
}

type deliverableDoc struct {
	Name        string `bson:"name"`
	Description string `bson:"description,omitempty"`
	Completed   bool   `bson:"completed"`
}

type projectDoc struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Name         string               `bson:"name"`
	Description  string               `bson:"description,omitempty"`
	ClientID     primitive.ObjectID   `bson:"client_id"`
	Status       string               `bson:"status"`
	Priority     string               `bson:"priority"`
	Budget       *float64             `bson:"budget,omitempty"`
	StartDate    *time.Time           `bson:"start_date,omitempty"`
	EndDate      *time.Time           `bson:"end_date,omitempty"`
	Deliverables []deliverableDoc     `bson:"deliverables"`
	TeamMembers  []primitive.ObjectID `bson:"team_members"`
	Tags         []string             `bson:"tags"`
	IsActive     bool                 `bson:"is_active"`
	CreatedBy    primitive.ObjectID   `bson:"created_by"`
	CreatedAt    time.Time            `bson:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at"`
}

func (d *projectDoc) toDomain() *domain.Project {
	p := &domain.Project{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		Description: d.Description,
		ClientID:    d.ClientID.Hex(),
		Status:      domain.ProjectStatus(d.Status),
		Priority:    domain.Priority(d.Priority),
		Budget:      d.Budget,
		StartDate:   utcPtr(d.StartDate),
		EndDate:     utcPtr(d.EndDate),
		TeamMembers: hexes(d.TeamMembers),
		Tags:        d.Tags,
		IsActive:    d.IsActive,
		CreatedBy:   d.CreatedBy.Hex(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	p.Deliverables = make([]domain.Deliverable, len(d.Deliverables))
	for i, dl := range d.Deliverables {
		p.Deliverables[i] = domain.Deliverable{Name: dl.Name, Description: dl.Description, Completed: dl.Completed}
	}
	return p
}

func toDeliverableDocs(in []domain.Deliverable) []deliverableDoc {
	out := make([]deliverableDoc, len(in))
	for i, d := range in {
		out[i] = deliverableDoc{Name: d.Name, Description: d.Description, Completed: d.Completed}
	}
	return out
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

// Create inserts a new project document and sets p.ID.
func (r *ProjectRepository) Create(ctx context.Context, p *domain.Project) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	clientID, ok := objectID(p.ClientID)
	if !ok {
		return domain.NotFound(resourceClient)
	}
	owner, ok := objectID(p.CreatedBy)
	if !ok {
		return fmt.Errorf("insert project: invalid owner id %q", p.CreatedBy)
	}
	tags := p.Tags
	if tags == nil {
		tags = []string{}
	}

	doc := projectDoc{
		ID:           primitive.NewObjectID(),
		Name:         p.Name,
		Description:  p.Description,
		ClientID:     clientID,
		Status:       string(p.Status),
		Priority:     string(p.Priority),
		Budget:       p.Budget,
		StartDate:    p.StartDate,
		EndDate:      p.EndDate,
		Deliverables: toDeliverableDocs(p.Deliverables),
		TeamMembers:  objectIDs(p.TeamMembers),
		Tags:         tags,
		IsActive:     p.IsActive,
		CreatedBy:    owner,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	p.ID = doc.ID.Hex()
	return nil
}

func (r *ProjectRepository) FindOne(ctx context.Context, id string, scope authz.Scope) (*domain.Project, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.NotFound(resourceProject)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc projectDoc
	if err := r.col.FindOne(ctx, and(bson.M{"_id": oid}, scopeFilter(scope))).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.NotFound(resourceProject)
		}
		return nil, fmt.Errorf("find project: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns one page of projects, newest first.
func (r *ProjectRepository) List(ctx context.Context, f ports.ProjectFilter) ([]*domain.Project, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	match := bson.M{}
	if f.IsActive != nil {
		match["is_active"] = *f.IsActive
	}
	if f.Status != "" {
		match["status"] = f.Status
	}
	if f.Priority != "" {
		match["priority"] = f.Priority
	}
	if f.ClientID != "" {
		oid, ok := objectID(f.ClientID)
		if !ok {
			return []*domain.Project{}, 0, nil
		}
		match["client_id"] = oid
	}
	filter := and(match, scopeFilter(f.Scope), searchFilter(f.Search, "name", "description", "tags"))

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	cur, err := r.col.Find(ctx, filter, pageOptions(f.Page, f.Limit))
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	var docs []projectDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("decode projects: %w", err)
	}

	out := make([]*domain.Project, len(docs))
	for i := range docs {
		out[i] = docs[i].toDomain()
	}
	return out, total, nil
}

func (r *ProjectRepository) Update(ctx context.Context, id string, ch domain.ProjectChanges) (*domain.Project, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if ch.Name != nil {
		set["name"] = *ch.Name
	}
	if ch.Description != nil {
		set["description"] = *ch.Description
	}
	if ch.ClientID != nil {
		oid, ok := objectID(*ch.ClientID)
		if !ok {
			return nil, domain.NotFound(resourceClient)
		}
		set["client_id"] = oid
	}
	if ch.Status != nil {
		set["status"] = string(*ch.Status)
	}
	if ch.Priority != nil {
		set["priority"] = string(*ch.Priority)
	}
	if ch.Budget != nil {
		set["budget"] = *ch.Budget
	}
	if ch.StartDate != nil {
		set["start_date"] = *ch.StartDate
	}
	if ch.EndDate != nil {
		set["end_date"] = *ch.EndDate
	}
	if ch.Deliverables != nil {
		set["deliverables"] = toDeliverableDocs(ch.Deliverables)
	}
	if ch.TeamMembers != nil {
		set["team_members"] = objectIDs(ch.TeamMembers)
	}
	if ch.Tags != nil {
		set["tags"] = ch.Tags
	}
	if ch.IsActive != nil {
		set["is_active"] = *ch.IsActive
	}
	return r.findAndUpdate(ctx, id, authz.Scope{Unrestricted: true}, bson.M{"$set": set})
}

func (r *ProjectRepository) SetStatus(ctx context.Context, id string, scope authz.Scope, status domain.ProjectStatus) (*domain.Project, error) {
	return r.findAndUpdate(ctx, id, scope, bson.M{"$set": bson.M{"status": string(status), "updated_at": time.Now().UTC()}})
}

func (r *ProjectRepository) SetActive(ctx context.Context, id string, active bool) error {
	_, err := r.findAndUpdate(ctx, id, authz.Scope{Unrestricted: true}, bson.M{"$set": bson.M{"is_active": active, "updated_at": time.Now().UTC()}})
	return err
}

// AddTeamMember pushes userID only when it is not already in the team, so
// concurrent adds of the same user cannot produce duplicates.
func (r *ProjectRepository) AddTeamMember(ctx context.Context, id, userID string) (*domain.Project, bool, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, false, domain.NotFound(resourceProject)
	}
	uid, ok := objectID(userID)
	if !ok {
		return nil, false, domain.ErrUserNotFound
	}

	opCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(opCtx,
		bson.M{"_id": oid, "team_members": bson.M{"$ne": uid}},
		bson.M{
			"$push": bson.M{"team_members": uid},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return nil, false, fmt.Errorf("add team member: %w", err)
	}

	p, err := r.FindOne(ctx, id, authz.Scope{Unrestricted: true})
	if err != nil {
		return nil, false, err
	}
	return p, res.MatchedCount > 0, nil
}

func (r *ProjectRepository) RemoveTeamMember(ctx context.Context, id, userID string) (*domain.Project, error) {
	update := bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}}
	if uid, ok := objectID(userID); ok {
		update["$pull"] = bson.M{"team_members": uid}
	}
	return r.findAndUpdate(ctx, id, authz.Scope{Unrestricted: true}, update)
}

func (r *ProjectRepository) CountActiveByClient(ctx context.Context, clientID string) (int64, error) {
	oid, ok := objectID(clientID)
	if !ok {
		return 0, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"client_id": oid, "is_active": true})
	if err != nil {
		return 0, fmt.Errorf("count client projects: %w", err)
	}
	return n, nil
}

func (r *ProjectRepository) findAndUpdate(ctx context.Context, id string, scope authz.Scope, update bson.M) (*domain.Project, error) {
	oid, ok := objectID(id)
	if !ok {
		return nil, domain.NotFound(resourceProject)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var doc projectDoc
	if err := r.col.FindOneAndUpdate(ctx, and(bson.M{"_id": oid}, scopeFilter(scope)), update, opts).Decode(&doc); err != nil {
		if isNoDocuments(err) {
			return nil, domain.NotFound(resourceProject)
		}
		return nil, fmt.Errorf("update project: %w", err)
	}
	return doc.toDomain(), nil
}

// EnsureIndexes creates necessary indexes on the projects collection.
func (r *ProjectRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "client_id", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_by", Value: 1}}},
		{Keys: bson.D{{Key: "team_members", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
