package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civicreg/constituent-service/internal/core/domain"
	"github.com/civicreg/constituent-service/internal/core/ports"
)

const (
	collectionConstituents = "constituents"
	codeNamespaceExists    = 48
)

type constituentDocument struct {
	ID            string    `bson:"_id"`
	FirstName     string    `bson:"first_name"`
	LastName      string    `bson:"last_name"`
	Age           int       `bson:"age"`
	Phone         string    `bson:"phone"`
	Email         string    `bson:"email"`
	StreetAddress string    `bson:"street_address"`
	City          string    `bson:"city"`
	State         string    `bson:"state"`
	Zip           string    `bson:"zip"`
	District      *string   `bson:"district"`
	Status        string    `bson:"status"`
	CreatedAt     time.Time `bson:"created_at"`
	UpdatedAt     time.Time `bson:"updated_at"`
}

func (d *constituentDocument) toDomain() *domain.Constituent {
	return &domain.Constituent{
		ID:            d.ID,
		FirstName:     d.FirstName,
		LastName:      d.LastName,
		Age:           d.Age,
		Phone:         d.Phone,
		Email:         d.Email,
		StreetAddress: d.StreetAddress,
		City:          d.City,
		State:         d.State,
		Zip:           d.Zip,
		District:      d.District,
		Status:        d.Status,
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}
}

// ConstituentRepository implements ports.ConstituentRepository on MongoDB.
// Uniqueness comes from named unique indexes and the age rule from a
// $jsonSchema validator, both installed by EnsureSchema.
type ConstituentRepository struct {
	db      *mongo.Database
	col     *mongo.Collection
	timeout time.Duration
	now     func() time.Time
}

func NewConstituentRepository(db *mongo.Database, timeout time.Duration) *ConstituentRepository {
	return &ConstituentRepository{
		db:      db,
		col:     db.Collection(collectionConstituents),
		timeout: timeoutOrDefault(timeout),
		now:     time.Now,
	}
}

func (r *ConstituentRepository) ExistsByNameAge(ctx context.Context, firstName, lastName string, age int) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	filter := bson.M{"first_name": firstName, "last_name": lastName, "age": age}
	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("mongo: exists by name and age: %w", err)
	}
	return n > 0, nil
}

// Insert assigns id, status and timestamps, then writes the document.
func (r *ConstituentRepository) Insert(ctx context.Context, p ports.CreateConstituentParams) (*domain.Constituent, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	// BSON dates carry millisecond precision.
	now := r.now().UTC().Truncate(time.Millisecond)
	doc := constituentDocument{
		ID:            uuid.NewString(),
		FirstName:     p.FirstName,
		LastName:      p.LastName,
		Age:           p.Age,
		Phone:         p.Phone,
		Email:         p.Email,
		StreetAddress: p.StreetAddress,
		City:          p.City,
		State:         p.State,
		Zip:           p.Zip,
		District:      p.District,
		Status:        domain.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		return nil, fmt.Errorf("mongo: insert constituent: %w", classify(err))
	}
	return doc.toDomain(), nil
}

// List returns every constituent, newest first.
func (r *ConstituentRepository) List(ctx context.Context) ([]*domain.Constituent, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo: list constituents: %w", err)
	}

	var docs []constituentDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("mongo: decode constituents: %w", err)
	}

	out := make([]*domain.Constituent, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toDomain())
	}
	return out, nil
}

func (r *ConstituentRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}

// EnsureSchema creates the collection with its validator (or refreshes the
// validator on an existing one) and the unique indexes. Safe to re-run.
func (r *ConstituentRepository) EnsureSchema(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	validator := bson.M{"$jsonSchema": constituentSchema()}

	err := r.db.CreateCollection(ctx, collectionConstituents, options.CreateCollection().SetValidator(validator))
	var cmdErr mongo.CommandError
	switch {
	case err == nil:
	case errors.As(err, &cmdErr) && cmdErr.Code == codeNamespaceExists:
		cmd := bson.D{{Key: "collMod", Value: collectionConstituents}, {Key: "validator", Value: validator}}
		if err := r.db.RunCommand(ctx, cmd).Err(); err != nil {
			return fmt.Errorf("mongo: update validator: %w", err)
		}
	default:
		return fmt.Errorf("mongo: create collection: %w", err)
	}

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(IndexEmail).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "first_name", Value: 1}, {Key: "last_name", Value: 1}, {Key: "age", Value: 1}},
			Options: options.Index().SetName(IndexNameAge).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("constituents_created_at_idx"),
		},
	}

	if _, err := r.col.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("mongo: create indexes: %w", err)
	}
	return nil
}

func constituentSchema() bson.M {
	return bson.M{
		"bsonType": "object",
		"required": bson.A{"first_name", "last_name", "age", "email", "status", "created_at", "updated_at"},
		"properties": bson.M{
			"first_name": bson.M{"bsonType": "string"},
			"last_name":  bson.M{"bsonType": "string"},
			"age":        bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
			"email":      bson.M{"bsonType": "string"},
			"district":   bson.M{"bsonType": bson.A{"string", "null"}},
			"status":     bson.M{"bsonType": "string"},
			"created_at": bson.M{"bsonType": "date"},
			"updated_at": bson.M{"bsonType": "date"},
		},
	}
}
