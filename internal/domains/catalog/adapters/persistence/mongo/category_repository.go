package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	"github.com/Apurer/petify-api/internal/domains/catalog/ports"
	"github.com/Apurer/petify-api/internal/shared/projection"
)

const (
	readTimeout  = 3 * time.Second
	writeTimeout = 5 * time.Second
)

var _ ports.CategoryRepository = (*CategoryRepository)(nil)

// CategoryRepository persists categories in a MongoDB collection.
// It does not implement ports.MoveApplier; moves rely on the move journal.
type CategoryRepository struct {
	collection *mongo.Collection
}

// NewCategoryRepository wires the repository and ensures the unique pet_type index.
func NewCategoryRepository(ctx context.Context, db *mongo.Database) (*CategoryRepository, error) {
	collection := db.Collection("categories")
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "pet_type", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return &CategoryRepository{collection: collection}, nil
}

type categoryDocument struct {
	ID                primitive.ObjectID `bson:"_id"`
	PetType           string             `bson:"pet_type"`
	ProductCategories []string           `bson:"product_categories"`
	IsActive          bool               `bson:"is_active"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

// Save upserts a category, assigning an ObjectID to new ones.
func (r *CategoryRepository) Save(ctx context.Context, category *domain.Category) (*projection.Projection[*domain.Category], error) {
	if category == nil {
		return nil, errors.New("category is nil")
	}
	var oid primitive.ObjectID
	if category.ID == "" {
		oid = primitive.NewObjectID()
		category.ID = oid.Hex()
	} else {
		parsed, err := primitive.ObjectIDFromHex(category.ID)
		if err != nil {
			return nil, ports.ErrCategoryNotFound
		}
		oid = parsed
	}

	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	now := time.Now().UTC()
	subs := append([]string{}, category.ProductCategories...)
	_, err := r.collection.UpdateOne(wctx,
		bson.M{"_id": oid},
		bson.M{
			"$set": bson.M{
				"pet_type":           category.PetType,
				"product_categories": subs,
				"is_active":          category.IsActive,
				"updated_at":         now,
			},
			"$setOnInsert": bson.M{"created_at": now},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ports.ErrDuplicatePetType
		}
		return nil, err
	}
	return r.GetByID(ctx, category.ID)
}

// GetByID fetches a category. Malformed IDs are reported as not found.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Category], error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ports.ErrCategoryNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindByPetType fetches the category owning petType.
func (r *CategoryRepository) FindByPetType(ctx context.Context, petType string) (*projection.Projection[*domain.Category], error) {
	return r.findOne(ctx, bson.M{"pet_type": petType})
}

// Delete removes a category.
func (r *CategoryRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ports.ErrCategoryNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ports.ErrCategoryNotFound
	}
	return nil
}

// List returns every category, oldest first.
func (r *CategoryRepository) List(ctx context.Context) ([]*projection.Projection[*domain.Category], error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	cursor, err := r.collection.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var docs []categoryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Category], 0, len(docs))
	for i := range docs {
		list = append(list, docs[i].toProjection())
	}
	return list, nil
}

func (r *CategoryRepository) findOne(ctx context.Context, filter bson.M) (*projection.Projection[*domain.Category], error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	var doc categoryDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrCategoryNotFound
		}
		return nil, err
	}
	return doc.toProjection(), nil
}

func (d categoryDocument) toProjection() *projection.Projection[*domain.Category] {
	category := &domain.Category{
		ID:                d.ID.Hex(),
		PetType:           d.PetType,
		ProductCategories: append([]string(nil), d.ProductCategories...),
		IsActive:          d.IsActive,
	}
	return projection.New(category, d.CreatedAt, d.UpdatedAt)
}
