package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/petify-api/internal/domains/sellers/domain"
	"github.com/Apurer/petify-api/internal/domains/sellers/ports"
	"github.com/Apurer/petify-api/internal/shared/projection"
)

const (
	readTimeout  = 3 * time.Second
	writeTimeout = 5 * time.Second
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists sellers in the "sellers" collection, reading both the
// current string status and the legacy boolean isVerified field.
type Repository struct {
	collection *mongo.Collection
}

// NewRepository wires the repository and ensures the unique email index.
func NewRepository(ctx context.Context, db *mongo.Database) (*Repository, error) {
	collection := db.Collection("sellers")
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}
	return &Repository{collection: collection}, nil
}

// Create inserts a new seller at version 1.
func (r *Repository) Create(ctx context.Context, seller *domain.Seller) (*projection.Projection[*domain.Seller], error) {
	if seller == nil {
		return nil, errors.New("seller is nil")
	}
	oid := primitive.NewObjectID()
	seller.ID = oid.Hex()
	seller.Version = 1
	now := time.Now().UTC()
	doc := toDocument(seller)
	doc.ID = oid
	doc.CreatedAt = now
	doc.UpdatedAt = now

	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if _, err := r.collection.InsertOne(wctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ports.ErrDuplicateEmail
		}
		return nil, err
	}
	return r.GetByID(ctx, seller.ID)
}

// Update replaces the seller when the stored version equals seller.Version.
func (r *Repository) Update(ctx context.Context, seller *domain.Seller) (*projection.Projection[*domain.Seller], error) {
	if seller == nil {
		return nil, errors.New("seller is nil")
	}
	oid, err := primitive.ObjectIDFromHex(seller.ID)
	if err != nil {
		return nil, ports.ErrNotFound
	}
	doc := toDocument(seller)
	set := bson.M{
		"name":             doc.Name,
		"email":            doc.Email,
		"phone":            doc.Phone,
		"password":         doc.Password,
		"cnic":             doc.CNIC,
		"address":          doc.Address,
		"profile_image":    doc.ProfileImage,
		"services_offered": doc.ServicesOffered,
		"isVerified":       doc.IsVerified,
		"admin_comment":    doc.AdminComment,
		"register_pet":     doc.Pets,
		"refresh_token":    doc.RefreshToken,
		"updatedAt":        time.Now().UTC(),
	}
	// Legacy documents carry no version field; they are treated as version 0.
	versionFilter := bson.M{"version": seller.Version}
	if seller.Version == 0 {
		versionFilter = bson.M{"$or": bson.A{bson.M{"version": 0}, bson.M{"version": bson.M{"$exists": false}}}}
	}
	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	result, err := r.collection.UpdateOne(wctx,
		bson.M{"$and": bson.A{bson.M{"_id": oid}, versionFilter}},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ports.ErrDuplicateEmail
		}
		return nil, err
	}
	if result.MatchedCount == 0 {
		if _, err := r.GetByID(ctx, seller.ID); err != nil {
			return nil, err
		}
		return nil, ports.ErrConflict
	}
	return r.GetByID(ctx, seller.ID)
}

// GetByID fetches a seller. Malformed IDs are reported as not found.
func (r *Repository) GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Seller], error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ports.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// GetByEmail fetches a seller by normalized email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*projection.Projection[*domain.Seller], error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// Delete removes a seller.
func (r *Repository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ports.ErrNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns sellers oldest first. The approved filter also matches legacy true.
func (r *Repository) List(ctx context.Context, filter ports.Filter) ([]*projection.Projection[*domain.Seller], error) {
	query := bson.M{}
	switch filter.Verification {
	case "":
	case domain.VerificationApproved:
		query["isVerified"] = bson.M{"$in": bson.A{string(domain.VerificationApproved), true}}
	case domain.VerificationPending:
		query["isVerified"] = bson.M{"$in": bson.A{string(domain.VerificationPending), false, nil}}
	default:
		query["isVerified"] = string(filter.Verification)
	}
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var docs []sellerDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Seller], 0, len(docs))
	for i := range docs {
		list = append(list, docs[i].toProjection())
	}
	return list, nil
}

func (r *Repository) findOne(ctx context.Context, filter bson.M) (*projection.Projection[*domain.Seller], error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	var doc sellerDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return doc.toProjection(), nil
}

// legacyPetID derives a stable ID for registrations written before pets carried one.
func legacyPetID(sellerID string, index int) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("%s/register_pet/%d", sellerID, index))).String()
}
