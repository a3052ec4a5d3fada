package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	"github.com/Apurer/petify-api/internal/domains/catalog/ports"
	"github.com/Apurer/petify-api/internal/shared/projection"
)

var _ ports.ProductRepository = (*ProductRepository)(nil)

// ProductRepository persists products in a MongoDB collection.
type ProductRepository struct {
	collection *mongo.Collection
}

// NewProductRepository wires the repository and its listing index.
func NewProductRepository(ctx context.Context, db *mongo.Database) (*ProductRepository, error) {
	collection := db.Collection("products")
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "pet_type_id", Value: 1}, {Key: "is_deleted", Value: 1}},
	})
	if err != nil {
		return nil, err
	}
	return &ProductRepository{collection: collection}, nil
}

type productDocument struct {
	ID              primitive.ObjectID   `bson:"_id"`
	Name            string               `bson:"name"`
	Brand           string               `bson:"brand,omitempty"`
	PetTypeID       string               `bson:"pet_type_id"`
	ProductCategory string               `bson:"product_category"`
	Tags            []string             `bson:"tags,omitempty"`
	Description     string               `bson:"description,omitempty"`
	Images          []string             `bson:"images,omitempty"`
	Season          string               `bson:"season,omitempty"`
	Price           primitive.Decimal128 `bson:"price"`
	Stock           int                  `bson:"stock"`
	Discount        primitive.Decimal128 `bson:"discount"`
	Variants        []variantDocument    `bson:"variants,omitempty"`
	AvgRating       float64              `bson:"avg_rating"`
	TotalReviews    int                  `bson:"total_reviews"`
	AddedByAdminID  string               `bson:"added_by_admin_id,omitempty"`
	IsActive        bool                 `bson:"is_active"`
	IsDeleted       bool                 `bson:"is_deleted"`
	CreatedAt       time.Time            `bson:"created_at"`
	UpdatedAt       time.Time            `bson:"updated_at"`
}

type variantDocument struct {
	Weight   string               `bson:"weight"`
	Price    primitive.Decimal128 `bson:"price"`
	Stock    int                  `bson:"stock"`
	Discount primitive.Decimal128 `bson:"discount"`
}

// Save upserts a product, assigning an ObjectID to new ones.
func (r *ProductRepository) Save(ctx context.Context, product *domain.Product) (*projection.Projection[*domain.Product], error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	var oid primitive.ObjectID
	if product.ID == "" {
		oid = primitive.NewObjectID()
		product.ID = oid.Hex()
	} else {
		parsed, err := primitive.ObjectIDFromHex(product.ID)
		if err != nil {
			return nil, ports.ErrProductNotFound
		}
		oid = parsed
	}
	doc, err := toProductDocument(oid, product)
	if err != nil {
		return nil, err
	}

	wctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	now := time.Now().UTC()
	set, err := toSetDocument(doc)
	if err != nil {
		return nil, err
	}
	set["updated_at"] = now
	if _, err := r.collection.UpdateOne(wctx,
		bson.M{"_id": oid},
		bson.M{"$set": set, "$setOnInsert": bson.M{"created_at": now}},
		options.Update().SetUpsert(true),
	); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, product.ID)
}

// GetByID fetches a product, deleted or not.
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*projection.Projection[*domain.Product], error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ports.ErrProductNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	var doc productDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrProductNotFound
		}
		return nil, err
	}
	return doc.toProjection()
}

// List returns live products matching filter, oldest first.
func (r *ProductRepository) List(ctx context.Context, filter ports.ProductFilter) ([]*projection.Projection[*domain.Product], error) {
	query := bson.M{"is_deleted": false}
	if filter.PetTypeID != "" {
		query["pet_type_id"] = filter.PetTypeID
	}
	if filter.NameQuery != "" {
		query["name"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.NameQuery), Options: "i"}
	}
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	cursor, err := r.collection.Find(ctx, query, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var docs []productDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	list := make([]*projection.Projection[*domain.Product], 0, len(docs))
	for i := range docs {
		p, err := docs[i].toProjection()
		if err != nil {
			return nil, err
		}
		list = append(list, p)
	}
	return list, nil
}

func toSetDocument(doc productDocument) (bson.M, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var set bson.M
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, err
	}
	delete(set, "_id")
	delete(set, "created_at")
	return set, nil
}

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	out, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode decimal %s: %w", d, err)
	}
	return out, nil
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	out, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("decode decimal %s: %w", d, err)
	}
	return out, nil
}

func toProductDocument(oid primitive.ObjectID, p *domain.Product) (productDocument, error) {
	doc := productDocument{
		ID:              oid,
		Name:            p.Name,
		Brand:           p.Brand,
		PetTypeID:       p.PetTypeID,
		ProductCategory: p.ProductCategory,
		Tags:            p.Tags,
		Description:     p.Description,
		Images:          p.Images,
		Season:          p.Season,
		Stock:           p.Stock,
		AvgRating:       p.AvgRating,
		TotalReviews:    p.TotalReviews,
		AddedByAdminID:  p.AddedByAdminID,
		IsActive:        p.IsActive,
		IsDeleted:       p.IsDeleted,
	}
	var err error
	if doc.Price, err = toDecimal128(p.Price); err != nil {
		return doc, err
	}
	if doc.Discount, err = toDecimal128(p.Discount); err != nil {
		return doc, err
	}
	for _, v := range p.Variants {
		vd := variantDocument{Weight: v.Weight, Stock: v.Stock}
		if vd.Price, err = toDecimal128(v.Price); err != nil {
			return doc, err
		}
		if vd.Discount, err = toDecimal128(v.Discount); err != nil {
			return doc, err
		}
		doc.Variants = append(doc.Variants, vd)
	}
	return doc, nil
}

func (d productDocument) toProjection() (*projection.Projection[*domain.Product], error) {
	p := &domain.Product{
		ID:              d.ID.Hex(),
		Name:            d.Name,
		Brand:           d.Brand,
		PetTypeID:       d.PetTypeID,
		ProductCategory: d.ProductCategory,
		Tags:            append([]string(nil), d.Tags...),
		Description:     d.Description,
		Images:          append([]string(nil), d.Images...),
		Season:          d.Season,
		Stock:           d.Stock,
		AvgRating:       d.AvgRating,
		TotalReviews:    d.TotalReviews,
		AddedByAdminID:  d.AddedByAdminID,
		IsActive:        d.IsActive,
		IsDeleted:       d.IsDeleted,
	}
	var err error
	if p.Price, err = fromDecimal128(d.Price); err != nil {
		return nil, err
	}
	if p.Discount, err = fromDecimal128(d.Discount); err != nil {
		return nil, err
	}
	for _, vd := range d.Variants {
		v := domain.Variant{Weight: vd.Weight, Stock: vd.Stock}
		if v.Price, err = fromDecimal128(vd.Price); err != nil {
			return nil, err
		}
		if v.Discount, err = fromDecimal128(vd.Discount); err != nil {
			return nil, err
		}
		p.Variants = append(p.Variants, v)
	}
	return projection.New(p, d.CreatedAt, d.UpdatedAt), nil
}
