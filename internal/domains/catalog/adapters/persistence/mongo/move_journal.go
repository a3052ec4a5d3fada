package mongo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/Apurer/petify-api/internal/domains/catalog/domain"
	"github.com/Apurer/petify-api/internal/domains/catalog/ports"
)

var _ ports.MoveJournal = (*MoveJournal)(nil)

// MoveJournal stores move intents in a MongoDB collection.
type MoveJournal struct {
	collection *mongo.Collection
}

// NewMoveJournal wires the journal collection.
func NewMoveJournal(db *mongo.Database) *MoveJournal {
	return &MoveJournal{collection: db.Collection("category_move_intents")}
}

type moveIntentDocument struct {
	ID        string    `bson:"_id"`
	SourceID  string    `bson:"source_id"`
	TargetID  string    `bson:"target_id"`
	OldName   string    `bson:"old_name"`
	NewName   string    `bson:"new_name"`
	State     string    `bson:"state"`
	LastError string    `bson:"last_error,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Record inserts a new intent.
func (j *MoveJournal) Record(ctx context.Context, intent *domain.MoveIntent) (*domain.MoveIntent, error) {
	if intent == nil {
		return nil, errors.New("move intent is nil")
	}
	now := time.Now().UTC()
	doc := moveIntentDocument{
		ID:        intent.ID,
		SourceID:  intent.SourceID,
		TargetID:  intent.TargetID,
		OldName:   intent.OldName,
		NewName:   intent.NewName,
		State:     string(intent.State),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.State == "" {
		doc.State = string(domain.MovePending)
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	if _, err := j.collection.InsertOne(ctx, doc); err != nil {
		return nil, err
	}
	return doc.toDomain(), nil
}

// Advance updates state and last error. An empty state keeps the current one.
func (j *MoveJournal) Advance(ctx context.Context, id string, state domain.MoveState, lastError string) error {
	set := bson.M{"last_error": lastError, "updated_at": time.Now().UTC()}
	if state != "" {
		set["state"] = string(state)
	}
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()
	result, err := j.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ports.ErrMoveNotFound
	}
	return nil
}

// Get fetches an intent.
func (j *MoveJournal) Get(ctx context.Context, id string) (*domain.MoveIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	var doc moveIntentDocument
	if err := j.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ports.ErrMoveNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// ListIncomplete returns unfinished intents, oldest first.
func (j *MoveJournal) ListIncomplete(ctx context.Context) ([]*domain.MoveIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()
	filter := bson.M{"state": bson.M{"$nin": bson.A{string(domain.MoveCompleted), string(domain.MoveRolledBack)}}}
	cursor, err := j.collection.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	var docs []moveIntentDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	list := make([]*domain.MoveIntent, 0, len(docs))
	for i := range docs {
		list = append(list, docs[i].toDomain())
	}
	return list, nil
}

func (d moveIntentDocument) toDomain() *domain.MoveIntent {
	return &domain.MoveIntent{
		ID:        d.ID,
		SourceID:  d.SourceID,
		TargetID:  d.TargetID,
		OldName:   d.OldName,
		NewName:   d.NewName,
		State:     domain.MoveState(d.State),
		LastError: d.LastError,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}
