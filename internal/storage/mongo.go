package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"trainings/internal/domain"
)

const trainingsCollection = "trainings"

// trainingRecord is the stored shape of a training. The document payload is
// kept as its JSON text so every backend persists the same bytes.
type trainingRecord struct {
	ID          string    `bson:"_id"`
	CompanyID   string    `bson:"company_id"`
	Title       string    `bson:"title"`
	ContentJSON string    `bson:"content_json,omitempty"`
	UpdatedAt   time.Time `bson:"updated_at"`
}

// MongoTrainingStore implements domain.TrainingStore over a MongoDB collection.
type MongoTrainingStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// OpenMongo connects to uri and uses the trainings collection of database.
func OpenMongo(ctx context.Context, uri, database string) (*MongoTrainingStore, error) {
	if database == "" {
		return nil, fmt.Errorf("mongo: database name required")
	}
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	coll := client.Database(database).Collection(trainingsCollection)
	idx := mongo.IndexModel{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "updated_at", Value: -1}}}
	if _, err := coll.Indexes().CreateOne(ctx, idx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("create index: %w", err)
	}
	return &MongoTrainingStore{client: client, coll: coll}, nil
}

func (s *MongoTrainingStore) GetTraining(ctx context.Context, id string) (*domain.Training, error) {
	var rec trainingRecord
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get training: %w", err)
	}
	doc, err := domain.ParseDocument([]byte(rec.ContentJSON))
	if err != nil {
		return nil, fmt.Errorf("training %s: %w", id, err)
	}
	return &domain.Training{
		ID:        rec.ID,
		CompanyID: rec.CompanyID,
		Title:     rec.Title,
		Document:  doc,
		UpdatedAt: rec.UpdatedAt,
	}, nil
}

func (s *MongoTrainingStore) SaveTraining(ctx context.Context, t *domain.Training) error {
	rec, err := newTrainingRecord(t)
	if err != nil {
		return err
	}
	_, err = s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: rec.ID}}, rec, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save training: %w", err)
	}
	t.UpdatedAt = rec.UpdatedAt
	return nil
}

func (s *MongoTrainingStore) ListTrainings(ctx context.Context, companyID string) ([]domain.TrainingSummary, error) {
	opts := options.Find().
		SetProjection(bson.D{{Key: "content_json", Value: 0}}).
		SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := s.coll.Find(ctx, bson.D{{Key: "company_id", Value: companyID}}, opts)
	if err != nil {
		return nil, fmt.Errorf("list trainings: %w", err)
	}
	var recs []trainingRecord
	if err := cur.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("list trainings: %w", err)
	}
	out := make([]domain.TrainingSummary, len(recs))
	for i, r := range recs {
		out[i] = domain.TrainingSummary{ID: r.ID, CompanyID: r.CompanyID, Title: r.Title, UpdatedAt: r.UpdatedAt}
	}
	return out, nil
}

func (s *MongoTrainingStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func newTrainingRecord(t *domain.Training) (trainingRecord, error) {
	doc := t.Document
	if doc == nil {
		doc = domain.NewDocument()
	}
	content, err := doc.Marshal()
	if err != nil {
		return trainingRecord{}, fmt.Errorf("encode training: %w", err)
	}
	return trainingRecord{
		ID:          t.ID,
		CompanyID:   t.CompanyID,
		Title:       t.Title,
		ContentJSON: string(content),
		UpdatedAt:   time.Now().UTC().Truncate(time.Millisecond),
	}, nil
}
