package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"shorestay/internal/app/reservation"
)

// ReservationStore records submitted reservations keyed by idempotency key,
// so a resubmitted booking form replays the original upstream answer
// instead of double-booking the guest. Documents expire after a week.
type ReservationStore struct {
	col *mongo.Collection
}

func NewReservationStore(db *mongo.Database) *ReservationStore {
	col := db.Collection("reservation_submissions")
	ttl := time.Hour * 24 * 7
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(ttl.Seconds())),
	})
	return &ReservationStore{col: col}
}

func (s *ReservationStore) Get(ctx context.Context, key string) (reservation.Record, bool, error) {
	var doc submissionDocument
	if err := s.col.FindOne(ctx, bson.M{"key": key}).Decode(&doc); err != nil {
		if err == mongo.ErrNoDocuments {
			return reservation.Record{}, false, nil
		}
		return reservation.Record{}, false, err
	}
	return doc.toRecord(), true, nil
}

func (s *ReservationStore) Save(ctx context.Context, rec reservation.Record) error {
	doc := submissionDocument{
		ID:            rec.Key,
		Key:           rec.Key,
		ReservationID: rec.ReservationID,
		ListingID:     rec.ListingID,
		Payload:       rec.Payload,
		SubmittedAt:   rec.SubmittedAt,
		CreatedAt:     time.Now().UTC(),
	}
	_, err := s.col.UpdateByID(ctx, doc.ID, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	return err
}

type submissionDocument struct {
	ID            string    `bson:"_id"`
	Key           string    `bson:"key"`
	ReservationID int64     `bson:"reservation_id"`
	ListingID     string    `bson:"listing_id"`
	Payload       []byte    `bson:"payload"`
	SubmittedAt   time.Time `bson:"submitted_at"`
	CreatedAt     time.Time `bson:"created_at"`
}

var _ reservation.Store = (*ReservationStore)(nil)

func (d submissionDocument) toRecord() reservation.Record {
	return reservation.Record{
		Key:           d.Key,
		ReservationID: d.ReservationID,
		ListingID:     d.ListingID,
		Payload:       d.Payload,
		SubmittedAt:   d.SubmittedAt,
	}
}
