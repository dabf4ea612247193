package schedule

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindhaven/wellness/internal/apperr"
)

type Repository struct {
	coll *mongo.Collection
}

func NewRepository(coll *mongo.Collection) *Repository {
	return &Repository{coll: coll}
}

func (r *Repository) Get(ctx context.Context, doctorID string) (*DoctorSchedule, error) {
	var s DoctorSchedule
	if err := r.coll.FindOne(ctx, bson.M{"_id": doctorID}).Decode(&s); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Replace persists the full schedule document. Concurrent editors race
// last-write-wins; there is no version check.
func (r *Repository) Replace(ctx context.Context, s *DoctorSchedule) error {
	opts := options.Replace().SetUpsert(true)
	_, err := r.coll.ReplaceOne(ctx, bson.M{"_id": s.DoctorID}, s, opts)
	return err
}
