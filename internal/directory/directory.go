package directory

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mindhaven/wellness/internal/apperr"
)

type Doctor struct {
	ID           string  `bson:"_id" json:"id"`
	Name         string  `bson:"name" json:"name"`
	Specialty    string  `bson:"specialty" json:"specialty"`
	Experience   string  `bson:"experience" json:"experience"`
	Bio          string  `bson:"bio" json:"bio"`
	Availability string  `bson:"availability" json:"availability"`
	Rating       float64 `bson:"rating" json:"ratings"`
}

type Patient struct {
	ID    string `bson:"_id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
	Phone string `bson:"phone,omitempty" json:"phone,omitempty"`
}

// Service is the single authoritative doctor/patient directory. Doctor
// lookups are read-through cached in Redis; the cache is optional.
type Service struct {
	doctors  *mongo.Collection
	patients *mongo.Collection
	cache    *redis.Client
	prefix   string
	ttl      time.Duration
}

func NewService(db *mongo.Database, cache *redis.Client, prefix string) *Service {
	return &Service{
		doctors:  db.Collection("doctors"),
		patients: db.Collection("patients"),
		cache:    cache,
		prefix:   prefix,
		ttl:      10 * time.Minute,
	}
}

func (s *Service) cacheKey(id string) string {
	return s.prefix + ":doctor:" + id
}

func (s *Service) Doctor(ctx context.Context, id string) (*Doctor, error) {
	if s.cache != nil {
		if b, err := s.cache.Get(ctx, s.cacheKey(id)).Bytes(); err == nil {
			var d Doctor
			if json.Unmarshal(b, &d) == nil {
				return &d, nil
			}
		}
	}

	var d Doctor
	if err := s.doctors.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if b, err := json.Marshal(d); err == nil {
			_ = s.cache.Set(ctx, s.cacheKey(id), b, s.ttl).Err()
		}
	}
	return &d, nil
}

func (s *Service) ListDoctors(ctx context.Context) ([]Doctor, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	cur, err := s.doctors.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Doctor
	for cur.Next(ctx) {
		var d Doctor
		if err := cur.Decode(&d); err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, cur.Err()
}

// Patients returns the patientId -> profile mapping served by
// GET /api/patients.
func (s *Service) Patients(ctx context.Context) (map[string]Patient, error) {
	cur, err := s.patients.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := make(map[string]Patient)
	for cur.Next(ctx) {
		var p Patient
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	return out, cur.Err()
}

// Seed upserts the bundled doctor profiles so a fresh deployment has a
// working directory.
func (s *Service) Seed(ctx context.Context) error {
	for _, d := range seedDoctors {
		opts := options.Replace().SetUpsert(true)
		if _, err := s.doctors.ReplaceOne(ctx, bson.M{"_id": d.ID}, d, opts); err != nil {
			return err
		}
	}
	return nil
}
