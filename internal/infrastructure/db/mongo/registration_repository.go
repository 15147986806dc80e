package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/healthday/events-api/internal/core/domain"
)

const collectionRegistrations = "registrations"

// RegistrationRepository implements ports.RegistrationRepository using
// MongoDB. Cancellation and feedback are conditional single-document updates,
// which keeps them exactly-once without any application-side locking.
type RegistrationRepository struct {
	col *mongo.Collection
}

func NewRegistrationRepository(db *mongo.Database) *RegistrationRepository {
	return &RegistrationRepository{col: db.Collection(collectionRegistrations)}
}

type mongoRegistration struct {
	ID                  primitive.ObjectID      `bson:"_id,omitempty"`
	User                primitive.ObjectID      `bson:"user"`
	Event               primitive.ObjectID      `bson:"event"`
	Status              string                  `bson:"status"`
	RegistrationDate    time.Time               `bson:"registrationDate"`
	Attended            bool                    `bson:"attended"`
	Feedback            *domain.Feedback        `bson:"feedback,omitempty"`
	DietaryRestrictions string                  `bson:"dietaryRestrictions,omitempty"`
	SpecialRequirements string                  `bson:"specialRequirements,omitempty"`
	EmergencyContact    domain.EmergencyContact `bson:"emergencyContact"`
	CreatedAt           time.Time               `bson:"createdAt"`
	UpdatedAt           time.Time               `bson:"updatedAt"`
}

func (m *mongoRegistration) toDomain() *domain.Registration {
	return &domain.Registration{
		ID:                  m.ID.Hex(),
		UserID:              m.User.Hex(),
		EventID:             m.Event.Hex(),
		Status:              domain.RegistrationStatus(m.Status),
		RegistrationDate:    m.RegistrationDate,
		Attended:            m.Attended,
		Feedback:            m.Feedback,
		DietaryRestrictions: m.DietaryRestrictions,
		SpecialRequirements: m.SpecialRequirements,
		EmergencyContact:    m.EmergencyContact,
		CreatedAt:           m.CreatedAt,
		UpdatedAt:           m.UpdatedAt,
	}
}

func (r *RegistrationRepository) Create(ctx context.Context, reg *domain.Registration) (*domain.Registration, error) {
	user, err := primitive.ObjectIDFromHex(reg.UserID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	event, err := primitive.ObjectIDFromHex(reg.EventID)
	if err != nil {
		return nil, domain.ErrEventNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoRegistration{
		User:                user,
		Event:               event,
		Status:              string(reg.Status),
		RegistrationDate:    reg.RegistrationDate,
		Attended:            reg.Attended,
		DietaryRestrictions: reg.DietaryRestrictions,
		SpecialRequirements: reg.SpecialRequirements,
		EmergencyContact:    reg.EmergencyContact,
		CreatedAt:           reg.CreatedAt,
		UpdatedAt:           reg.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("insert registration: %w", err)
	}

	created := *reg
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *RegistrationRepository) FindByID(ctx context.Context, id string) (*domain.Registration, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRegistrationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mr mongoRegistration
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *RegistrationRepository) FindByUserAndEvent(ctx context.Context, userID, eventID string) (*domain.Registration, error) {
	user, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrRegistrationNotFound
	}
	event, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, domain.ErrRegistrationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mr mongoRegistration
	if err := r.col.FindOne(ctx, bson.M{"user": user, "event": event}).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return mr.toDomain(), nil
}

// Cancel flips status to cancelled only when it is not cancelled already, and
// returns the pre-transition document so the caller can tell whether the
// registration held a seat.
func (r *RegistrationRepository) Cancel(ctx context.Context, id string) (*domain.Registration, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRegistrationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "status": bson.M{"$ne": string(domain.RegistrationCancelled)}}
	update := bson.M{"$set": bson.M{
		"status":    string(domain.RegistrationCancelled),
		"updatedAt": time.Now().UTC(),
	}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.Before)
	var mr mongoRegistration
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Either gone or already cancelled; look once more to say which.
			if _, findErr := r.FindByID(ctx, id); findErr != nil {
				return nil, findErr
			}
			return nil, domain.ErrAlreadyCancelled
		}
		return nil, fmt.Errorf("cancel registration: %w", err)
	}
	return mr.toDomain(), nil
}

// SetFeedback attaches feedback only when none exists yet.
func (r *RegistrationRepository) SetFeedback(ctx context.Context, id string, fb domain.Feedback) (*domain.Registration, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrRegistrationNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "feedback": bson.M{"$exists": false}}
	update := bson.M{"$set": bson.M{"feedback": fb, "updatedAt": time.Now().UTC()}}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var mr mongoRegistration
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&mr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			if _, findErr := r.FindByID(ctx, id); findErr != nil {
				return nil, findErr
			}
			return nil, domain.ErrFeedbackExists
		}
		return nil, fmt.Errorf("set feedback: %w", err)
	}
	return mr.toDomain(), nil
}

func (r *RegistrationRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Registration, error) {
	user, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.list(ctx, bson.M{"user": user}, -1)
}

func (r *RegistrationRepository) ListByEvent(ctx context.Context, eventID string) ([]*domain.Registration, error) {
	event, err := primitive.ObjectIDFromHex(eventID)
	if err != nil {
		return nil, domain.ErrEventNotFound
	}
	return r.list(ctx, bson.M{"event": event}, 1)
}

// SeatCounts groups seat-holding registrations (pending/confirmed) by event.
func (r *RegistrationRepository) SeatCounts(ctx context.Context) (map[string]int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": bson.M{"$in": bson.A{
			string(domain.RegistrationPending),
			string(domain.RegistrationConfirmed),
		}}}}},
		{{Key: "$group", Value: bson.M{"_id": "$event", "count": bson.M{"$sum": 1}}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("seat counts: %w", err)
	}
	defer cur.Close(ctx)

	counts := make(map[string]int64)
	for cur.Next(ctx) {
		var row struct {
			ID    primitive.ObjectID `bson:"_id"`
			Count int64              `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, fmt.Errorf("decode seat count: %w", err)
		}
		counts[row.ID.Hex()] = row.Count
	}
	return counts, cur.Err()
}

// EnsureIndexes creates the unique (user, event) index plus the query-path
// indexes.
func (r *RegistrationRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user", Value: 1}, {Key: "event", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "event", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "user", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "registrationDate", Value: 1}}},
	})
	return err
}

func (r *RegistrationRepository) list(ctx context.Context, filter bson.M, dateOrder int) ([]*domain.Registration, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "registrationDate", Value: dateOrder}})
	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	defer cur.Close(ctx)

	var regs []*domain.Registration
	for cur.Next(ctx) {
		var mr mongoRegistration
		if err := cur.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode registration: %w", err)
		}
		regs = append(regs, mr.toDomain())
	}
	return regs, cur.Err()
}
