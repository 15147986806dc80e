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
	"github.com/healthday/events-api/internal/core/ports"
)

const collectionEvents = "events"

// EventRepository implements ports.EventRepository using MongoDB. The seat
// counter operations are single conditional updates, so the capacity check and
// the increment can never be interleaved by a concurrent request.
type EventRepository struct {
	col *mongo.Collection
}

func NewEventRepository(db *mongo.Database) *EventRepository {
	return &EventRepository{col: db.Collection(collectionEvents)}
}

type mongoEvent struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty"`
	Title               string             `bson:"title"`
	Description         string             `bson:"description"`
	Date                time.Time          `bson:"date"`
	StartTime           string             `bson:"startTime"`
	EndTime             string             `bson:"endTime"`
	Location            domain.Location    `bson:"location"`
	Organizer           primitive.ObjectID `bson:"organizer"`
	Category            string             `bson:"category"`
	MaxParticipants     int                `bson:"maxParticipants"`
	CurrentParticipants int                `bson:"currentParticipants"`
	IsActive            bool               `bson:"isActive"`
	IsVirtual           bool               `bson:"isVirtual"`
	VirtualMeetingLink  string             `bson:"virtualMeetingLink,omitempty"`
	Tags                []string           `bson:"tags,omitempty"`
	Image               string             `bson:"image,omitempty"`
	Requirements        string             `bson:"requirements,omitempty"`
	Agenda              string             `bson:"agenda,omitempty"`
	Speakers            []domain.Speaker   `bson:"speakers,omitempty"`
	Sponsors            []domain.Sponsor   `bson:"sponsors,omitempty"`
	CreatedAt           time.Time          `bson:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt"`
}

func (e *mongoEvent) toDomain() *domain.Event {
	return &domain.Event{
		ID:                  e.ID.Hex(),
		Title:               e.Title,
		Description:         e.Description,
		Date:                e.Date,
		StartTime:           e.StartTime,
		EndTime:             e.EndTime,
		Location:            e.Location,
		OrganizerID:         e.Organizer.Hex(),
		Category:            e.Category,
		MaxParticipants:     e.MaxParticipants,
		CurrentParticipants: e.CurrentParticipants,
		IsActive:            e.IsActive,
		IsVirtual:           e.IsVirtual,
		VirtualMeetingLink:  e.VirtualMeetingLink,
		Tags:                e.Tags,
		Image:               e.Image,
		Requirements:        e.Requirements,
		Agenda:              e.Agenda,
		Speakers:            e.Speakers,
		Sponsors:            e.Sponsors,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

func (r *EventRepository) Create(ctx context.Context, event *domain.Event) (*domain.Event, error) {
	organizer, err := primitive.ObjectIDFromHex(event.OrganizerID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoEvent{
		Title:               event.Title,
		Description:         event.Description,
		Date:                event.Date,
		StartTime:           event.StartTime,
		EndTime:             event.EndTime,
		Location:            event.Location,
		Organizer:           organizer,
		Category:            event.Category,
		MaxParticipants:     event.MaxParticipants,
		CurrentParticipants: event.CurrentParticipants,
		IsActive:            event.IsActive,
		IsVirtual:           event.IsVirtual,
		VirtualMeetingLink:  event.VirtualMeetingLink,
		Tags:                event.Tags,
		Image:               event.Image,
		Requirements:        event.Requirements,
		Agenda:              event.Agenda,
		Speakers:            event.Speakers,
		Sponsors:            event.Sponsors,
		CreatedAt:           event.CreatedAt,
		UpdatedAt:           event.UpdatedAt,
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}

	created := *event
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrEventNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var me mongoEvent
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&me); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("find event: %w", err)
	}
	return me.toDomain(), nil
}

func (r *EventRepository) Update(ctx context.Context, id string, input ports.UpdateEventInput) (*domain.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrEventNotFound
	}

	set := bson.M{"updatedAt": time.Now().UTC()}
	if input.Title != nil {
		set["title"] = *input.Title
	}
	if input.Description != nil {
		set["description"] = *input.Description
	}
	if input.Date != nil {
		set["date"] = *input.Date
	}
	if input.StartTime != nil {
		set["startTime"] = *input.StartTime
	}
	if input.EndTime != nil {
		set["endTime"] = *input.EndTime
	}
	if input.Location != nil {
		set["location"] = input.Location
	}
	if input.Category != nil {
		set["category"] = *input.Category
	}
	if input.MaxParticipants != nil {
		set["maxParticipants"] = *input.MaxParticipants
	}
	if input.IsActive != nil {
		set["isActive"] = *input.IsActive
	}
	if input.IsVirtual != nil {
		set["isVirtual"] = *input.IsVirtual
	}
	if input.VirtualMeetingLink != nil {
		set["virtualMeetingLink"] = *input.VirtualMeetingLink
	}
	if input.Tags != nil {
		set["tags"] = *input.Tags
	}
	if input.Image != nil {
		set["image"] = *input.Image
	}
	if input.Requirements != nil {
		set["requirements"] = *input.Requirements
	}
	if input.Agenda != nil {
		set["agenda"] = *input.Agenda
	}
	if input.Speakers != nil {
		set["speakers"] = *input.Speakers
	}
	if input.Sponsors != nil {
		set["sponsors"] = *input.Sponsors
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var me mongoEvent
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&me); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	return me.toDomain(), nil
}

func (r *EventRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrEventNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

func (r *EventRepository) List(ctx context.Context, filter ports.ListEventsFilter) ([]*domain.Event, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}
	if filter.ActiveOnly {
		query["isActive"] = true
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.Search != "" {
		query["$or"] = bson.A{
			bson.M{"title": bson.M{"$regex": filter.Search, "$options": "i"}},
			bson.M{"description": bson.M{"$regex": filter.Search, "$options": "i"}},
			bson.M{"tags": bson.M{"$regex": filter.Search, "$options": "i"}},
		}
	}
	if !filter.Date.IsZero() {
		day := filter.Date.Truncate(24 * time.Hour)
		query["date"] = bson.M{"$gte": day, "$lt": day.Add(24 * time.Hour)}
	}

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("count events: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	if filter.Page > 0 && filter.Limit > 0 {
		opts.SetSkip(int64((filter.Page - 1) * filter.Limit)).SetLimit(int64(filter.Limit))
	}

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	defer cur.Close(ctx)

	var events []*domain.Event
	for cur.Next(ctx) {
		var me mongoEvent
		if err := cur.Decode(&me); err != nil {
			return nil, 0, fmt.Errorf("decode event: %w", err)
		}
		events = append(events, me.toDomain())
	}
	return events, total, cur.Err()
}

// ReserveSeat increments currentParticipants only while the event is active
// and below capacity. Check and increment are one update, so the counter can
// never pass maxParticipants no matter how many requests race.
func (r *EventRepository) ReserveSeat(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, domain.ErrEventNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"_id":      oid,
		"isActive": true,
		"$expr":    bson.M{"$lt": bson.A{"$currentParticipants", "$maxParticipants"}},
	}
	update := bson.M{
		"$inc": bson.M{"currentParticipants": 1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("reserve seat: %w", err)
	}
	return res.ModifiedCount == 1, nil
}

// ReleaseSeat decrements currentParticipants, floored at zero.
func (r *EventRepository) ReleaseSeat(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrEventNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "currentParticipants": bson.M{"$gt": 0}}
	update := bson.M{
		"$inc": bson.M{"currentParticipants": -1},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}

	if _, err := r.col.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("release seat: %w", err)
	}
	return nil
}

// SetParticipantCount overwrites the counter; reconciliation only.
func (r *EventRepository) SetParticipantCount(ctx context.Context, id string, count int) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrEventNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$set": bson.M{"currentParticipants": count, "updatedAt": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("set participant count: %w", err)
	}
	return nil
}

// EnsureIndexes creates the query-path indexes.
func (r *EventRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "date", Value: 1}, {Key: "isActive", Value: 1}}},
		{Keys: bson.D{{Key: "category", Value: 1}, {Key: "isActive", Value: 1}}},
		{Keys: bson.D{{Key: "organizer", Value: 1}}},
	})
	return err
}
