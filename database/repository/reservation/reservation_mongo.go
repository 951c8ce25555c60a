package reservationRepo

import (
	"context"
	"fmt"
	"time"

	"salonai/config"
	"salonai/database"
	"salonai/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const queryTimeout = 5 * time.Second

// MongoReservationRepo implements ReservationRepository using MongoDB.
type MongoReservationRepo struct {
	coll *mongo.Collection
}

// NewMongoReservationRepo constructs a new instance of MongoReservationRepo.
func NewMongoReservationRepo() ReservationRepository {
	db := database.MongoClient.Database(config.AppConfig.DatabaseName)
	return &MongoReservationRepo{coll: db.Collection("reservations")}
}

func (repo *MongoReservationRepo) Create(ctx context.Context, res *models.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res.CreatedAt = time.Now()
	if _, err := repo.coll.InsertOne(ctx, res); err != nil {
		return fmt.Errorf("error inserting reservation %s: %w", res.ID, err)
	}
	return nil
}

func (repo *MongoReservationRepo) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var res models.Reservation
	filter := bson.M{"id": id}
	if err := repo.coll.FindOne(ctx, filter).Decode(&res); err != nil {
		return nil, fmt.Errorf("error fetching reservation with id %s: %w", id, err)
	}
	return &res, nil
}

func (repo *MongoReservationRepo) ListByUser(ctx context.Context, userID string) ([]models.Reservation, error) {
	filter := bson.M{"userId": userID}
	return repo.list(ctx, filter)
}

func (repo *MongoReservationRepo) ListByDate(ctx context.Context, date string) ([]models.Reservation, error) {
	filter := bson.M{"date": date}
	return repo.list(ctx, filter)
}

func (repo *MongoReservationRepo) list(ctx context.Context, filter bson.M) ([]models.Reservation, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "start", Value: 1}})
	cursor, err := repo.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching reservations: %w", err)
	}
	defer cursor.Close(ctx)

	var results []models.Reservation
	for cursor.Next(ctx) {
		var r models.Reservation
		if err := cursor.Decode(&r); err != nil {
			return nil, fmt.Errorf("error decoding reservation: %w", err)
		}
		results = append(results, r)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return results, nil
}

func (repo *MongoReservationRepo) Update(ctx context.Context, res *models.Reservation) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res.UpdatedAt = time.Now()
	filter := bson.M{"id": res.ID}
	result, err := repo.coll.ReplaceOne(ctx, filter, res)
	if err != nil {
		return fmt.Errorf("error updating reservation %s: %w", res.ID, err)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("reservation %s not found", res.ID)
	}
	return nil
}

func (repo *MongoReservationRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	filter := bson.M{"id": id}
	result, err := repo.coll.DeleteOne(ctx, filter)
	if err != nil {
		return fmt.Errorf("error deleting reservation %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return fmt.Errorf("reservation %s not found", id)
	}
	return nil
}
