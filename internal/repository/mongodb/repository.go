package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/dembasy/ranchhand/internal/domain/models"
)

// ErrNotFound indicates the requested document does not exist for the user.
var ErrNotFound = errors.New("document not found")

// Collection names, shared by all users; every query is scoped by user_id.
const (
	collCattle        = "cattle"
	collPens          = "pens"
	collBarns         = "barns"
	collInventory     = "inventory_items"
	collHealth        = "health_records"
	collWeights       = "weight_records"
	collActivities    = "activities"
	collConversations = "conversations"
)

// Repository defines the persistence operations used by the agent services.
type Repository interface {
	InsertCattle(ctx context.Context, c models.Cattle) error
	UpdateCattle(ctx context.Context, c models.Cattle) error
	DeleteCattle(ctx context.Context, userID, cattleID string) error
	FindCattleByTag(ctx context.Context, userID, tagNumber string) (*models.Cattle, error)
	ListCattle(ctx context.Context, userID string) ([]models.Cattle, error)
	CountActiveCattleInPen(ctx context.Context, userID, penID string) (int64, error)

	InsertPen(ctx context.Context, p models.Pen) error
	UpdatePen(ctx context.Context, p models.Pen) error
	DeletePen(ctx context.Context, userID, penID string) error
	FindPenByName(ctx context.Context, userID, name string) (*models.Pen, error)
	ListPens(ctx context.Context, userID string) ([]models.Pen, error)
	ListPenOwners(ctx context.Context) ([]string, error)

	InsertBarn(ctx context.Context, b models.Barn) error
	FindBarnByName(ctx context.Context, userID, name string) (*models.Barn, error)
	ListBarns(ctx context.Context, userID string) ([]models.Barn, error)

	InsertInventoryItem(ctx context.Context, item models.InventoryItem) error
	UpdateInventoryItem(ctx context.Context, item models.InventoryItem) error
	FindInventoryItemByName(ctx context.Context, userID, name string) (*models.InventoryItem, error)
	ListInventory(ctx context.Context, userID string) ([]models.InventoryItem, error)

	InsertHealthRecord(ctx context.Context, rec models.HealthRecord) error
	ListHealthRecords(ctx context.Context, userID string, limit int64) ([]models.HealthRecord, error)

	InsertWeightRecord(ctx context.Context, rec models.WeightRecord) error

	InsertActivity(ctx context.Context, act models.Activity) error
	ListActivities(ctx context.Context, userID string, limit int64) ([]models.Activity, error)

	SaveConversation(ctx context.Context, conv models.Conversation) error
	GetConversation(ctx context.Context, userID, conversationID string) (*models.Conversation, error)
	ListConversations(ctx context.Context, userID string) ([]models.Conversation, error)
}

// MongoDBRepository implements Repository against a MongoDB database.
type MongoDBRepository struct {
	client *mongo.Client
	dbName string
}

// NewMongoDBRepository connects to MongoDB and verifies the connection.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	// Ping the database to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoDBRepository{client: client, dbName: dbName}, nil
}

func (r *MongoDBRepository) coll(name string) *mongo.Collection {
	return r.client.Database(r.dbName).Collection(name)
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// InsertCattle stores a new head of cattle.
func (r *MongoDBRepository) InsertCattle(ctx context.Context, c models.Cattle) error {
	if _, err := r.coll(collCattle).InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert cattle: %w", err)
	}
	return nil
}

// UpdateCattle replaces the stored document for the given head.
func (r *MongoDBRepository) UpdateCattle(ctx context.Context, c models.Cattle) error {
	filter := bson.M{"_id": c.ID, "user_id": c.UserID}
	res, err := r.coll(collCattle).ReplaceOne(ctx, filter, c)
	if err != nil {
		return fmt.Errorf("update cattle %s: %w", c.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCattle removes the document entirely. Most "deletions" in the app are
// status transitions; this backs the explicit deleteCattle action only.
func (r *MongoDBRepository) DeleteCattle(ctx context.Context, userID, cattleID string) error {
	res, err := r.coll(collCattle).DeleteOne(ctx, bson.M{"_id": cattleID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete cattle %s: %w", cattleID, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindCattleByTag looks a head up by its tag number.
func (r *MongoDBRepository) FindCattleByTag(ctx context.Context, userID, tagNumber string) (*models.Cattle, error) {
	var c models.Cattle
	err := r.coll(collCattle).FindOne(ctx, bson.M{"user_id": userID, "tag_number": tagNumber}).Decode(&c)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find cattle by tag %s: %w", tagNumber, err)
	}
	return &c, nil
}

// ListCattle returns every head owned by the user.
func (r *MongoDBRepository) ListCattle(ctx context.Context, userID string) ([]models.Cattle, error) {
	cursor, err := r.coll(collCattle).Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list cattle: %w", err)
	}
	var out []models.Cattle
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode cattle list: %w", err)
	}
	return out, nil
}

// CountActiveCattleInPen counts Active cattle currently assigned to the pen.
// This is the ground truth the pen's denormalized current_count reconciles to.
func (r *MongoDBRepository) CountActiveCattleInPen(ctx context.Context, userID, penID string) (int64, error) {
	filter := bson.M{"user_id": userID, "pen_id": penID, "status": models.CattleStatusActive}
	count, err := r.coll(collCattle).CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count cattle in pen %s: %w", penID, err)
	}
	return count, nil
}

// InsertPen stores a new pen.
func (r *MongoDBRepository) InsertPen(ctx context.Context, p models.Pen) error {
	if _, err := r.coll(collPens).InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert pen: %w", err)
	}
	return nil
}

// UpdatePen replaces the stored pen document.
func (r *MongoDBRepository) UpdatePen(ctx context.Context, p models.Pen) error {
	filter := bson.M{"_id": p.ID, "user_id": p.UserID}
	res, err := r.coll(collPens).ReplaceOne(ctx, filter, p)
	if err != nil {
		return fmt.Errorf("update pen %s: %w", p.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// DeletePen removes a pen document.
func (r *MongoDBRepository) DeletePen(ctx context.Context, userID, penID string) error {
	res, err := r.coll(collPens).DeleteOne(ctx, bson.M{"_id": penID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("delete pen %s: %w", penID, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindPenByName looks a pen up by its display name.
func (r *MongoDBRepository) FindPenByName(ctx context.Context, userID, name string) (*models.Pen, error) {
	var p models.Pen
	err := r.coll(collPens).FindOne(ctx, bson.M{"user_id": userID, "name": name}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find pen by name %s: %w", name, err)
	}
	return &p, nil
}

// ListPens returns every pen owned by the user.
func (r *MongoDBRepository) ListPens(ctx context.Context, userID string) ([]models.Pen, error) {
	cursor, err := r.coll(collPens).Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list pens: %w", err)
	}
	var out []models.Pen
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode pen list: %w", err)
	}
	return out, nil
}

// ListPenOwners returns the distinct user ids owning at least one pen. Drives
// the reconciliation job.
func (r *MongoDBRepository) ListPenOwners(ctx context.Context) ([]string, error) {
	values, err := r.coll(collPens).Distinct(ctx, "user_id", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list pen owners: %w", err)
	}
	owners := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			owners = append(owners, s)
		}
	}
	return owners, nil
}

// InsertBarn stores a new barn.
func (r *MongoDBRepository) InsertBarn(ctx context.Context, b models.Barn) error {
	if _, err := r.coll(collBarns).InsertOne(ctx, b); err != nil {
		return fmt.Errorf("insert barn: %w", err)
	}
	return nil
}

// FindBarnByName looks a barn up by its display name.
func (r *MongoDBRepository) FindBarnByName(ctx context.Context, userID, name string) (*models.Barn, error) {
	var b models.Barn
	err := r.coll(collBarns).FindOne(ctx, bson.M{"user_id": userID, "name": name}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find barn by name %s: %w", name, err)
	}
	return &b, nil
}

// ListBarns returns every barn owned by the user.
func (r *MongoDBRepository) ListBarns(ctx context.Context, userID string) ([]models.Barn, error) {
	cursor, err := r.coll(collBarns).Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list barns: %w", err)
	}
	var out []models.Barn
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode barn list: %w", err)
	}
	return out, nil
}

// InsertInventoryItem stores a new inventory item.
func (r *MongoDBRepository) InsertInventoryItem(ctx context.Context, item models.InventoryItem) error {
	if _, err := r.coll(collInventory).InsertOne(ctx, item); err != nil {
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// UpdateInventoryItem replaces the stored item document.
func (r *MongoDBRepository) UpdateInventoryItem(ctx context.Context, item models.InventoryItem) error {
	filter := bson.M{"_id": item.ID, "user_id": item.UserID}
	res, err := r.coll(collInventory).ReplaceOne(ctx, filter, item)
	if err != nil {
		return fmt.Errorf("update inventory item %s: %w", item.ID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// FindInventoryItemByName looks an item up by name.
func (r *MongoDBRepository) FindInventoryItemByName(ctx context.Context, userID, name string) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := r.coll(collInventory).FindOne(ctx, bson.M{"user_id": userID, "name": name}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find inventory item %s: %w", name, err)
	}
	return &item, nil
}

// ListInventory returns every inventory item owned by the user.
func (r *MongoDBRepository) ListInventory(ctx context.Context, userID string) ([]models.InventoryItem, error) {
	cursor, err := r.coll(collInventory).Find(ctx, bson.M{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	var out []models.InventoryItem
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode inventory list: %w", err)
	}
	return out, nil
}

// InsertHealthRecord appends a treatment or health event.
func (r *MongoDBRepository) InsertHealthRecord(ctx context.Context, rec models.HealthRecord) error {
	if _, err := r.coll(collHealth).InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert health record: %w", err)
	}
	return nil
}

// ListHealthRecords returns the most recent health records, newest first.
func (r *MongoDBRepository) ListHealthRecords(ctx context.Context, userID string, limit int64) ([]models.HealthRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "recorded_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cursor, err := r.coll(collHealth).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list health records: %w", err)
	}
	var out []models.HealthRecord
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode health records: %w", err)
	}
	return out, nil
}

// InsertWeightRecord appends a weight measurement.
func (r *MongoDBRepository) InsertWeightRecord(ctx context.Context, rec models.WeightRecord) error {
	if _, err := r.coll(collWeights).InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("insert weight record: %w", err)
	}
	return nil
}

// InsertActivity appends an activity log entry.
func (r *MongoDBRepository) InsertActivity(ctx context.Context, act models.Activity) error {
	if _, err := r.coll(collActivities).InsertOne(ctx, act); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// ListActivities returns the most recent activity entries, newest first.
func (r *MongoDBRepository) ListActivities(ctx context.Context, userID string, limit int64) ([]models.Activity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cursor, err := r.coll(collActivities).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	var out []models.Activity
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode activities: %w", err)
	}
	return out, nil
}

// SaveConversation overwrites the whole conversation document: delete then
// insert, not an append. Concurrent saves of the same conversation race and
// the last writer wins; messages from the loser are dropped silently.
func (r *MongoDBRepository) SaveConversation(ctx context.Context, conv models.Conversation) error {
	coll := r.coll(collConversations)
	if _, err := coll.DeleteOne(ctx, bson.M{"_id": conv.ID, "user_id": conv.UserID}); err != nil {
		return fmt.Errorf("clear conversation %s: %w", conv.ID, err)
	}
	if _, err := coll.InsertOne(ctx, conv); err != nil {
		return fmt.Errorf("save conversation %s: %w", conv.ID, err)
	}
	return nil
}

// GetConversation loads one conversation with its full message array.
func (r *MongoDBRepository) GetConversation(ctx context.Context, userID, conversationID string) (*models.Conversation, error) {
	var conv models.Conversation
	err := r.coll(collConversations).FindOne(ctx, bson.M{"_id": conversationID, "user_id": userID}).Decode(&conv)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get conversation %s: %w", conversationID, err)
	}
	return &conv, nil
}

// ListConversations returns the user's conversations, most recent first.
func (r *MongoDBRepository) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cursor, err := r.coll(collConversations).Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	var out []models.Conversation
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("decode conversations: %w", err)
	}
	return out, nil
}
