package store

import (
	"context"
	stderrors "errors"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/StrikeTrackerBot/pkg/database"
	"github.com/PancyStudios/StrikeTrackerBot/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DocumentsCollection holds one Mongo document per stored JSON document
const DocumentsCollection = "documents"

var errOffline = stderrors.New("store: database offline and no cached copy")

type mongoDocument struct {
	ID        string    `bson:"_id"`
	Data      string    `bson:"data"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoBackend stores documents in MongoDB. The last copy read or written is
// kept in memory and served while the database is offline; writes made
// offline are queued on the Database and replayed on reconnect.
type MongoBackend struct {
	db         *database.Database
	collection string
	timeout    time.Duration

	mu    sync.RWMutex
	cache map[string][]byte
}

// NewMongoBackend creates a MongoBackend over db
func NewMongoBackend(db *database.Database) *MongoBackend {
	return &MongoBackend{
		db:         db,
		collection: DocumentsCollection,
		timeout:    5 * time.Second,
		cache:      make(map[string][]byte),
	}
}

func (b *MongoBackend) cached(name string) ([]byte, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	data, ok := b.cache[name]
	return data, ok
}

func (b *MongoBackend) remember(name string, data []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cache[name] = append([]byte(nil), data...)
}

// Read fetches the document, falling back to the cached copy when offline
func (b *MongoBackend) Read(name string) ([]byte, error) {
	col := b.db.GetCollection(b.collection)
	if !b.db.Connected() || col == nil {
		if data, ok := b.cached(name); ok {
			return data, nil
		}
		return nil, errOffline
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	var doc mongoDocument
	err := col.FindOne(ctx, bson.M{"_id": name}).Decode(&doc)
	if err != nil {
		if stderrors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotExist
		}
		logger.Warn(fmt.Sprintf("Failed to read %s from the database, trying cache...", name), "STORE")
		b.db.MarkDisconnected()
		if data, ok := b.cached(name); ok {
			return data, nil
		}
		return nil, err
	}

	data := []byte(doc.Data)
	b.remember(name, data)
	return data, nil
}

// Write upserts the document. While offline the write is queued and the
// call succeeds.
func (b *MongoBackend) Write(name string, data []byte) error {
	b.remember(name, data)

	update := bson.M{"data": string(data), "updatedAt": time.Now().UTC()}
	query := bson.M{"_id": name}

	col := b.db.GetCollection(b.collection)
	if !b.db.Connected() || col == nil {
		logger.Warn(fmt.Sprintf("Database offline. Queueing write for '%s'", name), "STORE")
		b.db.AddToWriteQueue(database.QueuedOperation{
			CollectionName: b.collection,
			Query:          query,
			Data:           update,
		})
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()

	_, err := col.UpdateOne(ctx, query, bson.M{"$set": update}, options.Update().SetUpsert(true))
	if err != nil {
		logger.Error(fmt.Sprintf("Write for '%s' failed, queueing: %v", name, err), "STORE")
		b.db.AddToWriteQueue(database.QueuedOperation{
			CollectionName: b.collection,
			Query:          query,
			Data:           update,
		})
		b.db.MarkDisconnected()
	}
	return nil
}
