// Package database provides the MongoDB connection used when documents are
// stored in Mongo instead of on disk. It keeps a reconnect loop running while
// the server is unreachable and replays queued writes once it comes back.
package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PancyStudios/StrikeTrackerBot/pkg/logger"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// QueuedOperation represents a pending upsert made while offline
type QueuedOperation struct {
	CollectionName string
	Query          bson.M
	Data           interface{}
}

// Database manages the MongoDB connection
type Database struct {
	client          *mongo.Client
	db              *mongo.Database
	isConnected     bool
	writeQueue      []QueuedOperation
	reconnectTicker *time.Ticker
	stopReconnect   chan struct{}
	mu              sync.RWMutex
	queueMu         sync.Mutex
	collections     map[string]*mongo.Collection
	mongoURL        string
	dbName          string
}

var (
	database *Database
	dbOnce   sync.Once
)

// Init initializes the global database instance
func Init(mongoURL, dbName string) (*Database, error) {
	var err error
	dbOnce.Do(func() {
		database = NewDatabase()
		err = database.Connect(mongoURL, dbName)
	})
	return database, err
}

// Get returns the global database instance
func Get() *Database {
	return database
}

// NewDatabase creates a new Database instance
func NewDatabase() *Database {
	return &Database{
		writeQueue:    make([]QueuedOperation, 0),
		stopReconnect: make(chan struct{}),
		collections:   make(map[string]*mongo.Collection),
	}
}

// Connect establishes a connection to MongoDB. On failure a reconnect loop is
// started and the error is returned.
func (d *Database) Connect(mongoURL, dbName string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.isConnected {
		return nil
	}
	d.mongoURL, d.dbName = mongoURL, dbName

	logger.System("Connecting to the database...", "DB")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(mongoURL).
		SetServerSelectionTimeout(5 * time.Second)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		logger.Critical(fmt.Sprintf("Failed to connect to the database: %v", err), "DB")
		d.scheduleReconnect(mongoURL, dbName)
		return err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		logger.Critical(fmt.Sprintf("Database did not answer ping: %v", err), "DB")
		_ = client.Disconnect(ctx)
		d.scheduleReconnect(mongoURL, dbName)
		return err
	}

	d.useClient(ctx, client, dbName)

	logger.Success("Connected to the database.", "DB")

	if d.reconnectTicker != nil {
		d.reconnectTicker.Stop()
		d.reconnectTicker = nil
	}

	go d.syncOfflineWrites()

	return nil
}

// useClient swaps in a connected client and releases the one it replaces.
// Must be called with d.mu held.
func (d *Database) useClient(ctx context.Context, client *mongo.Client, dbName string) {
	if old := d.client; old != nil && old != client {
		if err := old.Disconnect(ctx); err != nil {
			logger.Debug(fmt.Sprintf("Closing the previous database client: %v", err), "DB")
		}
	}
	d.client = client
	d.db = client.Database(dbName)
	d.collections = make(map[string]*mongo.Collection)
	d.isConnected = true
}

// MarkDisconnected flips the connection into offline mode after a failed
// operation and starts reconnecting.
func (d *Database) MarkDisconnected() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.isConnected {
		return
	}
	d.isConnected = false
	logger.Warn("Lost the database connection. Switching to offline mode.", "DB")
	d.scheduleReconnect(d.mongoURL, d.dbName)
}

// scheduleReconnect must be called with d.mu held
func (d *Database) scheduleReconnect(mongoURL, dbName string) {
	if d.reconnectTicker != nil {
		return
	}

	ticker := time.NewTicker(15 * time.Second)
	d.reconnectTicker = ticker
	go func() {
		for {
			select {
			case <-ticker.C:
				logger.Info("Retrying database connection...", "DB")
				if err := d.Connect(mongoURL, dbName); err == nil {
					return
				}
			case <-d.stopReconnect:
				return
			}
		}
	}()
}

// Connected reports whether the last connection attempt succeeded
func (d *Database) Connected() bool {
	if d == nil {
		return false
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.isConnected
}

// Disconnect closes the database connection
func (d *Database) Disconnect() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.reconnectTicker != nil {
		d.reconnectTicker.Stop()
		d.reconnectTicker = nil
	}
	select {
	case <-d.stopReconnect:
	default:
		close(d.stopReconnect)
	}

	if d.client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := d.client.Disconnect(ctx); err != nil {
			return err
		}
		d.isConnected = false
		logger.Warn("Database disconnected", "DB")
	}
	return nil
}

// Ping measures the database response time
func (d *Database) Ping() (time.Duration, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if !d.isConnected || d.client == nil {
		return 0, fmt.Errorf("not connected to database")
	}

	start := time.Now()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := d.client.Ping(ctx, readpref.Primary())
	return time.Since(start), err
}

// GetStatus returns a short human readable connection status
func (d *Database) GetStatus() (string, bool) {
	if d == nil {
		return "⚪ | Disabled", false
	}
	if _, err := d.Ping(); err != nil {
		return "🔴 | Offline", false
	}
	return "🟢 | Online", true
}

// GetCollection returns a MongoDB collection, or nil before the first connection
func (d *Database) GetCollection(name string) *mongo.Collection {
	d.mu.RLock()
	if col, exists := d.collections[name]; exists {
		d.mu.RUnlock()
		return col
	}
	d.mu.RUnlock()

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}

	col := d.db.Collection(name)
	d.collections[name] = col
	return col
}

// AddToWriteQueue adds an upsert to the offline write queue. A newer write for
// the same collection and query replaces the queued one.
func (d *Database) AddToWriteQueue(op QueuedOperation) {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()

	for i, queued := range d.writeQueue {
		if queued.CollectionName == op.CollectionName && fmt.Sprint(queued.Query) == fmt.Sprint(op.Query) {
			d.writeQueue[i] = op
			return
		}
	}
	d.writeQueue = append(d.writeQueue, op)
}

// PendingWrites returns the number of queued operations
func (d *Database) PendingWrites() int {
	d.queueMu.Lock()
	defer d.queueMu.Unlock()
	return len(d.writeQueue)
}

// syncOfflineWrites replays queued operations against the database
func (d *Database) syncOfflineWrites() {
	d.queueMu.Lock()
	if len(d.writeQueue) == 0 {
		d.queueMu.Unlock()
		return
	}

	logger.System(fmt.Sprintf("Replaying %d pending writes...", len(d.writeQueue)), "DB-Sync")

	operations := make([]QueuedOperation, len(d.writeQueue))
	copy(operations, d.writeQueue)
	d.writeQueue = make([]QueuedOperation, 0)
	d.queueMu.Unlock()

	failedOps := make([]QueuedOperation, 0)

	for _, op := range operations {
		col := d.GetCollection(op.CollectionName)
		if col == nil {
			logger.Error(fmt.Sprintf("Collection '%s' unavailable during sync.", op.CollectionName), "DB-Sync")
			failedOps = append(failedOps, op)
			continue
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		opts := options.Update().SetUpsert(true)
		_, err := col.UpdateOne(ctx, op.Query, bson.M{"$set": op.Data}, opts)
		cancel()

		if err != nil {
			logger.Error(fmt.Sprintf("Failed to replay write for '%s'; it will be retried.", op.CollectionName), "DB-Sync")
			failedOps = append(failedOps, op)
		}
	}

	if len(failedOps) > 0 {
		d.queueMu.Lock()
	requeue:
		for _, op := range failedOps {
			// a write queued during the replay is newer
			for _, queued := range d.writeQueue {
				if queued.CollectionName == op.CollectionName && fmt.Sprint(queued.Query) == fmt.Sprint(op.Query) {
					continue requeue
				}
			}
			d.writeQueue = append(d.writeQueue, op)
		}
		d.queueMu.Unlock()
		logger.Warn(fmt.Sprintf("%d writes could not be replayed and will be retried.", len(failedOps)), "DB-Sync")
	} else {
		logger.Success("Pending writes replayed.", "DB-Sync")
	}
}

// Client returns the underlying MongoDB client
func (d *Database) Client() *mongo.Client {
	return d.client
}

// DB returns the underlying MongoDB database
func (d *Database) DB() *mongo.Database {
	return d.db
}
