/*
Package mongo provides a MongoDB-backed implementation of the storage interfaces.

PURPOSE:
  Alternative to store/sqlite for deployments that already run MongoDB.
  Collections: orders, menu_items, users.

INTERFACES IMPLEMENTED:
  pos.Store, catalog.Store, auth.UserStore

ENCODING:
  Money is stored as decimal strings. created_at is stored twice: as a BSON
  date for humans and as created_at_ns (int64 Unix nanoseconds) for exact
  round-trips and window filters. The ObjectID _id breaks ties between equal
  timestamps in insertion order.

SEE ALSO:
  - store/sqlite: default store
  - pos/store.go: Store interface
*/
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/warp/pos-engine/auth"
	"github.com/warp/pos-engine/catalog"
	"github.com/warp/pos-engine/pos"
)

const (
	ordersCollection = "orders"
	menuCollection   = "menu_items"
	usersCollection  = "users"
)

// Store implements all storage interfaces on one database.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials uri, pings the server and ensures indexes on database dbName.
func Connect(ctx context.Context, uri, dbName string) (*Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("database connection URL is empty")
	}

	clientOptions := options.Client().ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(2).
		SetConnectTimeout(5 * time.Second).
		SetSocketTimeout(10 * time.Second)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return s, nil
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)
	indexes := map[string][]mongo.IndexModel{
		ordersCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "created_at_ns", Value: 1}, {Key: "_id", Value: 1}}},
		},
		menuCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "available", Value: 1}}},
		},
		usersCollection: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
		},
	}
	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// =============================================================================
// TRANSACTION STORE (pos.Store interface)
// =============================================================================

func (s *Store) Append(ctx context.Context, tx pos.Transaction) error {
	_, err := s.db.Collection(ordersCollection).InsertOne(ctx, encodeTransaction(tx))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return pos.ErrDuplicate
		}
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

func (s *Store) ListRecent(ctx context.Context, limit int) ([]pos.Transaction, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at_ns", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))
	return s.findTransactions(ctx, bson.D{}, opts)
}

func (s *Store) ListInWindow(ctx context.Context, w pos.Window) ([]pos.Transaction, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at_ns", Value: 1}, {Key: "_id", Value: 1}})
	return s.findTransactions(ctx, windowFilter(w), opts)
}

func (s *Store) findTransactions(ctx context.Context, filter bson.D, opts *options.FindOptions) ([]pos.Transaction, error) {
	cursor, err := s.db.Collection(ordersCollection).Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	var docs []transactionDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}

	txs := make([]pos.Transaction, 0, len(docs))
	for _, d := range docs {
		tx, err := decodeTransaction(d)
		if err != nil {
			return nil, err
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// windowFilter selects Start <= created_at < End.
func windowFilter(w pos.Window) bson.D {
	rng := bson.D{{Key: "$gte", Value: w.Start.UnixNano()}}
	if w.Bounded() {
		rng = append(rng, bson.E{Key: "$lt", Value: w.End.UnixNano()})
	}
	return bson.D{{Key: "created_at_ns", Value: rng}}
}

// =============================================================================
// USER STORE (auth.UserStore interface)
// =============================================================================

func (s *Store) CreateUser(ctx context.Context, u auth.User) error {
	_, err := s.db.Collection(usersCollection).InsertOne(ctx, encodeUser(u))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return pos.ErrDuplicate
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (s *Store) UserByUsername(ctx context.Context, username string) (auth.User, error) {
	return s.findUser(ctx, bson.D{{Key: "username", Value: username}})
}

func (s *Store) UserByID(ctx context.Context, id string) (auth.User, error) {
	return s.findUser(ctx, bson.D{{Key: "id", Value: id}})
}

func (s *Store) findUser(ctx context.Context, filter bson.D) (auth.User, error) {
	var d userDoc
	err := s.db.Collection(usersCollection).FindOne(ctx, filter).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return auth.User{}, pos.ErrNotFound
	}
	if err != nil {
		return auth.User{}, fmt.Errorf("failed to load user: %w", err)
	}
	return decodeUser(d), nil
}

// =============================================================================
// MENU STORE (catalog.Store interface)
// =============================================================================

func (s *Store) CreateItem(ctx context.Context, item catalog.Item) error {
	_, err := s.db.Collection(menuCollection).InsertOne(ctx, encodeItem(item))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return pos.ErrDuplicate
		}
		return fmt.Errorf("failed to create menu item: %w", err)
	}
	return nil
}

func (s *Store) ListAvailable(ctx context.Context) ([]catalog.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := s.db.Collection(menuCollection).Find(ctx, availableFilter(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	var docs []itemDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to read menu items: %w", err)
	}

	items := make([]catalog.Item, 0, len(docs))
	for _, d := range docs {
		item, err := decodeItem(d)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *Store) CountAvailable(ctx context.Context) (int, error) {
	n, err := s.db.Collection(menuCollection).CountDocuments(ctx, availableFilter())
	return int(n), err
}

func (s *Store) CountItems(ctx context.Context) (int, error) {
	n, err := s.db.Collection(menuCollection).CountDocuments(ctx, bson.D{})
	return int(n), err
}

func availableFilter() bson.D {
	return bson.D{{Key: "available", Value: true}}
}
