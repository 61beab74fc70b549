// driver/mongo.go
//
// Thin shim over go.mongodb.org/mongo-driver/v2 that satisfies the
// mongonorm Runner interface and adds OpenTelemetry spans around every
// round-trip.
//
// Usage:
//
//	client, _ := mongo.Connect(options.Client().ApplyURI("mongodb://localhost:27017"))
//	conn := driver.NewConn(client, "shop")
//	repo := repository.New("orders", conn, schema.Build(Order{}))
//	orders, _ := repo.Find(ctx, map[string]any{"where": map[string]any{"status": "pending"}})
package driver

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

// Runner is the execution contract the repository layer depends on.
// It is defined here so callers can assert a Conn satisfies it without
// importing the rest of the library.
type Runner interface {
	Find(ctx context.Context, collection string, filter bson.M, fo *FindOptions) ([]bson.M, error)
	Aggregate(ctx context.Context, collection string, pipeline bson.A) ([]bson.M, error)
}

// FindOptions carries the normalized non-filter parts of a find.
type FindOptions struct {
	Sort   bson.M
	Fields bson.M
	Skip   int64
	Limit  int64
}

// Conn implements Runner on top of *mongo.Client.
type Conn struct {
	client *mongo.Client
	db     *mongo.Database
}

// NewConn wraps an existing mongo client, pinned to one database.
func NewConn(c *mongo.Client, database string) *Conn {
	return &Conn{client: c, db: c.Database(database)}
}

// Collection exposes the underlying handle for index creation and
// seeding; the query path never needs it.
func (c *Conn) Collection(name string) *mongo.Collection {
	return c.db.Collection(name)
}

// Find satisfies the Runner interface.
func (c *Conn) Find(ctx context.Context, collection string, filter bson.M, fo *FindOptions) ([]bson.M, error) {
	ctx, span := otel.Tracer("mongonorm.driver").Start(ctx, "mongo.find")
	defer span.End()

	opts := options.Find()
	if fo != nil {
		if len(fo.Sort) > 0 {
			opts.SetSort(fo.Sort)
		}
		if len(fo.Fields) > 0 {
			opts.SetProjection(fo.Fields)
		}
		if fo.Skip > 0 {
			opts.SetSkip(fo.Skip)
		}
		if fo.Limit > 0 {
			opts.SetLimit(fo.Limit)
		}
	}
	if filter == nil {
		filter = bson.M{}
	}

	start := time.Now()
	cur, err := c.db.Collection(collection).Find(ctx, filter, opts)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	var docs []bson.M
	err = cur.All(ctx, &docs)

	span.SetAttributes(
		attribute.String("db.collection", collection),
		attribute.Float64("db.duration_ms", float64(time.Since(start).Milliseconds())),
	)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return docs, nil
}

// Aggregate satisfies the Runner interface.
func (c *Conn) Aggregate(ctx context.Context, collection string, pipeline bson.A) ([]bson.M, error) {
	ctx, span := otel.Tracer("mongonorm.driver").Start(ctx, "mongo.aggregate")
	defer span.End()

	start := time.Now()
	cur, err := c.db.Collection(collection).Aggregate(ctx, pipeline)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	var docs []bson.M
	err = cur.All(ctx, &docs)

	span.SetAttributes(
		attribute.String("db.collection", collection),
		attribute.Float64("db.duration_ms", float64(time.Since(start).Milliseconds())),
	)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return docs, nil
}

// Close conveniently disconnects the underlying client.
func (c *Conn) Close(ctx context.Context) error { return c.client.Disconnect(ctx) }
