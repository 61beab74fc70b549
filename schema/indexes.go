package schema

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// EnsureIndexes creates a secondary index for every tagged field of
// model that carries the `index` or `unique` attribute.  Creating an
// index that already exists is a no-op on the server, so the call is
// safe to repeat on startup.
func EnsureIndexes(ctx context.Context, coll *mongo.Collection, model any) error {
	s := Build(model)

	var models []mongo.IndexModel
	for name, f := range s {
		if !f.Index && !f.Unique {
			continue
		}
		im := mongo.IndexModel{Keys: bson.D{{Key: name, Value: 1}}}
		if f.Unique {
			im.Options = options.Index().SetUnique(true)
		}
		models = append(models, im)
	}
	if len(models) == 0 {
		return nil
	}

	if _, err := coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("schema: create indexes for %q: %w", coll.Name(), err)
	}
	return nil
}
