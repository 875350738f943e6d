// services/atomic.go
package services

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// runAtomic executes fn inside a single MongoDB session transaction. Every
// multi-document ledger mutation goes through here so the writes either all
// apply or none do. Guard conditions (status still Pending, balance still
// sufficient, investment still active) are expressed as update filters
// inside fn, which is what makes retried or concurrent submissions collapse
// to one effect.
func runAtomic(ctx context.Context, db *mongo.Database, fn func(sc mongo.SessionContext) error) error {
	session, err := db.Client().StartSession()
	if err != nil {
		return err
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
