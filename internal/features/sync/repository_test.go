package sync

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestResultRepository(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("EnsureCollection tolerates existing collection", func(mt *mtest.T) {
		repo := &ResultRepositoryImpl{DB: mt.DB, Collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    48,
			Name:    "NamespaceExists",
			Message: "collection already exists",
		}))

		assert.NoError(mt, repo.EnsureCollection(context.Background(), 50))
	})

	mt.Run("EnsureCollection surfaces other errors", func(mt *mtest.T) {
		repo := &ResultRepositoryImpl{DB: mt.DB, Collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code:    13,
			Name:    "Unauthorized",
			Message: "not authorized",
		}))

		assert.Error(mt, repo.EnsureCollection(context.Background(), 50))
	})

	mt.Run("Append", func(mt *mtest.T) {
		repo := &ResultRepositoryImpl{DB: mt.DB, Collection: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		result := newResult("run-1", KindBatch, TriggerManual, true, time.Now())
		result.settle()
		require.NoError(mt, repo.Append(context.Background(), result))
	})

	mt.Run("List decodes newest first", func(mt *mtest.T) {
		repo := &ResultRepositoryImpl{DB: mt.DB, Collection: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
				bson.D{{Key: "run_id", Value: "run-2"}, {Key: "status", Value: "partial"}, {Key: "failed", Value: 1}},
				bson.D{{Key: "run_id", Value: "run-1"}, {Key: "status", Value: "success"}},
			),
			mtest.CreateCursorResponse(0, ns, mtest.NextBatch),
		)

		results, err := repo.List(context.Background(), 10)
		require.NoError(mt, err)
		require.Len(mt, results, 2)
		assert.Equal(mt, "run-2", results[0].RunID)
		assert.Equal(mt, StatusPartial, results[0].Status)
		assert.Equal(mt, 1, results[0].Failed)
	})

	mt.Run("Latest on empty log", func(mt *mtest.T) {
		repo := &ResultRepositoryImpl{DB: mt.DB, Collection: mt.Coll}
		ns := mt.Coll.Database().Name() + "." + mt.Coll.Name()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		result, err := repo.Latest(context.Background())
		require.NoError(mt, err)
		assert.Nil(mt, result)
	})
}
