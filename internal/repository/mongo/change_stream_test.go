package mongo

import (
	"testing"

	"ptrainer/backend/internal/invalidation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func change(t *testing.T, coll string, id primitive.ObjectID, full bson.M) changeEvent {
	t.Helper()
	var c changeEvent
	c.OperationType = "update"
	c.Namespace.Collection = coll
	c.DocumentKey.ID = id
	if full != nil {
		raw, err := bson.Marshal(full)
		require.NoError(t, err)
		c.FullDocument = raw
	}
	return c
}

func TestToEvent_Plan(t *testing.T) {
	planID, membershipID := primitive.NewObjectID(), primitive.NewObjectID()

	event, ok := toEvent(change(t, planCollectionName, planID, bson.M{"membershipId": membershipID}))
	require.True(t, ok)
	assert.Equal(t, invalidation.Event{Kind: invalidation.KindPlan, ID: planID, MembershipID: membershipID}, event)

	// Deletes carry no document.
	event, ok = toEvent(change(t, planCollectionName, planID, nil))
	require.True(t, ok)
	assert.True(t, event.MembershipID.IsZero())
}

func TestToEvent_PerformanceLogMapsToClient(t *testing.T) {
	clientID := primitive.NewObjectID()

	event, ok := toEvent(change(t, performanceCollectionName, primitive.NewObjectID(), bson.M{"clientId": clientID}))
	require.True(t, ok)
	assert.Equal(t, invalidation.Event{Kind: invalidation.KindClient, ID: clientID}, event)

	_, ok = toEvent(change(t, performanceCollectionName, primitive.NewObjectID(), nil))
	assert.False(t, ok)
}

func TestToEvent_LibraryAndIgnored(t *testing.T) {
	foodID := primitive.NewObjectID()
	event, ok := toEvent(change(t, foodCollectionName, foodID, nil))
	require.True(t, ok)
	assert.Equal(t, invalidation.KindFood, event.Kind)
	assert.Equal(t, foodID, event.ID)

	_, ok = toEvent(change(t, cacheCollectionName, primitive.NewObjectID(), nil))
	assert.False(t, ok)
	_, ok = toEvent(change(t, packageCollectionName, primitive.NewObjectID(), nil))
	assert.False(t, ok)
}
