package services

import (
	"testing"

	"github.com/athlinked/server/pkg/internal/database"
	"github.com/athlinked/server/pkg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRequestFollowPublicTarget(t *testing.T) {
	setupTestDatabase(t)

	source := createTestProfile(t, models.VisibilityPublic)
	target := createTestProfile(t, models.VisibilityPublic)

	edge, err := RequestFollow(source, target, nil)
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipAccepted, edge.Status)

	// Instant accept notifies the new followee once.
	assert.EqualValues(t, 1, countNotifications(t, target.ID, models.NotificationKindFollow))

	// Lookups use one struct each; gorm keeps a populated primary key as a
	// query condition on reuse.
	var followee models.Profile
	require.NoError(t, database.C.First(&followee, target.ID).Error)
	assert.EqualValues(t, 1, followee.TotalFollowers)
	var follower models.Profile
	require.NoError(t, database.C.First(&follower, source.ID).Error)
	assert.EqualValues(t, 1, follower.TotalFollowing)
}

func TestRequestFollowPrivateTarget(t *testing.T) {
	setupTestDatabase(t)

	source := createTestProfile(t, models.VisibilityPublic)
	target := createTestProfile(t, models.VisibilityPrivate)

	edge, err := RequestFollow(source, target, nil)
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipPending, edge.Status)

	assert.EqualValues(t, 1, countNotifications(t, target.ID, models.NotificationKindFollowRequest))

	// No counter movement until acceptance.
	var refreshed models.Profile
	require.NoError(t, database.C.First(&refreshed, target.ID).Error)
	assert.EqualValues(t, 0, refreshed.TotalFollowers)
}

func TestRequestFollowValidation(t *testing.T) {
	setupTestDatabase(t)

	source := createTestProfile(t, models.VisibilityPublic)
	target := createTestProfile(t, models.VisibilityPublic)

	_, err := RequestFollow(source, source, nil)
	assert.ErrorIs(t, err, ErrSelfFollow)

	_, err = RequestFollow(source, target, nil)
	require.NoError(t, err)

	// Any existing edge blocks a second request.
	_, err = RequestFollow(source, target, nil)
	assert.ErrorIs(t, err, ErrEdgeExists)
}

func TestRespondFollow(t *testing.T) {
	setupTestDatabase(t)

	source := createTestProfile(t, models.VisibilityPublic)
	target := createTestProfile(t, models.VisibilityPrivate)
	bystander := createTestProfile(t, models.VisibilityPublic)

	edge, err := RequestFollow(source, target, nil)
	require.NoError(t, err)

	// Only the target may respond.
	_, err = RespondFollow(edge.ID, bystander, true)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = RespondFollow(edge.ID, source, true)
	assert.ErrorIs(t, err, ErrForbidden)

	accepted, err := RespondFollow(edge.ID, target, true)
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipAccepted, accepted.Status)
	assert.EqualValues(t, 1, countNotifications(t, source.ID, models.NotificationKindFollowAccepted))

	// Responding twice hits the not-pending guard.
	_, err = RespondFollow(edge.ID, target, true)
	assert.ErrorIs(t, err, ErrNotPending)

	_, err = RespondFollow(99999, target, true)
	assert.ErrorIs(t, err, ErrEdgeNotFound)
}

func TestRespondFollowReject(t *testing.T) {
	setupTestDatabase(t)

	source := createTestProfile(t, models.VisibilityPublic)
	target := createTestProfile(t, models.VisibilityPrivate)

	edge, err := RequestFollow(source, target, nil)
	require.NoError(t, err)

	rejected, err := RespondFollow(edge.ID, target, false)
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipRejected, rejected.Status)

	// Rejection stays silent.
	assert.EqualValues(t, 0, countNotifications(t, source.ID, models.NotificationKindFollowAccepted))

	// The rejected edge persists and blocks an immediate re-request.
	_, err = RequestFollow(source, target, nil)
	assert.ErrorIs(t, err, ErrEdgeExists)

	// The requester clears it via Unfollow, then may request again.
	require.NoError(t, Unfollow(source, target))
	fresh, err := RequestFollow(source, target, nil)
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipPending, fresh.Status)
}

func TestUnfollow(t *testing.T) {
	setupTestDatabase(t)

	source := createTestProfile(t, models.VisibilityPublic)
	target := createTestProfile(t, models.VisibilityPublic)

	_, err := RequestFollow(source, target, nil)
	require.NoError(t, err)

	require.NoError(t, Unfollow(source, target))

	edge, err := GetRelationship(source.ID, target.ID)
	require.NoError(t, err)
	assert.Nil(t, edge)

	var followee models.Profile
	require.NoError(t, database.C.First(&followee, target.ID).Error)
	assert.EqualValues(t, 0, followee.TotalFollowers)
	var follower models.Profile
	require.NoError(t, database.C.First(&follower, source.ID).Error)
	assert.EqualValues(t, 0, follower.TotalFollowing)

	// Unfollow of an absent edge is a no-op success.
	require.NoError(t, Unfollow(source, target))
}

func TestUnfollowRacedRemove(t *testing.T) {
	setupTestDatabase(t)

	source := createTestProfile(t, models.VisibilityPublic)
	target := createTestProfile(t, models.VisibilityPublic)

	_, err := RequestFollow(source, target, nil)
	require.NoError(t, err)

	// A rival removal lands between the edge lookup and the delete. Follower
	// counters have no sweep repairing them, so the loser must notice its
	// delete affected nothing and leave them alone.
	fired := false
	rival := func(db *gorm.DB) {
		if fired || db.Statement.Table != "relationship_edges" {
			return
		}
		fired = true
		session := db.Session(&gorm.Session{NewDB: true})
		require.NoError(t, session.
			Delete(&models.RelationshipEdge{}, "source_id = ? AND target_id = ?", source.ID, target.ID).Error)
		require.NoError(t, applyFollowerCounters(session, source.ID, target.ID, -1))
	}
	require.NoError(t, database.C.Callback().Query().After("gorm:query").Register("rival_unfollow", rival))
	defer database.C.Callback().Query().Remove("rival_unfollow")

	require.NoError(t, Unfollow(source, target))

	var followee models.Profile
	require.NoError(t, database.C.First(&followee, target.ID).Error)
	assert.EqualValues(t, 0, followee.TotalFollowers)
	var follower models.Profile
	require.NoError(t, database.C.First(&follower, source.ID).Error)
	assert.EqualValues(t, 0, follower.TotalFollowing)
}

func TestRemoveFollower(t *testing.T) {
	setupTestDatabase(t)

	source := createTestProfile(t, models.VisibilityPublic)
	target := createTestProfile(t, models.VisibilityPublic)

	_, err := RequestFollow(source, target, nil)
	require.NoError(t, err)

	require.NoError(t, RemoveFollower(target, source))

	edge, err := GetRelationship(source.ID, target.ID)
	require.NoError(t, err)
	assert.Nil(t, edge)

	// Absent edge: still a success.
	require.NoError(t, RemoveFollower(target, source))
}

func TestFollowListings(t *testing.T) {
	setupTestDatabase(t)

	target := createTestProfile(t, models.VisibilityPrivate)
	a := createTestProfile(t, models.VisibilityPublic)
	b := createTestProfile(t, models.VisibilityPublic)

	edgeA, err := RequestFollow(a, target, nil)
	require.NoError(t, err)
	_, err = RequestFollow(b, target, nil)
	require.NoError(t, err)

	pending, err := ListPendingRequests(target, 10, 0)
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = RespondFollow(edgeA.ID, target, true)
	require.NoError(t, err)

	followers, err := ListFollowers(target, 10, 0)
	require.NoError(t, err)
	require.Len(t, followers, 1)
	assert.Equal(t, a.ID, followers[0].SourceID)

	following, err := ListFollowing(a, 10, 0)
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, target.ID, following[0].TargetID)
}

func TestDuplicateEdgeConstraint(t *testing.T) {
	setupTestDatabase(t)

	source := createTestProfile(t, models.VisibilityPublic)
	target := createTestProfile(t, models.VisibilityPublic)

	_, err := RequestFollow(source, target, nil)
	require.NoError(t, err)

	// The unique index is the last line of defense for racing requests that
	// both miss the existence pre-check.
	err = database.C.Create(&models.RelationshipEdge{
		SourceID: source.ID,
		TargetID: target.ID,
		Status:   models.RelationshipPending,
	}).Error
	assert.Error(t, err)
}
