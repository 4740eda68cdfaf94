package services

import (
	"testing"

	"github.com/athlinked/server/pkg/internal/database"
	"github.com/athlinked/server/pkg/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanViewPostPolicyOrder(t *testing.T) {
	owner := models.Profile{BaseModel: models.BaseModel{ID: 1}, Visibility: models.VisibilityPrivate}
	viewer := models.Profile{BaseModel: models.BaseModel{ID: 2}, Visibility: models.VisibilityPublic}
	privatePost := models.Post{Visibility: models.VisibilityPrivate, AuthorID: owner.ID}
	publicPost := models.Post{Visibility: models.VisibilityPublic, AuthorID: owner.ID}

	accepted := &models.RelationshipEdge{SourceID: viewer.ID, TargetID: owner.ID, Status: models.RelationshipAccepted}
	pending := &models.RelationshipEdge{SourceID: viewer.ID, TargetID: owner.ID, Status: models.RelationshipPending}
	rejected := &models.RelationshipEdge{SourceID: viewer.ID, TargetID: owner.ID, Status: models.RelationshipRejected}

	// Owners always see their own content, whatever the flags say.
	assert.True(t, CanViewPost(&owner, owner, privatePost, nil))

	// Public post by a public owner is visible to anyone, even anonymous.
	publicOwner := models.Profile{BaseModel: models.BaseModel{ID: 3}, Visibility: models.VisibilityPublic}
	openPost := models.Post{Visibility: models.VisibilityPublic, AuthorID: publicOwner.ID}
	assert.True(t, CanViewPost(nil, publicOwner, openPost, nil))
	assert.True(t, CanViewPost(&viewer, publicOwner, openPost, nil))

	// A public post under a private profile stays hidden from strangers.
	assert.False(t, CanViewPost(&viewer, owner, publicPost, nil))
	assert.False(t, CanViewPost(nil, owner, publicPost, nil))

	// Only an accepted edge grants visibility; pending and rejected do not.
	assert.True(t, CanViewPost(&viewer, owner, privatePost, accepted))
	assert.False(t, CanViewPost(&viewer, owner, privatePost, pending))
	assert.False(t, CanViewPost(&viewer, owner, privatePost, rejected))

	// An edge pointing the other way grants nothing.
	reversed := &models.RelationshipEdge{SourceID: owner.ID, TargetID: viewer.ID, Status: models.RelationshipAccepted}
	assert.False(t, CanViewPost(&viewer, owner, privatePost, reversed))
}

func TestCanViewPostOrganizationRule(t *testing.T) {
	// A shared organization tag reaches even a private post by a private
	// profile. Intentional product behavior.
	owner := models.Profile{
		BaseModel:     models.BaseModel{ID: 1},
		Visibility:    models.VisibilityPrivate,
		Organizations: []string{"stanford", "track-club"},
	}
	teammate := models.Profile{
		BaseModel:     models.BaseModel{ID: 2},
		Visibility:    models.VisibilityPrivate,
		Organizations: []string{"stanford"},
	}
	stranger := models.Profile{
		BaseModel:     models.BaseModel{ID: 3},
		Organizations: []string{"berkeley"},
	}
	privatePost := models.Post{Visibility: models.VisibilityPrivate, AuthorID: owner.ID}

	assert.True(t, CanViewPost(&teammate, owner, privatePost, nil))
	assert.False(t, CanViewPost(&stranger, owner, privatePost, nil))

	assert.True(t, SharesOrganization(teammate, owner))
	assert.False(t, SharesOrganization(stranger, owner))
}

func TestCanViewPostWithID(t *testing.T) {
	setupTestDatabase(t)

	owner := createTestProfile(t, models.VisibilityPrivate)
	viewer := createTestProfile(t, models.VisibilityPublic)
	post := createTestPost(t, owner, models.VisibilityPrivate)

	// No edge: denied.
	assert.False(t, CanViewPostWithID(&viewer, post.ID))

	// Pending request: still denied.
	edge, err := RequestFollow(viewer, owner, nil)
	require.NoError(t, err)
	assert.Equal(t, models.RelationshipPending, edge.Status)
	assert.False(t, CanViewPostWithID(&viewer, post.ID))

	// Acceptance strictly increases visibility.
	_, err = RespondFollow(edge.ID, owner, true)
	require.NoError(t, err)
	assert.True(t, CanViewPostWithID(&viewer, post.ID))

	// Unfollow reverts the grant.
	require.NoError(t, Unfollow(viewer, owner))
	assert.False(t, CanViewPostWithID(&viewer, post.ID))

	// Unknown post is simply denied.
	assert.False(t, CanViewPostWithID(&viewer, 99999))
}

func TestCanViewPostWithIDFailsClosed(t *testing.T) {
	setupTestDatabase(t)

	owner := createTestProfile(t, models.VisibilityPrivate)
	viewer := createTestProfile(t, models.VisibilityPublic)
	post := createTestPost(t, owner, models.VisibilityPrivate)

	edge, err := RequestFollow(viewer, owner, nil)
	require.NoError(t, err)
	_, err = RespondFollow(edge.ID, owner, true)
	require.NoError(t, err)
	require.True(t, CanViewPostWithID(&viewer, post.ID))

	// A broken relationship lookup must deny a grant it can no longer
	// verify, never default open.
	require.NoError(t, database.C.Exec("DROP TABLE relationship_edges").Error)
	assert.False(t, CanViewPostWithID(&viewer, post.ID))

	// With the posts table gone even public content resolves to a denial.
	require.NoError(t, database.C.Exec("DROP TABLE posts").Error)
	assert.False(t, CanViewPostWithID(&viewer, post.ID))
	assert.False(t, CanViewPostWithID(nil, post.ID))
}
