package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/andolan/internal/interfaces"
	"github.com/bobmcallan/andolan/internal/models"
)

func member(id, appID string, created time.Time) *models.Member {
	return &models.Member{
		ID:             id,
		ApplicationID:  appID,
		Name:           "Ramesh",
		Village:        "Khedi",
		City:           "Indore",
		PhoneNumber:    "9876543210",
		MembershipType: models.MembershipGeneral,
		DocumentType:   models.DocumentNone,
		Status:         models.MemberStatusPending,
		CreatedAt:      created,
	}
}

func TestStore_SaveGetMember(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m := member("u1", "RKM123456001", time.Time{})
	require.NoError(t, s.SaveMember(ctx, m))
	assert.False(t, m.CreatedAt.IsZero())

	got, err := s.GetMember(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "RKM123456001", got.ApplicationID)
	assert.Equal(t, models.MemberStatusPending, got.Status)
	assert.Equal(t, "Khedi", got.Village)
}

func TestStore_GetMemberNotFound(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GetMember(context.Background(), "missing")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
}

func TestStore_SaveMemberUpdatesStatus(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m := member("u1", "RKM123456001", time.Time{})
	require.NoError(t, s.SaveMember(ctx, m))

	m.Status = models.MemberStatusApproved
	require.NoError(t, s.SaveMember(ctx, m))

	got, err := s.GetMember(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.MemberStatusApproved, got.Status)

	all, err := s.ListMembers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestStore_ListMembersNewestFirst(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveMember(ctx, member("old", "RKM000001001", base)))
	require.NoError(t, s.SaveMember(ctx, member("new", "KLP000002002", base.Add(48*time.Hour))))
	require.NoError(t, s.SaveMember(ctx, member("mid", "RKM000003003", base.Add(24*time.Hour))))

	all, err := s.ListMembers(ctx)
	require.NoError(t, err)
	ids := make([]string, len(all))
	for i, m := range all {
		ids[i] = m.ID
	}
	assert.Equal(t, []string{"new", "mid", "old"}, ids)
}

func TestStore_ListMembersEmpty(t *testing.T) {
	all, err := newTestStore(t).ListMembers(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, all)
	assert.Empty(t, all)
}

func TestStore_SaveMemberRequiresIDs(t *testing.T) {
	err := newTestStore(t).SaveMember(context.Background(), &models.Member{ID: "u1"})
	assert.ErrorIs(t, err, interfaces.ErrInvalidInput)
}

func TestStore_DuplicateApplicationIDRejected(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveMember(ctx, member("u1", "RKM123456001", time.Time{})))
	assert.Error(t, s.SaveMember(ctx, member("u2", "RKM123456001", time.Time{})))
}

func TestStore_SaveGetDocument(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := &models.Document{ID: "d1", MemberID: "u1", Name: "aadhaar.jpg", ContentType: "image/jpeg", Data: []byte{0xff, 0xd8, 0xff, 0x00, 0x01}}
	require.NoError(t, s.SaveDocument(ctx, doc))
	assert.Equal(t, 5, doc.Size)

	got, err := s.GetDocument(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.MemberID)
	assert.Equal(t, "aadhaar.jpg", got.Name)
	assert.Equal(t, "image/jpeg", got.ContentType)
	assert.Equal(t, []byte{0xff, 0xd8, 0xff, 0x00, 0x01}, got.Data)
	assert.Equal(t, 5, got.Size)
	assert.False(t, got.CreatedAt.IsZero())

	_, err = s.GetDocument(ctx, "missing")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
	assert.ErrorIs(t, s.SaveDocument(ctx, &models.Document{ID: "d2"}), interfaces.ErrInvalidInput)
}

func TestStore_DeleteMember(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m := member("u1", "RKM123456001", time.Time{})
	m.DocumentID = "d1"
	require.NoError(t, s.SaveMember(ctx, m))
	require.NoError(t, s.SaveDocument(ctx, &models.Document{ID: "d1", MemberID: "u1", Name: "a.jpg", ContentType: "image/jpeg", Data: []byte("x")}))
	require.NoError(t, s.SaveMember(ctx, member("u2", "RKM123456002", time.Time{})))

	require.NoError(t, s.DeleteMember(ctx, "u1"))

	_, err := s.GetMember(ctx, "u1")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)
	_, err = s.GetDocument(ctx, "d1")
	assert.ErrorIs(t, err, interfaces.ErrNotFound)

	all, err := s.ListMembers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "u2", all[0].ID)

	assert.ErrorIs(t, s.DeleteMember(ctx, "u1"), interfaces.ErrNotFound)
}

func TestStore_MemberNotesAndDocumentReference(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	m := member("u1", "RKM123456001", time.Time{})
	m.DocumentID = "d1"
	m.DocumentName = "card.jpg"
	m.Notes = "Verified by phone"
	require.NoError(t, s.SaveMember(ctx, m))

	got, err := s.GetMember(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "d1", got.DocumentID)
	assert.Equal(t, "card.jpg", got.DocumentName)
	assert.Equal(t, "Verified by phone", got.Notes)
}
