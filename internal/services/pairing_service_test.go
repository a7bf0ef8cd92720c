package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/habitsync-api/internal/models"
	"github.com/yukikurage/habitsync-api/internal/repository"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type pairingTestEnv struct {
	db       *gorm.DB
	userRepo repository.UserRepository
	pairing  *PairingService
}

func setupPairingTestEnv(t *testing.T) pairingTestEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.User{},
		&models.PairInvitation{},
		&models.UserPair{},
	)
	require.NoError(t, err)

	userRepo := repository.NewUserRepository(db)
	pairing := NewPairingService(repository.NewPairingRepository(db), userRepo)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return pairingTestEnv{
		db:       db,
		userRepo: userRepo,
		pairing:  pairing,
	}
}

func (env pairingTestEnv) createUser(t *testing.T, email, username string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		Username:     username,
		PasswordHash: "irrelevant",
	}
	require.NoError(t, env.userRepo.Create(user))
	return user
}

func TestPairingService_SendInvitation(t *testing.T) {
	env := setupPairingTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice@example.com", "Alice")
	env.createUser(t, "bob@example.com", "Bob")

	invitation, err := env.pairing.SendInvitation(ctx, SendInvitationInput{
		FromUserID: alice.ID,
		ToEmail:    "Bob@Example.com",
	})
	require.NoError(t, err)

	require.Equal(t, alice.ID, invitation.FromUserID)
	require.Equal(t, "Alice", invitation.FromUserName)
	require.Equal(t, "bob@example.com", invitation.ToEmail)
	require.Equal(t, models.InvitationPending, invitation.Status)
}

func TestPairingService_SendInvitation_SelfInvite(t *testing.T) {
	env := setupPairingTestEnv(t)

	alice := env.createUser(t, "alice@example.com", "Alice")

	_, err := env.pairing.SendInvitation(context.Background(), SendInvitationInput{
		FromUserID: alice.ID,
		ToEmail:    "alice@example.com",
	})
	require.ErrorIs(t, err, ErrSelfInvitation)
}

func TestPairingService_SendInvitation_UnknownRecipient(t *testing.T) {
	env := setupPairingTestEnv(t)

	alice := env.createUser(t, "alice@example.com", "Alice")

	_, err := env.pairing.SendInvitation(context.Background(), SendInvitationInput{
		FromUserID: alice.ID,
		ToEmail:    "nobody@example.com",
	})
	require.ErrorIs(t, err, ErrRecipientNotFound)
}

func TestPairingService_Accept_LinksBothUsers(t *testing.T) {
	env := setupPairingTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice@example.com", "Alice")
	bob := env.createUser(t, "bob@example.com", "Bob")

	invitation, err := env.pairing.SendInvitation(ctx, SendInvitationInput{
		FromUserID: alice.ID,
		ToEmail:    bob.Email,
	})
	require.NoError(t, err)

	accepted, err := env.pairing.Accept(ctx, invitation.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, models.InvitationAccepted, accepted.Status)
	require.NotNil(t, accepted.AcceptedAt)

	// Exactly one symmetric link per user.
	bobPair, err := env.pairing.GetPartner(bob.ID)
	require.NoError(t, err)
	require.Equal(t, alice.ID, bobPair.PartnerID)

	alicePair, err := env.pairing.GetPartner(alice.ID)
	require.NoError(t, err)
	require.Equal(t, bob.ID, alicePair.PartnerID)

	var count int64
	require.NoError(t, env.db.Model(&models.UserPair{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestPairingService_Accept_OnlyInvitee(t *testing.T) {
	env := setupPairingTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice@example.com", "Alice")
	bob := env.createUser(t, "bob@example.com", "Bob")
	eve := env.createUser(t, "eve@example.com", "Eve")

	invitation, err := env.pairing.SendInvitation(ctx, SendInvitationInput{
		FromUserID: alice.ID,
		ToEmail:    bob.Email,
	})
	require.NoError(t, err)

	_, err = env.pairing.Accept(ctx, invitation.ID, eve.ID)
	require.ErrorIs(t, err, ErrNotInvitee)
}

func TestPairingService_Reject_IsTerminal(t *testing.T) {
	env := setupPairingTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice@example.com", "Alice")
	bob := env.createUser(t, "bob@example.com", "Bob")

	invitation, err := env.pairing.SendInvitation(ctx, SendInvitationInput{
		FromUserID: alice.ID,
		ToEmail:    bob.Email,
	})
	require.NoError(t, err)

	rejected, err := env.pairing.Reject(ctx, invitation.ID, bob.ID)
	require.NoError(t, err)
	require.Equal(t, models.InvitationRejected, rejected.Status)
	require.NotNil(t, rejected.RejectedAt)

	// Rejection changes no pairing state and cannot be reversed.
	_, err = env.pairing.GetPartner(bob.ID)
	require.ErrorIs(t, err, ErrNotPaired)

	_, err = env.pairing.Accept(ctx, invitation.ID, bob.ID)
	require.ErrorIs(t, err, ErrInvitationNotPending)
}

func TestPairingService_Unpair(t *testing.T) {
	env := setupPairingTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice@example.com", "Alice")
	bob := env.createUser(t, "bob@example.com", "Bob")

	invitation, err := env.pairing.SendInvitation(ctx, SendInvitationInput{
		FromUserID: alice.ID,
		ToEmail:    bob.Email,
	})
	require.NoError(t, err)
	_, err = env.pairing.Accept(ctx, invitation.ID, bob.ID)
	require.NoError(t, err)

	require.NoError(t, env.pairing.Unpair(ctx, alice.ID))

	// Both directions disappear regardless of who unpairs.
	_, err = env.pairing.GetPartner(alice.ID)
	require.ErrorIs(t, err, ErrNotPaired)
	_, err = env.pairing.GetPartner(bob.ID)
	require.ErrorIs(t, err, ErrNotPaired)
}

func TestPairingService_PartnerID_Unpaired(t *testing.T) {
	env := setupPairingTestEnv(t)

	alice := env.createUser(t, "alice@example.com", "Alice")

	partnerID, err := env.pairing.PartnerID(alice.ID)
	require.NoError(t, err)
	require.Zero(t, partnerID)
}

func TestPairingService_ListIncoming(t *testing.T) {
	env := setupPairingTestEnv(t)
	ctx := context.Background()

	alice := env.createUser(t, "alice@example.com", "Alice")
	bob := env.createUser(t, "bob@example.com", "Bob")
	carol := env.createUser(t, "carol@example.com", "Carol")

	_, err := env.pairing.SendInvitation(ctx, SendInvitationInput{FromUserID: alice.ID, ToEmail: bob.Email})
	require.NoError(t, err)
	_, err = env.pairing.SendInvitation(ctx, SendInvitationInput{FromUserID: carol.ID, ToEmail: bob.Email})
	require.NoError(t, err)

	invitations, err := env.pairing.ListIncoming(bob.ID)
	require.NoError(t, err)
	require.Len(t, invitations, 2)

	none, err := env.pairing.ListIncoming(alice.ID)
	require.NoError(t, err)
	require.Empty(t, none)
}
