package service

import (
	"context"

	"gig-roster-api/core/errors"
	"gig-roster-api/modules/gig/entity"

	"github.com/google/uuid"
)

// fakeGigRepo is an in-memory GigRepositoryInterface for service tests.
type fakeGigRepo struct {
	gigs         map[uuid.UUID]*entity.Gig
	roles        map[uuid.UUID]*entity.GigRole
	sameDay      []entity.Gig
	lineupMember bool
	deletedGigs  []uuid.UUID
	deletedRoles []uuid.UUID
}

func newFakeGigRepo() *fakeGigRepo {
	return &fakeGigRepo{
		gigs:  map[uuid.UUID]*entity.Gig{},
		roles: map[uuid.UUID]*entity.GigRole{},
	}
}

func (f *fakeGigRepo) addGig(g *entity.Gig) *entity.Gig {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	f.gigs[g.ID] = g
	return g
}

func (f *fakeGigRepo) addRole(r *entity.GigRole) *entity.GigRole {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.InvitationStatus == "" {
		r.InvitationStatus = entity.InvitationStatusPending
	}
	f.roles[r.ID] = r
	return r
}

func (f *fakeGigRepo) CreateGig(ctx context.Context, gig *entity.Gig) (*entity.Gig, error) {
	return f.addGig(gig), nil
}

func (f *fakeGigRepo) GetGigByID(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	return f.gigs[id], nil
}

func (f *fakeGigRepo) GetGigsByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Gig, error) {
	var out []entity.Gig
	for _, g := range f.gigs {
		if g.OwnerID == ownerID {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGigRepo) UpdateGig(ctx context.Context, gig *entity.Gig) error {
	f.gigs[gig.ID] = gig
	return nil
}

func (f *fakeGigRepo) UpdateGigFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	return nil
}

func (f *fakeGigRepo) DeleteGig(ctx context.Context, id uuid.UUID) error {
	delete(f.gigs, id)
	f.deletedGigs = append(f.deletedGigs, id)
	return nil
}

func (f *fakeGigRepo) GetGigsForUserOnDate(ctx context.Context, userID uuid.UUID, date string) ([]entity.Gig, error) {
	return f.sameDay, nil
}

func (f *fakeGigRepo) GetGigByPublicSlug(ctx context.Context, slug string) (*entity.Gig, error) {
	for _, g := range f.gigs {
		if g.PublicSlug != nil && *g.PublicSlug == slug && g.IsPublic {
			return g, nil
		}
	}
	return nil, nil
}

func (f *fakeGigRepo) GetExternalGigsByOwner(ctx context.Context, ownerID uuid.UUID) ([]entity.Gig, error) {
	var out []entity.Gig
	for _, g := range f.gigs {
		if g.OwnerID == ownerID && g.IsExternal {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeGigRepo) CreateRole(ctx context.Context, role *entity.GigRole) (*entity.GigRole, error) {
	return f.addRole(role), nil
}

func (f *fakeGigRepo) GetRoleByID(ctx context.Context, id uuid.UUID) (*entity.GigRole, error) {
	return f.roles[id], nil
}

func (f *fakeGigRepo) GetRolesByGigID(ctx context.Context, gigID uuid.UUID) ([]entity.GigRole, error) {
	var out []entity.GigRole
	for _, r := range f.roles {
		if r.GigID == gigID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeGigRepo) DeleteRole(ctx context.Context, id uuid.UUID) error {
	delete(f.roles, id)
	f.deletedRoles = append(f.deletedRoles, id)
	return nil
}

func (f *fakeGigRepo) IsLineupMember(ctx context.Context, gigID uuid.UUID, userID uuid.UUID) (bool, error) {
	return f.lineupMember, nil
}

// fakeCalendarGateway records cleanup calls and serves canned busy intervals.
type fakeCalendarGateway struct {
	busy           []BusyInterval
	busyErr        *errors.AppError
	deletedEvents  []string
	removedWatches []uuid.UUID
	deleteErr      *errors.AppError
}

func (f *fakeCalendarGateway) ListBusyIntervals(ctx context.Context, userID uuid.UUID, date string) ([]BusyInterval, *errors.AppError) {
	if f.busyErr != nil {
		return nil, f.busyErr
	}
	return f.busy, nil
}

func (f *fakeCalendarGateway) DeleteEventForUser(ctx context.Context, userID uuid.UUID, eventID string) *errors.AppError {
	f.deletedEvents = append(f.deletedEvents, eventID)
	return f.deleteErr
}

func (f *fakeCalendarGateway) RemoveWatchForRole(ctx context.Context, roleID uuid.UUID) *errors.AppError {
	f.removedWatches = append(f.removedWatches, roleID)
	return nil
}
